package widgets

import (
	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	_ fyneapp.DoubleTappable    = (*TrackLabel)(nil)
	_ fyneapp.SecondaryTappable = (*TrackLabel)(nil)
)

// TrackLabel is a list row for one track. A double tap plays the track and a
// secondary tap queues it. Locked tracks show a lock icon.
type TrackLabel struct {
	widget.BaseWidget

	label *widget.Label
	lock  *widget.Icon
	index int

	doubleTapped    func(index int)
	secondaryTapped func(index int, pos fyneapp.Position)
}

// NewTrackLabel creates a row with the given callbacks. Either may be nil.
func NewTrackLabel(doubleTapped func(index int), secondaryTapped func(index int, pos fyneapp.Position)) *TrackLabel {
	l := &TrackLabel{
		label:           widget.NewLabel(""),
		lock:            widget.NewIcon(theme.VisibilityOffIcon()),
		doubleTapped:    doubleTapped,
		secondaryTapped: secondaryTapped,
	}
	l.label.Truncation = fyneapp.TextTruncateEllipsis
	l.lock.Hide()
	l.ExtendBaseWidget(l)
	return l
}

// CreateRenderer implements fyne.Widget.
func (l *TrackLabel) CreateRenderer() fyneapp.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, l.lock, nil, l.label))
}

// Set shows a track title at index.
func (l *TrackLabel) Set(index int, text string, locked bool) {
	l.index = index
	l.label.SetText(text)
	if locked {
		l.lock.Show()
	} else {
		l.lock.Hide()
	}
}

// Text returns the shown title.
func (l *TrackLabel) Text() string {
	return l.label.Text
}

// Index returns the row's item index.
func (l *TrackLabel) Index() int {
	return l.index
}

// DoubleTapped implements fyne.DoubleTappable.
func (l *TrackLabel) DoubleTapped(_ *fyneapp.PointEvent) {
	if l.doubleTapped != nil {
		l.doubleTapped(l.index)
	}
}

// TappedSecondary implements fyne.SecondaryTappable.
func (l *TrackLabel) TappedSecondary(pe *fyneapp.PointEvent) {
	if l.secondaryTapped != nil {
		l.secondaryTapped(l.index, pe.AbsolutePosition)
	}
}
