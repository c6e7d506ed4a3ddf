package widgets

import "strings"

// Rotator scrolls text that is too long for its label, one rune per step.
type Rotator struct {
	runes []rune
	width int
}

// NewRotator creates a rotator for text shown in width runes.
func NewRotator(text string, width int) *Rotator {
	return &Rotator{runes: []rune(text + strings.Repeat(" ", 4)), width: width}
}

// Scrolls reports whether the text is wider than the label.
func (r *Rotator) Scrolls() bool {
	return len(r.runes)-4 > r.width
}

// Rotate advances one step and returns the visible text.
// Text that fits is returned unchanged.
func (r *Rotator) Rotate() string {
	if !r.Scrolls() {
		return strings.TrimRight(string(r.runes), " ")
	}
	r.runes = append(r.runes[1:], r.runes[0])
	return string(r.runes[:r.width])
}
