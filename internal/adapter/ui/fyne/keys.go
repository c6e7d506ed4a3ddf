package fyne

import (
	fyneapp "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// keyFor maps a Fyne key to a player key.
func keyFor(name fyneapp.KeyName) domain.Key {
	switch name {
	case fyneapp.KeySpace:
		return domain.KeySpace
	case fyneapp.KeyLeft:
		return domain.KeyLeft
	case fyneapp.KeyRight:
		return domain.KeyRight
	case fyneapp.KeyUp:
		return domain.KeyUp
	case fyneapp.KeyDown:
		return domain.KeyDown
	default:
		return domain.KeyUnknown
	}
}

// isTextInput reports whether the focused object takes typed text.
func isTextInput(focused fyneapp.Focusable) bool {
	switch focused.(type) {
	case *widget.Entry, *widget.SelectEntry:
		return true
	default:
		return false
	}
}
