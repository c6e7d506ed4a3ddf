package domain

// Key is a toolkit-independent keyboard key understood by the audio bridge.
type Key int

const (
	KeyUnknown Key = iota
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeySpace:
		return "space"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "unknown"
	}
}
