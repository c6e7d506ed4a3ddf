package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// playerKeys are polled every update.
var playerKeys = []ebiten.Key{
	ebiten.KeySpace,
	ebiten.KeyArrowLeft,
	ebiten.KeyArrowRight,
	ebiten.KeyArrowUp,
	ebiten.KeyArrowDown,
}

func keyFor(key ebiten.Key) domain.Key {
	switch key {
	case ebiten.KeySpace:
		return domain.KeySpace
	case ebiten.KeyArrowLeft:
		return domain.KeyLeft
	case ebiten.KeyArrowRight:
		return domain.KeyRight
	case ebiten.KeyArrowUp:
		return domain.KeyUp
	case ebiten.KeyArrowDown:
		return domain.KeyDown
	default:
		return domain.KeyUnknown
	}
}
