package static

import (
	"fmt"
	"image/color"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// placeholderStreamID is the single ambient stream every Dreampeace track plays.
const placeholderStreamID = "5K29J"

type dreampeaceAlbum struct {
	id, name, description, artwork string
	trackCount                     int
	titleFormat                    string
	theme                          domain.VisualizerTheme
}

func palette(hex ...string) []color.RGBA {
	out := make([]color.RGBA, len(hex))
	for i, h := range hex {
		out[i] = domain.MustHexColor(h)
	}
	return out
}

var dreampeaceAlbums = []dreampeaceAlbum{
	{
		id: "dp1", name: "Tryptophan", artwork: "/images/dreampeace/tryptophan.jpg",
		description: "A cozy, warm, light purple vibe. The first ambient collection.",
		trackCount:  9, titleFormat: "Tryptophan Pt. %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleWarmPulse,
			Colors:    palette("#c8a2e8", "#e8b4d8", "#f4d4b0", "#9d7bc4"),
			BgColor:   domain.MustHexColor("#1a1020"), GlowColor: domain.MustHexColor("#d8b4fe"),
			ParticleCount: 0, Intensity: 0.7,
		},
	},
	{
		id: "dp2", name: "Sky Gods", artwork: "/images/dreampeace/skygods.jpg",
		description: "Features unique sweeps created using a custom-built tool.",
		trackCount:  10, titleFormat: "Sky Gods Pt. %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleAuroraSweep,
			Colors:    palette("#4fd1c5", "#63b3ed", "#9f7aea", "#68d391"),
			BgColor:   domain.MustHexColor("#0a1420"), GlowColor: domain.MustHexColor("#81e6d9"),
			ParticleCount: 0, Intensity: 0.8,
		},
	},
	{
		id: "dp3", name: "Dawn Shifter", artwork: "/images/dreampeace/dawnshifter.jpg",
		description: "Ethereal morning soundscapes.",
		trackCount:  8, titleFormat: "Shift %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleSunriseRays,
			Colors:    palette("#fbb040", "#f7906d", "#f9d976", "#e96f92"),
			BgColor:   domain.MustHexColor("#1c1220"), GlowColor: domain.MustHexColor("#ffd194"),
			ParticleCount: 0, Intensity: 0.75,
		},
	},
	{
		id: "dp4", name: "Space Oyster", artwork: "/images/dreampeace/spaceoyster.jpg",
		description: "Deep space meditation.",
		trackCount:  6, titleFormat: "Movement %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleNebulaField,
			Colors:    palette("#7f5af0", "#2cb1bc", "#e2e8f0", "#b794f4"),
			BgColor:   domain.MustHexColor("#05050f"), GlowColor: domain.MustHexColor("#a78bfa"),
			ParticleCount: 120, Intensity: 0.85,
		},
	},
	{
		id: "dp5", name: "Snow Day", artwork: "/images/dreampeace/snowday.jpg",
		description: "Quiet winter reflection.",
		trackCount:  7, titleFormat: "Snow %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleFallingSnow,
			Colors:    palette("#ffffff", "#dbeafe", "#bfdbfe", "#e0e7ff"),
			BgColor:   domain.MustHexColor("#0f172a"), GlowColor: domain.MustHexColor("#e0f2fe"),
			ParticleCount: 150, Intensity: 0.6,
		},
	},
	{
		id: "dp6", name: "Beautiful Day", artwork: "/images/dreampeace/beautifulday.jpg",
		description: "Uplifting and light.",
		trackCount:  5, titleFormat: "Ray %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleRisingBubbles,
			Colors:    palette("#fde68a", "#a7f3d0", "#bae6fd", "#fbcfe8"),
			BgColor:   domain.MustHexColor("#102030"), GlowColor: domain.MustHexColor("#fef3c7"),
			ParticleCount: 60, Intensity: 0.7,
		},
	},
	{
		id: "dp7", name: "Pond Skimmer", artwork: "/images/dreampeace/pondskimmer.jpg",
		description: "Tranquil stillness at the water's edge.",
		trackCount:  6, titleFormat: "Skim %d",
		theme: domain.VisualizerTheme{
			DrawStyle: domain.StyleWaterRipples,
			Colors:    palette("#38b2ac", "#4299e1", "#9ae6b4", "#2c7a7b"),
			BgColor:   domain.MustHexColor("#061a1a"), GlowColor: domain.MustHexColor("#81e6d9"),
			ParticleCount: 0, Intensity: 0.65,
		},
	},
}

// DreampeaceAlbums returns the seven ambient albums. Every track streams the same
// placeholder ambient stream under its own display ID.
func DreampeaceAlbums() []domain.Playlist {
	albums := make([]domain.Playlist, 0, len(dreampeaceAlbums))
	for _, a := range dreampeaceAlbums {
		tracks := make([]domain.Track, a.trackCount)
		for i := range tracks {
			tracks[i] = domain.Track{
				ID:          fmt.Sprintf("%s-t%d", a.id, i),
				StreamID:    placeholderStreamID,
				Title:       fmt.Sprintf(a.titleFormat, i+1),
				Duration:    2093,
				Genre:       strPtr("Ambient"),
				Mood:        strPtr("Peaceful"),
				PlayCount:   1200,
				ReleaseDate: strPtr("2023-01-01"),
				Description: strPtr("Placeholder ambient stream for Dreampeace experience"),
			}
		}
		albums = append(albums, domain.Playlist{
			ID:          a.id,
			Name:        a.name,
			Description: strPtr(a.description),
			Artwork:     strPtr(a.artwork),
			TrackCount:  a.trackCount,
			Tracks:      tracks,
			IsAlbum:     true,
		})
	}
	return albums
}

// Themes implements ports.ThemeLookup over the Dreampeace table.
type Themes struct {
	themes map[string]domain.VisualizerTheme
	order  []string
}

// NewThemes returns the Dreampeace theme table.
func NewThemes() *Themes {
	t := &Themes{themes: make(map[string]domain.VisualizerTheme, len(dreampeaceAlbums))}
	for _, a := range dreampeaceAlbums {
		t.themes[a.id] = a.theme
		t.order = append(t.order, a.id)
	}
	return t
}

// ThemeFor returns the theme of an album. The palette is copied so callers cannot alter the table.
func (t *Themes) ThemeFor(albumID string) (domain.VisualizerTheme, error) {
	theme, ok := t.themes[albumID]
	if !ok {
		return domain.VisualizerTheme{}, fmt.Errorf("%w: %s", domain.ErrThemeNotFound, albumID)
	}
	theme.Colors = append([]color.RGBA(nil), theme.Colors...)
	return theme, nil
}

// AlbumIDs lists the albums that have a theme, in table order.
func (t *Themes) AlbumIDs() []string {
	return append([]string(nil), t.order...)
}
