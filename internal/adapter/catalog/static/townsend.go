package static

import (
	"fmt"

	"github.com/tejashwikalptaru/dreamtune/internal/domain"
)

// townsendStreamIDs are the Audius tracks the Townsend catalog streams in rotation.
var townsendStreamIDs = []string{
	"bbzxO", "yy8W57d", "B5NlV9m", "wQm7Wdb", "bQQp4PW",
	"ENXv2gR", "xzGgY", "82oW3", "7AlA9", "92jww",
	"NkA3p", "JZ2kp", "WxA36", "QxAkW", "n1zqQ",
}

type townsendTrack struct {
	title    string
	duration int
}

type townsendAlbum struct {
	id, name, description string
	year                  int
	genre                 string
	basePlayCount         int
	tracks                []townsendTrack
}

var townsendAlbums = []townsendAlbum{
	{"ocean-machine", "Ocean Machine: Biomech",
		"Townsend's breakthrough solo work. Progressive metal with ambient textures and soaring melodies.",
		1997, "Progressive Metal", 45000, []townsendTrack{
			{"Seventh Wave", 410}, {"Life", 271}, {"Night", 285}, {"Hide Nowhere", 300},
			{"Sister", 168}, {"3 A.M.", 116}, {"Voices in the Fan", 279}, {"Greetings", 173},
			{"Regulator", 306}, {"Funeral", 486}, {"Bastard", 617},
			{"The Death of Music", 735}, {"Things Beyond Things", 287},
		}},
	{"terria", "Terria",
		"An expansive, nature-inspired progressive metal epic evoking the vast Canadian landscape.",
		2001, "Progressive Metal", 52000, []townsendTrack{
			{"Olives", 201}, {"Mountain", 392}, {"Earth Day", 575}, {"Deep Peace", 454},
			{"Canada", 413}, {"Down and Under", 223}, {"The Fluke", 436},
			{"Nobody's Here", 414}, {"Tiny Tears", 552}, {"Stagnant", 325}, {"Humble", 330},
		}},
	{"ki", "Ki",
		"The first album in the four-part quadrology. Restrained, quiet and introspective.",
		2009, "Progressive Rock", 35000, []townsendTrack{
			{"A Monday", 103}, {"Coast", 276}, {"Disruptr", 349}, {"Gato", 323},
			{"Terminal", 418}, {"Heaven's End", 534}, {"Ain't Never Gonna Win", 197},
			{"Winter", 288}, {"Trainfire", 359}, {"Lady Helen", 365},
			{"Ki", 441}, {"Quiet Riot", 182}, {"Demon League", 175},
		}},
	{"ghost", "Ghost",
		"The final quadrology album. Ethereal, meditative and dreamlike with no metal elements.",
		2011, "Ambient", 40000, []townsendTrack{
			{"Fly", 255}, {"Heart Baby", 355}, {"Feather", 690}, {"Kawaii", 172},
			{"Ghost", 384}, {"Blackberry", 293}, {"Monsoon", 277}, {"Dark Matters", 117},
			{"Texada", 570}, {"Seams", 244}, {"Infinite Ocean", 481}, {"As You Were", 527},
		}},
	{"empath", "Empath",
		"Townsend's most genre-defying work, from brutal metal to orchestral to new age.",
		2019, "Progressive Metal", 62000, []townsendTrack{
			{"Castaway", 148}, {"Genesis", 365}, {"Spirits Will Collide", 279},
			{"Evermore", 330}, {"Sprite", 397}, {"Hear Me", 390},
			{"Why?", 299}, {"Borderlands", 662}, {"Requiem", 166}, {"Singularity", 1413},
		}},
	{"snuggles", "Snuggles",
		"A seamless ambient record designed as a continuous listening experience.",
		2021, "Ambient", 22000, []townsendTrack{
			{"Beyond Measure", 91}, {"Blue Dot", 188}, {"Drifting and Dreaming", 267},
			{"Sundance", 53}, {"Minds Are Changing", 226}, {"The Ocean", 295},
			{"Distant, Elegant", 214}, {"Replikiss", 213}, {"I Agree", 204},
			{"Tryst", 210}, {"Sunset Rump", 93}, {"The Option", 264},
		}},
}

// TownsendAlbums returns the display catalog. Tracks are numbered dt-0, dt-1, ...
// across all albums and stream the rotation in townsendStreamIDs.
func TownsendAlbums() []domain.Playlist {
	albums := make([]domain.Playlist, 0, len(townsendAlbums))
	idx := 0
	for _, a := range townsendAlbums {
		artwork := fmt.Sprintf("/images/albums/%s.jpg", a.id)
		date := fmt.Sprintf("%d-01-01", a.year)
		tracks := make([]domain.Track, len(a.tracks))
		for i, t := range a.tracks {
			tracks[i] = domain.Track{
				ID:          fmt.Sprintf("dt-%d", idx),
				StreamID:    townsendStreamIDs[idx%len(townsendStreamIDs)],
				Title:       t.title,
				Duration:    t.duration,
				Artwork:     strPtr(artwork),
				Genre:       strPtr(a.genre),
				PlayCount:   a.basePlayCount + (idx*7919)%(a.basePlayCount/2),
				ReleaseDate: strPtr(date),
			}
			idx++
		}
		albums = append(albums, domain.Playlist{
			ID:          a.id,
			Name:        a.name,
			Description: strPtr(a.description),
			Artwork:     strPtr(artwork),
			TrackCount:  len(tracks),
			Tracks:      tracks,
			IsAlbum:     true,
		})
	}
	return albums
}

// TownsendArtist returns the artist profile for the display catalog.
func TownsendArtist() domain.Artist {
	count := 0
	for _, a := range townsendAlbums {
		count += len(a.tracks)
	}
	return domain.Artist{
		ID:         "devin-townsend",
		Handle:     "devintownsend",
		Name:       "Devin Townsend",
		Bio:        strPtr("Canadian musician, singer, songwriter and producer known for an expansive sonic palette."),
		TrackCount: count,
	}
}
