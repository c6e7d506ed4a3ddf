package audius

import "github.com/tejashwikalptaru/dreamtune/internal/domain"

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func artworkURL(a *wireArtwork) *string {
	if a == nil {
		return nil
	}
	if a.Medium != "" {
		return &a.Medium
	}
	return optional(a.Small)
}

func normalizeTrack(t wireTrack) domain.Track {
	duration := t.Duration
	if duration < 0 {
		duration = 0
	}
	plays := t.PlayCount
	if plays < 0 {
		plays = 0
	}
	return domain.Track{
		ID:          t.ID,
		StreamID:    t.ID,
		Title:       t.Title,
		Duration:    duration,
		Artwork:     artworkURL(t.Artwork),
		Genre:       optional(t.Genre),
		Mood:        optional(t.Mood),
		PlayCount:   plays,
		ReleaseDate: optional(t.ReleaseDate),
		Description: optional(t.Description),
	}
}

func normalizeTracks(in []wireTrack) []domain.Track {
	out := make([]domain.Track, 0, len(in))
	for _, t := range in {
		out = append(out, normalizeTrack(t))
	}
	return out
}

func normalizePlaylist(p wirePlaylist, tracks []domain.Track) domain.Playlist {
	count := p.TrackCount
	if count == 0 {
		count = len(tracks)
	}
	return domain.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: optional(p.Description),
		Artwork:     artworkURL(p.Artwork),
		TrackCount:  count,
		Tracks:      tracks,
		IsAlbum:     p.IsAlbum,
	}
}

func normalizeArtist(u wireUser) domain.Artist {
	a := domain.Artist{
		ID:            u.ID,
		Handle:        u.Handle,
		Name:          u.Name,
		Bio:           optional(u.Bio),
		ProfileImage:  artworkURL(u.ProfilePicture),
		FollowerCount: u.FollowerCount,
		TrackCount:    u.TrackCount,
	}
	if u.CoverPhoto != nil {
		if u.CoverPhoto.Large != "" {
			a.CoverImage = optional(u.CoverPhoto.Large)
		} else {
			a.CoverImage = optional(u.CoverPhoto.Small)
		}
	}
	return a
}
