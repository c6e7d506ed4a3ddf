package audius

// Audius discovery API payloads. Every endpoint wraps its result in "data".

type trackResponse struct {
	Data *wireTrack `json:"data"`
}

type tracksResponse struct {
	Data []wireTrack `json:"data"`
}

type playlistResponse struct {
	Data []wirePlaylist `json:"data"`
}

type playlistsResponse struct {
	Data []wirePlaylist `json:"data"`
}

type userResponse struct {
	Data *wireUser `json:"data"`
}

type wireArtwork struct {
	Small  string `json:"150x150"`
	Medium string `json:"480x480"`
	Large  string `json:"1000x1000"`
}

type wireCover struct {
	Small string `json:"640x"`
	Large string `json:"2000x"`
}

type wireTrack struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Duration    int          `json:"duration"`
	Artwork     *wireArtwork `json:"artwork"`
	Genre       string       `json:"genre"`
	Mood        string       `json:"mood"`
	PlayCount   int          `json:"play_count"`
	ReleaseDate string       `json:"release_date"`
	Description string       `json:"description"`
}

type wirePlaylist struct {
	ID          string       `json:"id"`
	Name        string       `json:"playlist_name"`
	Description string       `json:"description"`
	Artwork     *wireArtwork `json:"artwork"`
	TrackCount  int          `json:"track_count"`
	IsAlbum     bool         `json:"is_album"`
}

type wireUser struct {
	ID             string       `json:"id"`
	Handle         string       `json:"handle"`
	Name           string       `json:"name"`
	Bio            string       `json:"bio"`
	ProfilePicture *wireArtwork `json:"profile_picture"`
	CoverPhoto     *wireCover   `json:"cover_photo"`
	FollowerCount  int          `json:"follower_count"`
	TrackCount     int          `json:"track_count"`
}
