package igdb

// Game is the subset of IGDB game fields the catalog stores. Reference id
// fields arrive as plain integer arrays because queries never expand them.
type Game struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Genres           []int64  `json:"genres"`
	Keywords         []int64  `json:"keywords"`
	Themes           []int64  `json:"themes"`
	Collections      []int64  `json:"collections"`
	Remasters        []int64  `json:"remasters"`
	ParentGame       *int64   `json:"parent_game"`
	VersionParent    *int64   `json:"version_parent"`
	GameType         *int     `json:"game_type"`
	Cover            *int64   `json:"cover"`
	FirstReleaseDate *int64   `json:"first_release_date"`
	TotalRating      *float64 `json:"total_rating"`
}

type Cover struct {
	ID     int64  `json:"id"`
	GameID *int64 `json:"game"`
	URL    string `json:"url"`
}

// NamedRecord covers the flat id/name endpoints (genres, themes, keywords).
type NamedRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
