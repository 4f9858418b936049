package models

// BookEntry is one saved book in one of the three user lists. OwnerEmail
// always comes from verified token claims, never from the request body.
type BookEntry struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Publisher  string `json:"publisher"`
	Year       string `json:"year"`
	Identifier string `json:"identifier"`
	Thumbnail  string `json:"thumbnail"`
	OwnerEmail string `json:"user"`
}
