package model

// Movie represents a production the agency casts for. It corresponds to a
// row in the `movies` table.
type Movie struct {
	ID          int64  `json:"id"`           // movies.id
	Title       string `json:"title"`        // movies.title
	ReleaseDate Date   `json:"release_date"` // movies.release_date
}
