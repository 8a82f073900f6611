package model

// Actor represents a performer that can be cast in movies. This struct
// corresponds to a row in the `actors` table; every column is NOT NULL.
type Actor struct {
	ID     int64  `json:"id"`     // actors.id
	Name   string `json:"name"`   // actors.name
	Age    int    `json:"age"`    // actors.age
	Gender string `json:"gender"` // actors.gender
}
