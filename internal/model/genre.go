package model

// Genre is a simple immutable reference entity used to classify
// screenings.  Genres are seeded once and listed globally; they are
// never updated through the API.  This struct corresponds to a row in
// the `genres` table.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique genre name.
type Genre struct {
	ID   uint64 `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}
