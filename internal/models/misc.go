package models

import "time"

// Row is an untyped record from a listing-only table.
type Row map[string]interface{}

// Normalize converts driver byte slices into strings so rows encode as readable JSON.
func (r Row) Normalize() Row {
	for k, v := range r {
		if b, ok := v.([]byte); ok {
			r[k] = string(b)
		}
	}
	return r
}

// Announcement is a portal-wide notice.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Suggestion is one entry of search autocomplete.
type Suggestion struct {
	Type string `db:"type" json:"type"`
	Text string `db:"text" json:"text"`
}
