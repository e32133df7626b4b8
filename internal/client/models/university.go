package models

// University is a row of the university directory served by the backend.
type University struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}
