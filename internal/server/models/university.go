package models

import "time"

// University is a row of the university directory. Registration only accepts
// email addresses whose domain matches one of these rows.
type University struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"-"`
}
