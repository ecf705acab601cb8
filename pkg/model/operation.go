package model

import "time"

// Operation records one lifecycle action (install/backup/restore) in the
// local journal.
type Operation struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Status    string    `json:"status"` // ok/failed
	Timestamp time.Time `json:"timestamp"`
}
