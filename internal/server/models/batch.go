package models

import "time"

// Batch registers one bulk import so it can be undone as a unit.
type Batch struct {
	ID         string
	UserID     string
	BatchID    string
	EntryIDs   []string
	EntryCount int
	CreatedAt  time.Time
}
