package models

import "time"

// ArchivedEntry is a copy of a deleted entry kept for recovery.
type ArchivedEntry struct {
	Entry
	// ArchiveID identifies the archive row. Entry.ID keeps the original id.
	ArchiveID  string
	OriginalID string
	DeletedAt  time.Time
}

// NewArchivedEntry snapshots e as deleted at deletedAt.
func NewArchivedEntry(archiveID string, e *Entry, deletedAt time.Time) *ArchivedEntry {
	copied := *e
	if e.MoodAnalysis != nil {
		ma := *e.MoodAnalysis
		copied.MoodAnalysis = &ma
	}
	return &ArchivedEntry{
		Entry:      copied,
		ArchiveID:  archiveID,
		OriginalID: e.ID,
		DeletedAt:  deletedAt,
	}
}
