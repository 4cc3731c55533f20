package api

import "time"

// Empty is a message without fields.
type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type MoodAnalysis struct {
	Rating      int     `json:"rating"`
	Mood        string  `json:"mood"`
	Description string  `json:"description"`
	Emoji       string  `json:"emoji"`
	Score       float64 `json:"score"`
	Rationale   string  `json:"rationale,omitempty"`
}

type Entry struct {
	ID           string        `json:"id"`
	Text         string        `json:"text"`
	Excerpt      string        `json:"excerpt"`
	CreatedAt    time.Time     `json:"created_at"`
	DayKey       string        `json:"day_key"`
	MonthKey     string        `json:"month_key"`
	Mood         string        `json:"mood,omitempty"`
	MoodAnalysis *MoodAnalysis `json:"mood_analysis,omitempty"`
	ImageRef     string        `json:"image_ref,omitempty"`
	BatchID      string        `json:"batch_id,omitempty"`
}

// AddEntryRequest creates an entry. A nil CreatedAt means now; otherwise the
// offset of CreatedAt decides the entry's day.
type AddEntryRequest struct {
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	ImageRef  string     `json:"image_ref,omitempty"`
}

type EntryResponse struct {
	Entry Entry `json:"entry"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type ListEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

// ImportBatchRequest carries a whole import file.
type ImportBatchRequest struct {
	Text string `json:"text"`
}

type Batch struct {
	ID         string    `json:"id"`
	BatchID    string    `json:"batch_id"`
	EntryIDs   []string  `json:"entry_ids"`
	EntryCount int       `json:"entry_count"`
	LiveCount  int       `json:"live_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ImportBatchResponse struct {
	Batch Batch `json:"batch"`
}

type BatchRequest struct {
	BatchID string `json:"batch_id"`
}

type CountResponse struct {
	Deleted int `json:"deleted"`
}

type ListBatchesResponse struct {
	Batches []Batch `json:"batches"`
}

// BulkDeleteRequest selects imported entries to delete: every imported
// entry when AllBatches is set, otherwise those of BatchIDs.
type BulkDeleteRequest struct {
	AllBatches bool     `json:"all_batches,omitempty"`
	BatchIDs   []string `json:"batch_ids,omitempty"`
}

type ArchivedEntry struct {
	Entry
	ArchiveID  string    `json:"archive_id"`
	OriginalID string    `json:"original_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}

type ListArchiveResponse struct {
	Entries []ArchivedEntry `json:"entries"`
}

type Month struct {
	MonthKey string   `json:"month_key"`
	Count    int64    `json:"count"`
	Samples  []string `json:"samples"`
	FirstAt  string   `json:"first_at"`
	LastAt   string   `json:"last_at"`
}

type ListMonthsResponse struct {
	Months []Month `json:"months"`
}

type ImageUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type ImageURLRequest struct {
	Key string `json:"key"`
}

type ImageURLResponse struct {
	URL string `json:"url"`
}

type QueueStatus struct {
	Pending    int  `json:"pending"`
	Processing bool `json:"processing"`
	Processed  int  `json:"processed"`
	Total      int  `json:"total"`
	Errors     int  `json:"errors"`
}
