package models

import "time"

// MonthIndex is the bounded per-month digest of a user's entries.
//
// Count only ever grows: deletes do not decrement it.
type MonthIndex struct {
	UserID    string
	MonthKey  string
	Count     int64
	Samples   []string
	FirstAt   string
	LastAt    string
	Version   int64
	UpdatedAt time.Time
}

// Record returns the index after one more entry with the given id, excerpt
// and timestamp (timex.Stamp form) has been created in this month.
//
// Samples fill up to sampleSize; afterwards the slot
// HashString(entryID) % len(Samples) is overwritten. This is a deterministic
// slot replacement, not a uniform reservoir sample.
func (m MonthIndex) Record(entryID, excerpt, at string, sampleSize int) MonthIndex {
	next := m
	next.Count = m.Count + 1

	next.Samples = append([]string(nil), m.Samples...)
	if len(next.Samples) > sampleSize {
		next.Samples = next.Samples[:sampleSize]
	}
	if len(next.Samples) < sampleSize {
		next.Samples = append(next.Samples, excerpt)
	} else if len(next.Samples) > 0 {
		idx := HashString(entryID) % uint32(len(next.Samples))
		next.Samples[idx] = excerpt
	}

	first, last := m.FirstAt, m.LastAt
	if first == "" {
		first = at
	}
	if last == "" {
		last = at
	}
	if at < first {
		first = at
	}
	if at > last {
		last = at
	}
	next.FirstAt, next.LastAt = first, last

	return next
}
