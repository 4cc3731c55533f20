// Package importfmt reads the plain-text bulk import format:
//
//	2025-01-01 : first entry,
//	possibly spanning lines
//	~`~
//	2025-01-02 : second entry
//
// Records are separated by a line holding only ~`~. Each record starts with
// a YYYY-MM-DD date followed by " : " and the entry text.
package importfmt

import (
	"regexp"
	"strings"
)

// Separator is the record delimiter line.
const Separator = "~`~"

var (
	splitPattern = regexp.MustCompile("\r?\n~`~\r?\n")
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Record is one parsed import item.
type Record struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Parse splits text into records. Malformed records (missing " : " or a
// date not shaped like YYYY-MM-DD) are dropped without error. The date shape
// is not checked against the calendar.
func Parse(text string) []Record {
	var records []Record
	for _, chunk := range splitPattern.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		date, content, ok := strings.Cut(chunk, " : ")
		if !ok {
			continue
		}
		date = strings.TrimSpace(date)
		if !datePattern.MatchString(date) {
			continue
		}

		records = append(records, Record{Date: date, Content: strings.TrimSpace(content)})
	}
	return records
}

// Format renders records back into the import format.
func Format(records []Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Date + " : " + r.Content
	}
	return strings.Join(parts, "\n"+Separator+"\n")
}
