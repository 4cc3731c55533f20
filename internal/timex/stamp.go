package timex

import "time"

// StampLayout is the fixed-width UTC ISO-8601 layout used for persisted
// timestamps. Equal widths make lexicographic order equal time order.
const StampLayout = "2006-01-02T15:04:05.000Z"

// Stamp renders t in StampLayout.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ParseStamp parses a value written by Stamp.
func ParseStamp(s string) (time.Time, error) {
	return time.Parse(StampLayout, s)
}

// NoonLocal returns 12:00 local time on the given YYYY-MM-DD date, which
// keeps the calendar day stable across timezone conversions.
func NoonLocal(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}
