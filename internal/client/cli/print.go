package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

const stampLayout = "2006-01-02 15:04"

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint, color.Italic)

	moodColors = map[string]*color.Color{
		"positive": color.New(color.FgGreen),
		"negative": color.New(color.FgRed),
		"neutral":  color.New(color.FgYellow),
	}
)

func header(cols ...string) []interface{} {
	out := make([]interface{}, len(cols))
	for i, c := range cols {
		out[i] = bold.Sprint(c)
	}
	return out
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	return tbl
}

func printNone(w io.Writer) {
	_, _ = faint.Fprintln(w, " none")
}

// moodLabel renders the mood with its emoji, colored by sentiment. Entries
// awaiting analysis show a dash.
func moodLabel(e api.Entry) string {
	if e.MoodAnalysis == nil {
		return faint.Sprint("-")
	}
	label := fmt.Sprintf("%s %s %d", e.MoodAnalysis.Emoji, e.MoodAnalysis.Mood, e.MoodAnalysis.Rating)
	if c, ok := moodColors[e.MoodAnalysis.Mood]; ok {
		return c.Sprint(label)
	}
	return label
}

func printEntries(w io.Writer, entries []api.Entry, full bool) {
	if len(entries) == 0 {
		printNone(w)
		return
	}

	tbl := newTable()
	tbl.Wrap = full
	tbl.AddRow(header("ID", "DAY", "MOOD", "TEXT", "BATCH")...)
	for _, e := range entries {
		text := e.Excerpt
		if full {
			text = e.Text
		}
		tbl.AddRow(e.ID, e.DayKey, moodLabel(e), oneLine(text), e.BatchID)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printBatches(w io.Writer, batches []api.Batch) {
	if len(batches) == 0 {
		printNone(w)
		return
	}

	tbl := newTable()
	tbl.AddRow(header("BATCH", "CREATED", "IMPORTED", "REMAINING")...)
	for _, b := range batches {
		tbl.AddRow(b.BatchID, b.CreatedAt.Local().Format(stampLayout), b.EntryCount, b.LiveCount)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printArchive(w io.Writer, entries []api.ArchivedEntry) {
	if len(entries) == 0 {
		printNone(w)
		return
	}

	tbl := newTable()
	tbl.AddRow(header("ORIGINAL ID", "DELETED", "DAY", "TEXT")...)
	for _, e := range entries {
		tbl.AddRow(e.OriginalID, e.DeletedAt.Local().Format(stampLayout), e.DayKey, oneLine(e.Excerpt))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printMonths(w io.Writer, months []api.Month) {
	if len(months) == 0 {
		printNone(w)
		return
	}

	tbl := newTable()
	tbl.AddRow(header("MONTH", "ENTRIES", "FIRST", "LAST", "SAMPLES")...)
	for _, m := range months {
		tbl.AddRow(m.MonthKey, m.Count, shortStamp(m.FirstAt), shortStamp(m.LastAt), len(m.Samples))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printQueueStatus(w io.Writer, st *api.QueueStatus) {
	state := faint.Sprint("idle")
	if st.Processing {
		state = color.New(color.FgCyan).Sprint("processing")
	}

	errs := strconv.Itoa(st.Errors)
	if st.Errors > 0 {
		errs = color.New(color.FgRed).Sprint(errs)
	}

	_, _ = fmt.Fprintf(w, "%s  pending %d  processed %d/%d  errors %s\n", state, st.Pending, st.Processed, st.Total, errs)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// shortStamp trims a stored timestamp to minutes, leaving unparsable
// values as they are.
func shortStamp(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t.Local().Format(stampLayout)
}
