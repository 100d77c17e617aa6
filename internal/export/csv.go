// Package export turns a filtered feedback set into a CSV download.
package export

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"feedbacker-web/internal/models"
)

// ErrNoRecords is returned instead of emitting an empty file.
var ErrNoRecords = errors.New("no feedback records to export")

var header = []string{"Name", "Event", "Event Type", "Comment", "Rating", "Sentiment", "Date"}

// CSV writes one row per record. encoding/csv handles the quoting rules:
// embedded double quotes are doubled and fields containing a comma, quote or
// newline are wrapped in quotes.
func CSV(w io.Writer, records []models.FeedbackRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		date := ""
		if !r.CreatedAt.IsZero() {
			date = r.CreatedAt.Format("2006-01-02")
		}
		row := []string{
			r.Name,
			r.Event,
			r.EventType,
			r.Comment,
			strconv.Itoa(r.Rating),
			string(r.Sentiment),
			date,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename derives the download name from the active filter:
// feedback_all.csv when unfiltered, otherwise the filter label with
// whitespace collapsed to underscores.
func Filename(filter models.Filter) string {
	label := strings.Join(strings.Fields(filter.Label()), "_")
	if label == "" {
		label = "all"
	}
	return "feedback_" + label + ".csv"
}
