package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbacker-web/internal/models"
)

func TestCSVEmptySetFailsFast(t *testing.T) {
	var buf bytes.Buffer
	err := CSV(&buf, nil)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Zero(t, buf.Len())
}

func TestCSVRoundTrip(t *testing.T) {
	records := []models.FeedbackRecord{
		{
			Name:      "Amy",
			Event:     "Tech Fair",
			EventType: "Workshop",
			Comment:   "Great!",
			Rating:    9,
			Sentiment: models.SentimentPositive,
			CreatedAt: time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC),
		},
		{
			Name:      "Bo",
			Event:     "Cultural Night",
			EventType: "Cultural",
			Comment:   "Loud, crowded, still \"fun\"\nwould return",
			Rating:    6,
			Sentiment: models.SentimentNeutral,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)

	assert.Equal(t, []string{"Name", "Event", "Event Type", "Comment", "Rating", "Sentiment", "Date"}, rows[0])
	assert.Equal(t, "Great!", rows[1][3])
	assert.Equal(t, "2025-05-12", rows[1][6])
	// The quoted comment must survive escape/unescape unchanged.
	assert.Equal(t, "Loud, crowded, still \"fun\"\nwould return", rows[2][3])
	assert.Equal(t, "", rows[2][6])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "feedback_all.csv", Filename(models.Filter{}))
	assert.Equal(t, "feedback_Tech_Fair.csv", Filename(models.Filter{Event: "Tech Fair"}))
	assert.Equal(t, "feedback_Workshop.csv", Filename(models.Filter{EventType: "Workshop"}))
	assert.Equal(t, "feedback_Tech_Fair_Workshop.csv",
		Filename(models.Filter{Event: "Tech Fair", EventType: "Workshop"}))
}
