package models

import (
	"strings"
	"time"
)

// Sentiment is the label the analysis backend assigns to a feedback comment.
// The client never computes it.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"

	// SentimentUnknown marks records whose label is missing or not one of
	// the three known values. They count towards totals but no bucket.
	SentimentUnknown Sentiment = ""
)

// ParseSentiment folds case and maps anything unrecognized to SentimentUnknown.
func ParseSentiment(raw string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive":
		return SentimentPositive
	case "neutral":
		return SentimentNeutral
	case "negative":
		return SentimentNegative
	}
	return SentimentUnknown
}

// Display returns the capitalized label, or "-" for unknown sentiment.
func (s Sentiment) Display() string {
	if s == SentimentUnknown {
		return "-"
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// FeedbackRecord is the canonical shape of one submission. Every backend
// response variant is normalized into this struct at the API client boundary,
// so no view handles raw response shapes.
//
// EventType is kept as a plain string rather than the EventType enum: the
// backend may return records whose type was removed from the enumeration
// since submission, and those must still render.
type FeedbackRecord struct {
	Name      string    `json:"name"`
	Event     string    `json:"event"`
	EventType string    `json:"eventType"`
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayDate formats CreatedAt for table rendering, "-" when the backend
// sent no timestamp.
func (r FeedbackRecord) DisplayDate() string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	return r.CreatedAt.Format("Jan 2, 2006")
}

// Submission is the client-built payload for a new feedback record. Sentiment
// and timestamps are assigned by the backend, which is the system of record.
type Submission struct {
	Name      string `json:"name"`
	Event     string `json:"event"`
	EventType string `json:"eventType"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
}

// SentimentSummary is a derived aggregate over a filtered set of records.
// It is recomputed on every fetch and never cached beyond the current view.
type SentimentSummary struct {
	Positive      int     `json:"positive"`
	Neutral       int     `json:"neutral"`
	Negative      int     `json:"negative"`
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
}
