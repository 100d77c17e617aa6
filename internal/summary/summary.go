// Package summary computes the dashboard aggregates over a set of feedback
// records. All functions are pure; the aggregate is recomputed on every
// fetch and never cached.
package summary

import (
	"math"

	"feedbacker-web/internal/models"
)

// Compute tallies sentiment buckets and the average rating for records.
// Records with an unrecognized sentiment stay out of every bucket but still
// count towards Total, so Positive+Neutral+Negative <= Total always holds.
// The average covers ratings in [1,10] only and is rounded to one decimal;
// with no ratings present it is exactly 0.0, never NaN.
func Compute(records []models.FeedbackRecord) models.SentimentSummary {
	s := models.SentimentSummary{Total: len(records)}

	ratingSum := 0
	ratingCount := 0
	for _, r := range records {
		switch r.Sentiment {
		case models.SentimentPositive:
			s.Positive++
		case models.SentimentNeutral:
			s.Neutral++
		case models.SentimentNegative:
			s.Negative++
		}

		if r.Rating >= 1 && r.Rating <= 10 {
			ratingSum += r.Rating
			ratingCount++
		}
	}

	if ratingCount > 0 {
		s.AverageRating = math.Round(float64(ratingSum)/float64(ratingCount)*10) / 10
	}
	return s
}

// Newest returns a copy of records in reverse order. The backend lists
// oldest first; tables show newest first.
func Newest(records []models.FeedbackRecord) []models.FeedbackRecord {
	out := make([]models.FeedbackRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}
