package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"feedbacker-web/internal/models"
)

// DefaultTimeout is applied when the config does not set one.
const DefaultTimeout = 10 * time.Second

// Client is the single point of contact with the sentiment-analysis backend.
// It holds no business logic: it issues one request per call, normalizes the
// response into the canonical models, and classifies failures. No retries.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SentimentCounts is the backend's pre-aggregated bucket tally.
type SentimentCounts struct {
	Positive int
	Neutral  int
	Negative int
}

// Summary is the response of the feedback-summary endpoint: the backend's
// counts plus the records of the filtered set.
type Summary struct {
	Sentiments SentimentCounts
	Recent     []models.FeedbackRecord
}

// SubmitFeedback posts a new record and returns the sentiment the backend
// assigned to it.
func (c *Client) SubmitFeedback(ctx context.Context, sub models.Submission) (models.Sentiment, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/submit-feedback", sub)
	if err != nil {
		return models.SentimentUnknown, err
	}
	return models.ParseSentiment(gjson.GetBytes(body, "sentiment").String()), nil
}

// ListFeedback fetches every record. The backend returns insertion order,
// oldest first; views reverse at display time.
func (c *Client) ListFeedback(ctx context.Context) ([]models.FeedbackRecord, error) {
	body, err := c.do(ctx, http.MethodGet, "/feedbacks", nil)
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(body)
	// Some backend revisions wrap the array in an object.
	if !parsed.IsArray() {
		parsed = parsed.Get("feedbacks")
	}

	records := []models.FeedbackRecord{}
	parsed.ForEach(func(_, item gjson.Result) bool {
		records = append(records, decodeRecord(item))
		return true
	})
	return records, nil
}

// GetSummary fetches the aggregate for the given filter. The zero filter
// returns the unfiltered aggregate. Filtering is server-side so the totals
// reflect the filtered set, not the global one.
func (c *Client) GetSummary(ctx context.Context, filter models.Filter) (Summary, error) {
	path := "/api/feedback-summary"
	q := url.Values{}
	if filter.Event != "" {
		q.Set("event_name", filter.Event)
	}
	if filter.EventType != "" {
		q.Set("event_type", filter.EventType)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Sentiments: SentimentCounts{
			Positive: int(gjson.GetBytes(body, "sentiments.positive").Int()),
			Neutral:  int(gjson.GetBytes(body, "sentiments.neutral").Int()),
			Negative: int(gjson.GetBytes(body, "sentiments.negative").Int()),
		},
		Recent: []models.FeedbackRecord{},
	}
	gjson.GetBytes(body, "recent_feedback").ForEach(func(_, item gjson.Result) bool {
		summary.Recent = append(summary.Recent, decodeRecord(item))
		return true
	})
	return summary, nil
}

// ListEvents returns the selectable event names.
func (c *Client) ListEvents(ctx context.Context) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/events", nil)
	if err != nil {
		return nil, err
	}

	parsed := gjson.GetBytes(body, "events")
	if !parsed.Exists() {
		parsed = gjson.ParseBytes(body)
	}

	events := []string{}
	parsed.ForEach(func(_, item gjson.Result) bool {
		events = append(events, item.String())
		return true
	})
	return events, nil
}

// AddEvent registers a new event name.
func (c *Client) AddEvent(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/events", map[string]string{"name": name})
	return err
}

// DeleteEvent removes an event name and returns the backend's success
// message. A failure surfaces the backend's detail text verbatim.
func (c *Client) DeleteEvent(ctx context.Context, name string) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(name), nil)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "message").String(), nil
}

// Status probes the backend root endpoint. Used by the home view to show
// reachability; any error means "backend down", nothing more specific.
func (c *Client) Status(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Message: errorMessage(body)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &ValidationError{Status: resp.StatusCode, Message: errorMessage(body)}
	case resp.StatusCode >= 500:
		return nil, &BackendError{Status: resp.StatusCode, Message: errorMessage(body)}
	}

	return body, nil
}

// errorMessage pulls the backend's own error text out of a failure body.
// FastAPI-style backends use "detail"; some revisions use "message".
func errorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "detail").String(); msg != "" {
		return msg
	}
	return gjson.GetBytes(body, "message").String()
}

// decodeRecord normalizes the backend's drifting field names into the
// canonical record: the comment body arrives as "comment" or "feedback",
// timestamps as "createdAt", "submissionDate" or "created_at", and ratings
// occasionally as numeric strings.
func decodeRecord(item gjson.Result) models.FeedbackRecord {
	comment := item.Get("comment").String()
	if comment == "" {
		comment = item.Get("feedback").String()
	}

	return models.FeedbackRecord{
		Name:      item.Get("name").String(),
		Event:     item.Get("event").String(),
		EventType: item.Get("eventType").String(),
		Comment:   comment,
		Rating:    int(item.Get("rating").Int()),
		Sentiment: models.ParseSentiment(item.Get("sentiment").String()),
		CreatedAt: decodeTime(item),
	}
}

func decodeTime(item gjson.Result) time.Time {
	for _, field := range []string{"createdAt", "submissionDate", "created_at"} {
		raw := item.Get(field).String()
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
