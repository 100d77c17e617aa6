package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbacker-web/internal/models"
)

func TestSubmitFeedbackReturnsSentiment(t *testing.T) {
	var got models.Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/submit-feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"event":"Tech Fair","sentiment":"Positive"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	sentiment, err := c.SubmitFeedback(context.Background(), models.Submission{
		Name: "Amy", Event: "Tech Fair", EventType: "Workshop", Comment: "Great!", Rating: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SentimentPositive, sentiment)
	assert.Equal(t, "Amy", got.Name)
	assert.Equal(t, 9, got.Rating)
}

func TestSubmitFeedbackValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"comment is required"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.SubmitFeedback(context.Background(), models.Submission{})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "comment is required", validationErr.Message)
}

func TestNetworkErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := New(srv.URL, time.Second)
	_, err := c.ListFeedback(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestListFeedbackNormalizesVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/feedbacks", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"name":"Amy","event":"Tech Fair","eventType":"Workshop","comment":"Great!","rating":9,"sentiment":"positive","createdAt":"2025-05-12T10:00:00Z"},
			{"name":"Bo","event":"Lab Night","feedback":"it was fine","rating":"5","sentiment":"NEUTRAL","submissionDate":"2025-05-13"},
			{"name":"Cy","event":"Old Meetup","comment":"?","rating":3}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	records, err := c.ListFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Great!", records[0].Comment)
	assert.Equal(t, models.SentimentPositive, records[0].Sentiment)
	assert.Equal(t, 2025, records[0].CreatedAt.Year())

	// "feedback" field, string rating, folded sentiment, date-only timestamp
	assert.Equal(t, "it was fine", records[1].Comment)
	assert.Equal(t, 5, records[1].Rating)
	assert.Equal(t, models.SentimentNeutral, records[1].Sentiment)
	assert.Equal(t, time.May, records[1].CreatedAt.Month())

	// missing sentiment and date stay safe defaults
	assert.Equal(t, models.SentimentUnknown, records[2].Sentiment)
	assert.True(t, records[2].CreatedAt.IsZero())
}

func TestGetSummarySendsFilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/feedback-summary", r.URL.Path)
		require.Equal(t, "Tech Fair", r.URL.Query().Get("event_name"))
		require.Equal(t, "Workshop", r.URL.Query().Get("event_type"))
		_, _ = w.Write([]byte(`{
			"sentiments":{"positive":3,"neutral":1,"negative":0},
			"recent_feedback":[
				{"name":"a","sentiment":"positive","rating":9},
				{"name":"b","sentiment":"positive","rating":8},
				{"name":"c","sentiment":"positive","rating":7},
				{"name":"d","sentiment":"neutral","rating":5}
			]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	s, err := c.GetSummary(context.Background(), models.Filter{Event: "Tech Fair", EventType: "Workshop"})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Sentiments.Positive)
	assert.Equal(t, 1, s.Sentiments.Neutral)
	assert.Len(t, s.Recent, 4)
}

func TestGetSummaryOmitsEmptyFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"sentiments":{"positive":0,"neutral":0,"negative":0},"recent_feedback":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.GetSummary(context.Background(), models.Filter{})
	require.NoError(t, err)
}

func TestListEventsBothShapes(t *testing.T) {
	bodies := []string{`{"events":["Tech Fair","Lab Night"]}`, `["Tech Fair","Lab Night"]`}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		c := New(srv.URL, time.Second)
		events, err := c.ListEvents(context.Background())
		srv.Close()

		require.NoError(t, err)
		assert.Equal(t, []string{"Tech Fair", "Lab Night"}, events)
	}
}

func TestDeleteEventSuccessMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/events/Old%20Meetup", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	msg, err := c.DeleteEvent(context.Background(), "Old Meetup")
	require.NoError(t, err)
	assert.Equal(t, "deleted", msg)
}

func TestDeleteEventNotFoundDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"event not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.DeleteEvent(context.Background(), "ghost")

	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "event not found", notFoundErr.Message)
}

func TestAddEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/events", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Spring Festival", body["name"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	assert.NoError(t, c.AddEvent(context.Background(), "Spring Festival"))
}

func TestBackendErrorOn5xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"mongo down"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Status(context.Background())

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "mongo down", backendErr.Message)
}
