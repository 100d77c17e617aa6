package common

import (
	"context"

	"github.com/labstack/echo/v4"

	"feedbacker-web/internal/apiclient"
	"feedbacker-web/internal/config"
	"feedbacker-web/internal/models"
	"feedbacker-web/internal/session"
)

// FeedbackAPI is everything the views need from the backend. The concrete
// implementation is apiclient.Client; handler tests stub it.
type FeedbackAPI interface {
	SubmitFeedback(ctx context.Context, sub models.Submission) (models.Sentiment, error)
	ListFeedback(ctx context.Context) ([]models.FeedbackRecord, error)
	GetSummary(ctx context.Context, filter models.Filter) (apiclient.Summary, error)
	ListEvents(ctx context.Context) ([]string, error)
	AddEvent(ctx context.Context, name string) error
	DeleteEvent(ctx context.Context, name string) (string, error)
	Status(ctx context.Context) error
}

type ServerState struct {
	Echo     *echo.Echo
	Config   *config.Config
	API      FeedbackAPI
	Sessions *session.Manager
	Cookies  *session.CookieStore
}
