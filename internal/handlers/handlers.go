package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedbacker-web/internal/apiclient"
	"feedbacker-web/internal/common"
	"feedbacker-web/internal/models"
)

var submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedback_submissions_total",
	Help: "Feedback submissions accepted by the backend, labeled by sentiment",
}, []string{"sentiment"})

// FeedbackHandler serves the public screens: home and the submission flow.
type FeedbackHandler struct {
	common.ServerState
}

func NewFeedbackHandler(state common.ServerState) *FeedbackHandler {
	return &FeedbackHandler{ServerState: state}
}

type SubmitRequest struct {
	Name      string `form:"name" json:"name"`
	Event     string `form:"event" json:"event" validate:"required"`
	EventType string `form:"eventType" json:"eventType" validate:"required"`
	Comment   string `form:"comment" json:"comment" validate:"required"`
	Rating    int    `form:"rating" json:"rating" validate:"required,min=1,max=10"`
}

// submitView is the template payload for submit.html. Form carries the
// entered values back into the fields so a failed submit never clears them.
type submitView struct {
	IsAdmin     bool
	Form        SubmitRequest
	Error       string
	Events      []string
	EventsStale bool
	EventTypes  []models.EventType
	RequireName bool
}

type homeView struct {
	IsAdmin   bool
	BackendUp bool
}

func (h *FeedbackHandler) Home(c echo.Context) error {
	up := true
	if err := h.API.Status(c.Request().Context()); err != nil {
		c.Logger().Warnf("Backend status probe failed: %v", err)
		up = false
	}
	return c.Render(http.StatusOK, "home.html", homeView{
		IsAdmin:   isAdmin(&h.ServerState, c),
		BackendUp: up,
	})
}

func (h *FeedbackHandler) ShowSubmitForm(c echo.Context) error {
	return c.Render(http.StatusOK, "submit.html", h.submitView(c, SubmitRequest{}, ""))
}

// SubmitFeedback handles the form post. Exactly one backend call happens per
// user submit; on any failure the form re-renders with every entered value
// preserved.
func (h *FeedbackHandler) SubmitFeedback(c echo.Context) error {
	req := SubmitRequest{}
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "submit.html",
			h.submitView(c, req, "Could not read the form, please try again."))
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Event = strings.TrimSpace(req.Event)
	req.Comment = strings.TrimSpace(req.Comment)

	if msg := h.validateSubmit(c, req); msg != "" {
		return c.Render(http.StatusBadRequest, "submit.html", h.submitView(c, req, msg))
	}

	eventType, _ := models.ParseEventType(req.EventType)
	sentiment, err := h.API.SubmitFeedback(c.Request().Context(), models.Submission{
		Name:      req.Name,
		Event:     req.Event,
		EventType: string(eventType),
		Comment:   req.Comment,
		Rating:    req.Rating,
	})
	if err != nil {
		c.Logger().Errorf("Feedback submission failed: %v", err)
		return c.Render(http.StatusBadGateway, "submit.html",
			h.submitView(c, req, submitErrorMessage(err)))
	}

	submissionsTotal.WithLabelValues(string(sentiment)).Inc()

	return c.Render(http.StatusOK, "submitted.html", struct {
		IsAdmin   bool
		Sentiment string
	}{
		IsAdmin:   isAdmin(&h.ServerState, c),
		Sentiment: sentiment.Display(),
	})
}

func (h *FeedbackHandler) validateSubmit(c echo.Context, req SubmitRequest) string {
	if err := c.Validate(&req); err != nil {
		return "Please fill in the event, event type, a rating from 1 to 10 and your feedback."
	}
	if h.Config.Form.RequireName && req.Name == "" {
		return "Please enter your name."
	}
	if _, err := models.ParseEventType(req.EventType); err != nil {
		return "Please pick one of the listed event types."
	}
	return ""
}

// submitView assembles the form payload, fetching the selectable event names.
// A failed event fetch degrades to a free-text event field with a notice
// rather than an error page.
func (h *FeedbackHandler) submitView(c echo.Context, form SubmitRequest, errMsg string) submitView {
	view := submitView{
		IsAdmin:     isAdmin(&h.ServerState, c),
		Form:        form,
		Error:       errMsg,
		EventTypes:  models.EventTypes(),
		RequireName: h.Config.Form.RequireName,
	}

	events, err := h.API.ListEvents(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("Failed to load event list: %v", err)
		view.EventsStale = true
		return view
	}
	view.Events = events
	return view
}

func submitErrorMessage(err error) string {
	var validationErr *apiclient.ValidationError
	if errors.As(err, &validationErr) {
		return "The backend rejected the submission: " + validationErr.Error()
	}
	if errors.Is(err, apiclient.ErrNetwork) {
		return "Could not reach the feedback service. Your input is kept below, please retry."
	}
	return "Something went wrong while submitting. Your input is kept below, please retry."
}
