package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"feedbacker-web/internal/apiclient"
	"feedbacker-web/internal/common"
	"feedbacker-web/internal/export"
	"feedbacker-web/internal/models"
	"feedbacker-web/internal/summary"
)

// DashboardHandler serves the admin screens: the aggregated dashboard, the
// CSV export and event-name management. All routes sit behind the session
// middleware.
type DashboardHandler struct {
	common.ServerState
}

func NewDashboardHandler(state common.ServerState) *DashboardHandler {
	return &DashboardHandler{ServerState: state}
}

type dashboardView struct {
	IsAdmin     bool
	Filter      models.Filter
	FilterLabel string
	Summary     models.SentimentSummary
	Recent      []models.FeedbackRecord
	Events      []string
	EventTypes  []models.EventType
	LoadFailed  bool
	Notice      string
	Error       string
}

// Dashboard refetches the summary on every request, with the active filter
// passed to the backend as query parameters. Nothing is cached between
// views, so a submission made moments earlier is already in the counts.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	filter := filterFromQuery(c)
	view := dashboardView{
		IsAdmin:     true,
		Filter:      filter,
		FilterLabel: filter.Label(),
		EventTypes:  models.EventTypes(),
		Notice:      c.QueryParam("notice"),
		Error:       c.QueryParam("error"),
	}

	ctx := c.Request().Context()

	s, err := h.API.GetSummary(ctx, filter)
	if err != nil {
		// Visible failed-to-load state instead of silently showing zeros.
		c.Logger().Errorf("Failed to load feedback summary: %v", err)
		view.LoadFailed = true
		return c.Render(http.StatusOK, "dashboard.html", view)
	}

	view.Summary = summary.Compute(s.Recent)
	view.Recent = summary.Newest(s.Recent)

	events, err := h.API.ListEvents(ctx)
	if err != nil {
		c.Logger().Warnf("Failed to load event list: %v", err)
	} else {
		view.Events = events
	}

	return c.Render(http.StatusOK, "dashboard.html", view)
}

// ExportCSV downloads the currently filtered set. An empty set fails fast
// with a visible message instead of producing an empty file.
func (h *DashboardHandler) ExportCSV(c echo.Context) error {
	filter := filterFromQuery(c)
	ctx := c.Request().Context()

	var records []models.FeedbackRecord
	if filter.IsZero() {
		all, err := h.API.ListFeedback(ctx)
		if err != nil {
			c.Logger().Errorf("Export fetch failed: %v", err)
			return redirectWithNotice(c, "/admin", "", "Export failed: could not load feedback.")
		}
		records = all
	} else {
		s, err := h.API.GetSummary(ctx, filter)
		if err != nil {
			c.Logger().Errorf("Export fetch failed: %v", err)
			return redirectWithNotice(c, dashboardPath(filter), "", "Export failed: could not load feedback.")
		}
		records = s.Recent
	}

	var buf bytes.Buffer
	if err := export.CSV(&buf, records); err != nil {
		if errors.Is(err, export.ErrNoRecords) {
			return redirectWithNotice(c, dashboardPath(filter), "", "Nothing to export for this filter.")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build CSV")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+export.Filename(filter)+`"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

type AddEventRequest struct {
	Name string `form:"name" json:"name"`
}

// AddEvent registers a new selectable event name. Blank or whitespace-only
// names are rejected before any backend call.
func (h *DashboardHandler) AddEvent(c echo.Context) error {
	req := AddEventRequest{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return redirectWithNotice(c, "/admin", "", "Event name cannot be empty.")
	}

	if err := h.API.AddEvent(c.Request().Context(), name); err != nil {
		c.Logger().Errorf("Failed to add event %q: %v", name, err)
		return redirectWithNotice(c, "/admin", "", eventErrorMessage(err, "Failed to add event."))
	}

	return redirectWithNotice(c, "/admin", "Event \""+name+"\" added.", "")
}

type DeleteEventRequest struct {
	Name    string `form:"name" json:"name"`
	Confirm string `form:"confirm" json:"confirm"`
}

// DeleteEvent removes an event name after explicit confirmation. The success
// notice carries the backend's own message; a failure surfaces the backend's
// detail text verbatim, falling back to a generic message.
func (h *DashboardHandler) DeleteEvent(c echo.Context) error {
	req := DeleteEventRequest{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return redirectWithNotice(c, "/admin", "", "Event name cannot be empty.")
	}
	if req.Confirm != "yes" {
		return redirectWithNotice(c, "/admin", "", "Deletion needs confirmation.")
	}

	message, err := h.API.DeleteEvent(c.Request().Context(), name)
	if err != nil {
		c.Logger().Errorf("Failed to delete event %q: %v", name, err)
		return redirectWithNotice(c, "/admin", "", eventErrorMessage(err, "Failed to delete event."))
	}

	if message == "" {
		message = "Event \"" + name + "\" deleted."
	}
	return redirectWithNotice(c, "/admin", message, "")
}

func filterFromQuery(c echo.Context) models.Filter {
	filter := models.Filter{
		Event: strings.TrimSpace(c.QueryParam("event")),
	}
	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		// Orphaned type strings from deleted enum values still filter by
		// exact match, they just come back empty.
		if t, err := models.ParseEventType(raw); err == nil {
			filter.EventType = string(t)
		} else {
			filter.EventType = raw
		}
	}
	return filter
}

func dashboardPath(filter models.Filter) string {
	q := url.Values{}
	if filter.Event != "" {
		q.Set("event", filter.Event)
	}
	if filter.EventType != "" {
		q.Set("type", filter.EventType)
	}
	if enc := q.Encode(); enc != "" {
		return "/admin?" + enc
	}
	return "/admin"
}

// eventErrorMessage prefers the backend's own wording for write failures.
func eventErrorMessage(err error, fallback string) string {
	var validationErr *apiclient.ValidationError
	if errors.As(err, &validationErr) && validationErr.Message != "" {
		return validationErr.Message
	}
	var notFoundErr *apiclient.NotFoundError
	if errors.As(err, &notFoundErr) && notFoundErr.Message != "" {
		return notFoundErr.Message
	}
	if errors.Is(err, apiclient.ErrNetwork) {
		return "Could not reach the feedback service."
	}
	return fallback
}
