package server

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/go-playground/validator"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"

	"feedbacker-web/internal/apiclient"
	"feedbacker-web/internal/common"
	"feedbacker-web/internal/config"
	"feedbacker-web/internal/handlers"
	"feedbacker-web/internal/session"
)

// CustomValidator Source: https://echo.labstack.com/docs/request#validate-data
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		// Optionally, you could return the error to give each route more control over the status code
		return err
	}
	return nil
}

type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type SentryLogger struct {
	echo.Logger
}

func (l *SentryLogger) Error(i ...interface{}) {
	// Capture in Sentry
	if err, ok := i[0].(error); ok {
		handlers.CaptureError(err)
	} else {
		handlers.CaptureError(fmt.Errorf("%v", i...))
	}
	// Call original logger
	l.Logger.Error(i...)
}

type Server struct {
	common.ServerState
}

func New(cfg *config.Config) *Server {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Logger = &SentryLogger{Logger: e.Logger}
	e.Logger.SetLevel(log.DEBUG)

	return &Server{
		common.ServerState{
			Echo:   e,
			Config: cfg,
		},
	}
}

func (s *Server) Initialize() error {
	if s.Config.Backend.BaseURL == "" {
		s.Echo.Logger.Fatal("API_BASE_URL environment variable is required")
	}

	// The single point of contact with the sentiment backend
	s.API = apiclient.New(s.Config.Backend.BaseURL, s.Config.Backend.Timeout)

	s.setupSessions()

	// Setup templates
	s.setupTemplates()

	// Setup routes
	s.setupRoutes()

	s.setupMetrics()

	// Setup middleware -
	// Keep last to avoid Recover middleware and panic if something goes wrong on init
	s.setupMiddleware()

	return nil
}

func (s *Server) setupSessions() {
	secret := s.Config.Auth.SessionSecret
	if secret == "" {
		s.Echo.Logger.Fatal("SESSION_SECRET environment variable is required")
	}

	s.Sessions = session.NewManager(secret,
		s.Config.Auth.AdminUsername,
		s.Config.Auth.AdminPassword,
		s.Config.Auth.SessionTTL)
	s.Cookies = &session.CookieStore{Secure: s.Config.Server.TLS.Enabled}
}

func (s *Server) setupTemplates() {
	funcs := template.FuncMap{
		// widthPct scales a sentiment bucket to a bar width percentage.
		"widthPct": func(count, total int) int {
			if total == 0 {
				return 0
			}
			return count * 100 / total
		},
	}

	// Try to load templates, but don't fail if they don't exist (e.g., in tests)
	tmpl, err := template.New("views").Funcs(funcs).ParseGlob("./web/*.html")
	if err != nil {
		s.Echo.Logger.Warnf("Failed to load templates: %v, template rendering will be disabled", err)
		return
	}
	t := &Template{
		templates: tmpl,
	}
	s.Echo.Renderer = t
}

func (s *Server) setupMiddleware() {
	s.Echo.Use(middleware.CORS())
	s.Echo.Use(middleware.Recover())
	// Try to add prometheus middleware, but don't panic if already registered (e.g., in tests)
	// This allows multiple test runs without panicking
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && err.Error() == "duplicate metrics collector registration attempted" {
				s.Echo.Logger.Warn("Prometheus middleware already registered, skipping")
			} else {
				panic(r)
			}
		}
	}()
	s.Echo.Use(echoprometheus.NewMiddleware("feedbacker_web"))
}

func (s *Server) setupMetrics() {
	// Register, not MustRegister: a second server in the same process
	// (tests) must not panic on the duplicate collector.
	err := prometheus.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Subsystem: "session",
			Name:      "cached_tokens",
			Help:      "The number of validated admin tokens currently memoized",
		},
		func() float64 {
			return float64(s.Sessions.CachedSessions())
		},
	))
	if err != nil {
		s.Echo.Logger.Warnf("Session metrics already registered: %v", err)
	}
}

func (s *Server) setupRoutes() {
	handlers.SetupSentry(s.Echo, s.Config)

	// Serve static files
	s.Echo.Static("/static", "web/static")

	// Initialize handlers
	feedback := handlers.NewFeedbackHandler(s.ServerState)
	auth := handlers.NewAuthHandler(s.ServerState)
	dashboard := handlers.NewDashboardHandler(s.ServerState)

	s.Echo.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	s.Echo.GET("/metrics", echoprometheus.NewHandler())

	// Public screens
	s.Echo.GET("/", feedback.Home)
	s.Echo.GET("/submit", feedback.ShowSubmitForm)
	s.Echo.POST("/submit", feedback.SubmitFeedback)

	s.Echo.GET("/login", auth.ShowLogin)
	s.Echo.POST("/login", auth.Login)
	s.Echo.POST("/logout", auth.Logout)

	// Admin screens behind the session gate
	admin := s.Echo.Group("/admin", s.Sessions.Middleware(), session.RequireAdmin)
	admin.GET("", dashboard.Dashboard)
	admin.GET("/export", dashboard.ExportCSV)
	admin.POST("/events", dashboard.AddEvent)
	admin.POST("/events/delete", dashboard.DeleteEvent)
}

func (s *Server) Start() error {
	serverURL := s.Config.Server.Host + ":" + s.Config.Server.Port

	if s.Config.Server.TLS.Enabled {
		if _, err := os.Stat(s.Config.Server.TLS.CertFile); os.IsNotExist(err) {
			s.Echo.Logger.Warn("TLS certificate file not found, falling back to HTTP")
			return s.Echo.Start(serverURL)
		}
		if _, err := os.Stat(s.Config.Server.TLS.KeyFile); os.IsNotExist(err) {
			s.Echo.Logger.Warn("TLS key file not found, falling back to HTTP")
			return s.Echo.Start(serverURL)
		}
		return s.Echo.StartTLS(serverURL, s.Config.Server.TLS.CertFile, s.Config.Server.TLS.KeyFile)
	}

	return s.Echo.Start(serverURL)
}
