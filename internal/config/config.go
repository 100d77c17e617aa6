package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server struct {
		Port string
		Host string
		TLS  struct {
			Enabled  bool
			CertFile string
			KeyFile  string
		}
		DeployDomain string
		Debug        bool
	}
	Backend struct {
		// Origin of the external sentiment-analysis service,
		// e.g. "https://sentiment-s0y3.onrender.com".
		BaseURL string
		Timeout time.Duration
	}
	Auth struct {
		AdminUsername string
		AdminPassword string
		SessionSecret string
		SessionTTL    time.Duration
	}
	Form struct {
		// Whether the submitter name is mandatory. The upstream form
		// variants disagree on this, so it is a deployment choice.
		RequireName bool
	}
	Sentry struct {
		DSN string
	}
}

func Load() (*Config, error) {

	envStack := os.Getenv("ENV_STACK")

	if envStack != "" {
		filePath := "./env-files/.env." + envStack
		err := godotenv.Load(filePath)
		if err != nil {
			fmt.Printf("Error loading .env file: %s\n", err)
		}
	}

	c := &Config{}

	// Server configuration with environment variable support
	c.Server.Port = os.Getenv("SERVER_PORT")
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}

	c.Server.Host = os.Getenv("SERVER_HOST")
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}

	c.Server.DeployDomain = os.Getenv("DEPLOY_DOMAIN")
	if c.Server.DeployDomain == "" {
		c.Server.DeployDomain = c.Server.Host + ":" + c.Server.Port
	}

	c.Server.Debug = os.Getenv("ENABLE_DEBUG_ENDPOINTS") == "true"

	// TLS Configuration
	useTLS := os.Getenv("USE_TLS")
	c.Server.TLS.Enabled = useTLS != "false" && useTLS != "0"
	c.Server.TLS.CertFile = "./certs/localhost.pem"
	c.Server.TLS.KeyFile = "./certs/localhost-key.pem"

	// The backend origin was named REACT_APP_API_BASE, REACT_APP_API_URL or
	// VITE_API_URL in earlier deployments; API_BASE_URL is the one name now.
	c.Backend.BaseURL = os.Getenv("API_BASE_URL")

	c.Backend.Timeout = 10 * time.Second
	if raw := os.Getenv("API_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return c, fmt.Errorf("API_TIMEOUT_SECONDS must be a positive integer, got: %s", raw)
		}
		c.Backend.Timeout = time.Duration(secs) * time.Second
	}

	c.Auth.AdminUsername = os.Getenv("ADMIN_USERNAME")
	if c.Auth.AdminUsername == "" {
		c.Auth.AdminUsername = "admin"
	}

	c.Auth.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if c.Auth.AdminPassword == "" {
		c.Auth.AdminPassword = "admin123"
	}

	c.Auth.SessionSecret = os.Getenv("SESSION_SECRET")

	c.Auth.SessionTTL = 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return c, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer, got: %s", raw)
		}
		c.Auth.SessionTTL = time.Duration(hours) * time.Hour
	}

	c.Form.RequireName = os.Getenv("REQUIRE_SUBMITTER_NAME") != "false"

	c.Sentry.DSN = os.Getenv("SENTRY_DSN")

	return c, nil
}
