package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime settings for the client.
type Config struct {
	// APIBaseURL is the prefix for every backend call, e.g. "http://localhost:8080/api".
	APIBaseURL string

	// StateDir holds the session database and the default log file.
	StateDir string

	// DownloadDir is where CSV exports are written. Defaults to the working directory.
	DownloadDir string

	// CallbackAddr is the host:port the loopback OAuth listener binds to.
	// The backend must redirect to http://<CallbackAddr>/callback.
	CallbackAddr string

	HTTPTimeout time.Duration

	LogLevel string
	LogFile  string
}

const (
	defaultAPIBaseURL   = "http://localhost:8080/api"
	defaultCallbackAddr = "127.0.0.1:3000"
	defaultHTTPTimeout  = 30 * time.Second
	defaultLogLevel     = "info"

	envAPIBaseURL   = "ISSUEPILOT_API_URL"
	envStateDir     = "ISSUEPILOT_STATE_DIR"
	envDownloadDir  = "ISSUEPILOT_DOWNLOAD_DIR"
	envCallbackAddr = "ISSUEPILOT_CALLBACK_ADDR"
	envHTTPTimeout  = "ISSUEPILOT_HTTP_TIMEOUT"
	envLogLevel     = "ISSUEPILOT_LOG_LEVEL"
	envLogFile      = "ISSUEPILOT_LOG_FILE"
)

// Load reads .env (if present) and the environment, applies defaults and
// validates the values that would otherwise fail late.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:   firstNonEmpty(os.Getenv(envAPIBaseURL), defaultAPIBaseURL),
		StateDir:     os.Getenv(envStateDir),
		DownloadDir:  os.Getenv(envDownloadDir),
		CallbackAddr: firstNonEmpty(os.Getenv(envCallbackAddr), defaultCallbackAddr),
		HTTPTimeout:  defaultHTTPTimeout,
		LogLevel:     firstNonEmpty(os.Getenv(envLogLevel), defaultLogLevel),
		LogFile:      os.Getenv(envLogFile),
	}

	cfg.APIBaseURL = strings.TrimSuffix(cfg.APIBaseURL, "/")
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s %q", envAPIBaseURL, cfg.APIBaseURL)
	}

	if v := os.Getenv(envHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envHTTPTimeout, err)
		}
		cfg.HTTPTimeout = d
	}

	if cfg.StateDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		cfg.StateDir = filepath.Join(dir, "issuepilot")
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "."
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, "issuepilot.log")
	}

	return cfg, nil
}

// SessionDBPath is the SQLite file backing the session store.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.StateDir, "session.db")
}

// CallbackURL is the loopback page the backend redirects to after OAuth.
func (c *Config) CallbackURL() string {
	return "http://" + c.CallbackAddr + "/callback"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
