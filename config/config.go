package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds all application configuration loaded from environment variables.
// It is built once at startup and handed to each component explicitly.
type Config struct {
	StorageDir     string
	RequestTimeout time.Duration
	RequestDelay   time.Duration
	MaxSearchPages int
	SearchTerm     string
	Sites          []string

	FetchMode string
	ChromeBin string
	UserAgent string
	LogLevel  string

	EmailTo        string
	EmailFrom      string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
	SendGridAPIKey string

	PushgatewayURL string
}

// Load reads the .env file (if any) and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	smtpUser := getEnv("SMTP_USER", "")

	return &Config{
		StorageDir:     getEnv("STORAGE_DIR", "listings"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT", 30)) * time.Second,
		RequestDelay:   time.Duration(getEnvInt("REQUEST_DELAY_MS", 1000)) * time.Millisecond,
		MaxSearchPages: getEnvInt("MAX_SEARCH_PAGES", 20),
		SearchTerm:     getEnv("SEARCH_TERM", "van's rv"),
		Sites:          getEnvList("SITES"),

		FetchMode: strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		ChromeBin: getEnv("CHROME_BIN", ""),
		UserAgent: getEnv("USER_AGENT", DefaultUserAgent),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		EmailTo:        getEnv("EMAIL_TO", ""),
		EmailFrom:      getEnv("EMAIL_FROM", smtpUser),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       smtpUser,
		SMTPPass:       getEnv("SMTP_PASS", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
	}
}

// Validate reports the first setting that cannot be used. knownSites is the
// list of registered scraper names that SITES may select from.
func (c *Config) Validate(knownSites []string) error {
	if c.StorageDir == "" {
		return fmt.Errorf("config: STORAGE_DIR must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: REQUEST_TIMEOUT must be positive, got %v", c.RequestTimeout)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("config: REQUEST_DELAY_MS must not be negative, got %v", c.RequestDelay)
	}
	if c.MaxSearchPages < 1 {
		return fmt.Errorf("config: MAX_SEARCH_PAGES must be at least 1, got %d", c.MaxSearchPages)
	}
	if strings.TrimSpace(c.SearchTerm) == "" {
		return fmt.Errorf("config: SEARCH_TERM must not be empty")
	}
	if c.FetchMode != FetchModeHTTP && c.FetchMode != FetchModeBrowser {
		return fmt.Errorf("config: FETCH_MODE must be %q or %q, got %q", FetchModeHTTP, FetchModeBrowser, c.FetchMode)
	}

	known := make(map[string]struct{}, len(knownSites))
	for _, s := range knownSites {
		known[s] = struct{}{}
	}
	for _, s := range c.Sites {
		if _, ok := known[s]; !ok {
			return fmt.Errorf("config: unknown site %q (known: %s)", s, strings.Join(knownSites, ", "))
		}
	}
	return nil
}

// EmailEnabled reports whether a summary mail should be sent after a run.
func (c *Config) EmailEnabled() bool {
	return c.EmailTo != "" && (c.SendGridAPIKey != "" || c.SMTPUser != "")
}

// SMTPAddr returns host:port for the SMTP notifier.
func (c *Config) SMTPAddr() string {
	return c.SMTPHost + ":" + strconv.Itoa(c.SMTPPort)
}

// ParseList splits a comma separated list, lower-casing and dropping blanks.
func ParseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err == nil {
			return n
		}
		log.Printf("[config] Ignoring %s=%q: not an integer", key, val)
	}
	return fallback
}

func getEnvList(key string) []string {
	return ParseList(os.Getenv(key))
}
