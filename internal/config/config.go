// Package config resolves all tabshell options once at startup from
// environment variables and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultUserAgent is the fixed desktop browser identifier applied to every
// content surface unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// Config holds all tabshell configuration. Immutable after Load.
type Config struct {
	// CDP connection to the browser host
	CDPAddress string
	CDPPort    int

	// Control API bind address with optional fallback candidates
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Shell appearance and behavior
	Theme          string
	ShowTabs       bool
	ShowNavigation bool
	ShowStatusBar  bool
	StartURL       string
	SearchURL      string
	UserAgent      string

	// Header stripping toggle
	StripHeaders bool

	// Browser launch
	LaunchBrowser bool
	ProfileDir    string
	WindowSize    string

	// Storage and observability
	ScreenshotDir  string
	NotifyEndpoint string
	LogLevel       string
	LogFile        string
}

// Load reads configuration from environment variables and an optional .env
// file. Missing or invalid values fall back to documented defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		CDPAddress:       getEnvOrDefault("TABSHELL_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:          getEnvIntOrDefault("TABSHELL_CDP_PORT", 9222),
		BindAddr:         getEnvOrDefault("TABSHELL_BIND_ADDR", "127.0.0.1:8199"),
		PortCandidates:   getEnvListOrDefault("TABSHELL_BIND_CANDIDATES", []string{"127.0.0.1:8199", "127.0.0.1:8299", "127.0.0.1:8399"}),
		PortAutoFallback: getEnvBoolOrDefault("TABSHELL_BIND_AUTO_FALLBACK", true),
		Theme:            strings.ToLower(getEnvOrDefault("TABSHELL_THEME", "dark")),
		ShowTabs:         getEnvBoolOrDefault("TABSHELL_SHOW_TABS", true),
		ShowNavigation:   getEnvBoolOrDefault("TABSHELL_SHOW_NAVIGATION", true),
		ShowStatusBar:    getEnvBoolOrDefault("TABSHELL_SHOW_STATUS_BAR", true),
		StartURL:         getEnvOrDefault("TABSHELL_START_URL", ""),
		SearchURL:        getEnvOrDefault("TABSHELL_SEARCH_URL", ""),
		UserAgent:        getEnvOrDefault("TABSHELL_USER_AGENT", DefaultUserAgent),
		StripHeaders:     getEnvBoolOrDefault("TABSHELL_STRIP_HEADERS", true),
		LaunchBrowser:    getEnvBoolOrDefault("TABSHELL_LAUNCH_BROWSER", true),
		ProfileDir:       getEnvOrDefault("TABSHELL_PROFILE_DIR", "./profile"),
		WindowSize:       getEnvOrDefault("TABSHELL_WINDOW_SIZE", "1400,900"),
		ScreenshotDir:    getEnvOrDefault("TABSHELL_SCREENSHOT_DIR", "./screenshots"),
		NotifyEndpoint:   getEnvOrDefault("TABSHELL_NOTIFY_ENDPOINT", ""),
		LogLevel:         strings.ToLower(getEnvOrDefault("TABSHELL_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("TABSHELL_LOG_FILE", "logs/tabshell.log"),
	}

	if cfg.Theme != "dark" && cfg.Theme != "light" {
		slog.Debug("unknown theme, using dark", "theme", cfg.Theme)
		cfg.Theme = "dark"
	}

	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint used by the chromedp remote allocator.
func (c *Config) CDPURL() string {
	return fmt.Sprintf("http://%s:%d", c.CDPAddress, c.CDPPort)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
