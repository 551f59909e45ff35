package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ConfigPathEnvVar = "SCREENAI_CONFIG"

	DefaultCaptureHotkey  = "Alt+Shift+S"
	DefaultRegionHotkey   = "Alt+Shift+A"
	DefaultUpdateInterval = 6 * time.Hour
)

type Config struct {
	CaptureHotkey     string
	RegionHotkey      string
	EnableFileLogging bool
	CopyToClipboard   bool

	// CaptureTool forces a specific native screenshot utility by name;
	// empty means automatic platform selection.
	CaptureTool string

	// Update check settings. An empty owner or repo disables the
	// periodic check entirely.
	UpdateOwner    string
	UpdateRepo     string
	UpdateInterval time.Duration
}

// Load reads configuration from sources in priority order:
// 1) .env in the executable directory
// 2) a file named by SCREENAI_CONFIG
// 3) the process environment
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		CaptureHotkey:     getEnvWithDefault("CAPTURE_HOTKEY", DefaultCaptureHotkey),
		RegionHotkey:      getEnvWithDefault("REGION_HOTKEY", DefaultRegionHotkey),
		EnableFileLogging: boolEnv("ENABLE_FILE_LOGGING"),
		CopyToClipboard:   boolEnv("COPY_TO_CLIPBOARD"),
		CaptureTool:       strings.TrimSpace(os.Getenv("CAPTURE_TOOL")),
		UpdateOwner:       strings.TrimSpace(os.Getenv("UPDATE_OWNER")),
		UpdateRepo:        strings.TrimSpace(os.Getenv("UPDATE_REPO")),
		UpdateInterval:    resolveUpdateInterval(),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveUpdateInterval() time.Duration {
	v := os.Getenv("UPDATE_INTERVAL_HOURS")
	if v == "" {
		return DefaultUpdateInterval
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DefaultUpdateInterval
	}
	return time.Duration(n) * time.Hour
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func boolEnv(key string) bool {
	return strings.ToLower(os.Getenv(key)) == "true"
}
