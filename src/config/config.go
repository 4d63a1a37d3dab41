package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvFileVar names an env var pointing at an alternate .env file, used
	// when no .env sits next to the executable.
	EnvFileVar = "TASKGOBLIN_ENV"

	DefaultOCRLanguages = "es-ES,en-US"
)

// Config holds the process tunables. Defaults reproduce the shipped behavior;
// every field can be overridden from the environment or a .env file.
type Config struct {
	EnableFileLogging     bool
	OCRLanguages          []string
	OCRDeadlineSec        int
	CaptureSettleMS       int
	TapWindowMS           int
	WhatsAppFocusDelaySec int
}

func Load() (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use TASKGOBLIN_ENV env var as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		EnableFileLogging:     strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		OCRLanguages:          splitList(getEnvWithDefault("OCR_LANGUAGES", DefaultOCRLanguages)),
		OCRDeadlineSec:        getEnvPositiveInt("OCR_DEADLINE_SEC", 60),
		CaptureSettleMS:       getEnvPositiveInt("CAPTURE_SETTLE_MS", 300),
		TapWindowMS:           getEnvPositiveInt("TAP_WINDOW_MS", 500),
		WhatsAppFocusDelaySec: getEnvPositiveInt("WHATSAPP_FOCUS_DELAY_SEC", 4),
	}

	if len(cfg.OCRLanguages) == 0 {
		cfg.OCRLanguages = splitList(DefaultOCRLanguages)
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

// splitList parses a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
