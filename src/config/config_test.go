package config

import (
	"os"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	// Set test environment variables
	os.Setenv("ENABLE_FILE_LOGGING", "true")
	os.Setenv("OCR_LANGUAGES", "fr-FR, de-DE")
	os.Setenv("OCR_DEADLINE_SEC", "25")
	os.Setenv("CAPTURE_SETTLE_MS", "150")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("ENABLE_FILE_LOGGING")
		os.Unsetenv("OCR_LANGUAGES")
		os.Unsetenv("OCR_DEADLINE_SEC")
		os.Unsetenv("CAPTURE_SETTLE_MS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if want := []string{"fr-FR", "de-DE"}; !reflect.DeepEqual(cfg.OCRLanguages, want) {
		t.Errorf("Expected OCRLanguages to be %v, got %v", want, cfg.OCRLanguages)
	}
	if cfg.OCRDeadlineSec != 25 {
		t.Errorf("Expected OCRDeadlineSec to be 25, got %d", cfg.OCRDeadlineSec)
	}
	if cfg.CaptureSettleMS != 150 {
		t.Errorf("Expected CaptureSettleMS to be 150, got %d", cfg.CaptureSettleMS)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ENABLE_FILE_LOGGING", "OCR_LANGUAGES", "OCR_DEADLINE_SEC",
		"CAPTURE_SETTLE_MS", "TAP_WINDOW_MS", "WHATSAPP_FOCUS_DELAY_SEC",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to default to false")
	}
	if want := []string{"es-ES", "en-US"}; !reflect.DeepEqual(cfg.OCRLanguages, want) {
		t.Errorf("Expected default OCRLanguages %v, got %v", want, cfg.OCRLanguages)
	}
	if cfg.OCRDeadlineSec != 60 {
		t.Errorf("Expected default OCRDeadlineSec 60, got %d", cfg.OCRDeadlineSec)
	}
	if cfg.CaptureSettleMS != 300 {
		t.Errorf("Expected default CaptureSettleMS 300, got %d", cfg.CaptureSettleMS)
	}
	if cfg.TapWindowMS != 500 {
		t.Errorf("Expected default TapWindowMS 500, got %d", cfg.TapWindowMS)
	}
	if cfg.WhatsAppFocusDelaySec != 4 {
		t.Errorf("Expected default WhatsAppFocusDelaySec 4, got %d", cfg.WhatsAppFocusDelaySec)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	os.Setenv("OCR_DEADLINE_SEC", "not-a-number")
	os.Setenv("TAP_WINDOW_MS", "-10")
	defer func() {
		os.Unsetenv("OCR_DEADLINE_SEC")
		os.Unsetenv("TAP_WINDOW_MS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.OCRDeadlineSec != 60 {
		t.Errorf("Expected invalid OCR_DEADLINE_SEC to fall back to 60, got %d", cfg.OCRDeadlineSec)
	}
	if cfg.TapWindowMS != 500 {
		t.Errorf("Expected non-positive TAP_WINDOW_MS to fall back to 500, got %d", cfg.TapWindowMS)
	}
}
