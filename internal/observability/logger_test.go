package observability

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies that parseLogLevel correctly parses log level
// strings from environment variables, handling case-insensitivity and whitespace.
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env    string
		expect zapcore.Level
	}{
		{"", zap.InfoLevel},
		{"INFO", zap.InfoLevel},
		{"DEBUG", zap.DebugLevel},
		{"WARN", zap.WarnLevel},
		{"warning", zap.WarnLevel},
		{"ERROR", zap.ErrorLevel},
		{"debug", zap.DebugLevel},
		{"  warn  ", zap.WarnLevel},
		{"invalid", zap.InfoLevel},
	}
	for _, tt := range tests {
		level := parseLogLevel(tt.env)
		if got := level.Level(); got != tt.expect {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.env, got, tt.expect)
		}
	}
}

func TestLoggerConfig(t *testing.T) {
	tests := []struct {
		format       string
		wantEncoding string
	}{
		{"", "json"},
		{"json", "json"},
		{"Console", "console"},
	}
	for _, tt := range tests {
		cfg := loggerConfig(tt.format, "debug")
		if cfg.Encoding != tt.wantEncoding {
			t.Errorf("loggerConfig(%q).Encoding = %q, want %q", tt.format, cfg.Encoding, tt.wantEncoding)
		}
		if cfg.EncoderConfig.TimeKey != "timestamp" {
			t.Errorf("TimeKey = %q, want timestamp", cfg.EncoderConfig.TimeKey)
		}
		if cfg.InitialFields["service"] != ServiceName {
			t.Errorf("InitialFields = %v, want service=%s", cfg.InitialFields, ServiceName)
		}
		if cfg.Level.Level() != zap.DebugLevel {
			t.Errorf("Level = %v, want debug", cfg.Level.Level())
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"", "console"} {
		t.Run("format="+format, func(t *testing.T) {
			t.Setenv("LOG_FORMAT", format)
			logger, err := NewLogger()
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("NewLogger() returned nil logger")
			}
			logger.Info("test message")
			_ = logger.Sync() // best-effort; can fail on /dev/stderr in test env
		})
	}
}
