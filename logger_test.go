// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
)

// captureLog redirects the standard logger for the duration of a test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return &buf
}

// TestDefaultLogger_LogLevels verifies log level filtering
func TestDefaultLogger_LogLevels(t *testing.T) {
	tests := []struct {
		name          string
		level         LogLevel
		logFunc       func(*DefaultLogger)
		expectMessage bool
	}{
		{
			name:  "debug level logs debug",
			level: LogLevelDebug,
			logFunc: func(l *DefaultLogger) {
				l.Debug(context.Background(), "test message")
			},
			expectMessage: true,
		},
		{
			name:  "info level filters debug",
			level: LogLevelInfo,
			logFunc: func(l *DefaultLogger) {
				l.Debug(context.Background(), "test message")
			},
			expectMessage: false,
		},
		{
			name:  "info level logs info",
			level: LogLevelInfo,
			logFunc: func(l *DefaultLogger) {
				l.Info(context.Background(), "test message")
			},
			expectMessage: true,
		},
		{
			name:  "warn level filters info",
			level: LogLevelWarn,
			logFunc: func(l *DefaultLogger) {
				l.Info(context.Background(), "test message")
			},
			expectMessage: false,
		},
		{
			name:  "error level filters warn",
			level: LogLevelError,
			logFunc: func(l *DefaultLogger) {
				l.Warn(context.Background(), "test message")
			},
			expectMessage: false,
		},
		{
			name:  "error level logs error",
			level: LogLevelError,
			logFunc: func(l *DefaultLogger) {
				l.Error(context.Background(), "test message")
			},
			expectMessage: true,
		},
		{
			name:  "none level filters all",
			level: LogLevelNone,
			logFunc: func(l *DefaultLogger) {
				l.Error(context.Background(), "test message")
			},
			expectMessage: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			logger := NewDefaultLogger(tt.level)
			tt.logFunc(logger)

			output := buf.String()
			if tt.expectMessage && output == "" {
				t.Errorf("expected log message but got none")
			}
			if !tt.expectMessage && output != "" {
				t.Errorf("expected no log message but got: %s", output)
			}
		})
	}
}

func TestDefaultLogger_Format(t *testing.T) {
	buf := captureLog(t)

	NewDefaultLogger(LogLevelInfo).Warn(context.Background(), "cannot write device config", "device_id", "SW1")

	want := "[WARN] cannot write device config device_id=SW1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

// TestSanitizeLogValue_ControlCharacters tests control character sanitization
func TestSanitizeLogValue_ControlCharacters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "newline injection",
			input:    "user\n[ERROR] Fake attack",
			expected: "user [ERROR] Fake attack",
		},
		{
			name:     "carriage return",
			input:    "test\roverwrite",
			expected: "test overwrite",
		},
		{
			name:     "tab injection",
			input:    "value\tinjected",
			expected: "value injected",
		},
		{
			name:     "ANSI escape sequence",
			input:    "text\x1B[31mred\x1B[0m",
			expected: "text.[31mred.[0m",
		},
		{
			name:     "bell character",
			input:    "beep\x07beep",
			expected: "beep.beep",
		},
		{
			name:     "backspace manipulation",
			input:    "abc\x08\x08\x08def",
			expected: "abc...def",
		},
		{
			name:     "null byte",
			input:    "test\x00null",
			expected: "test.null",
		},
		{
			name:     "form feed",
			input:    "page1\x0Cpage2",
			expected: "page1 page2",
		},
		{
			name:     "delete",
			input:    "del\x7Fete",
			expected: "del.ete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeLogValue(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeLogValue() = %q, want %q", result, tt.expected)
			}
		})
	}
}

// TestSanitizeLogValue_Unicode tests invisible and direction-changing runes
func TestSanitizeLogValue_Unicode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"zero-width space", "admin\u200Bhidden", "adminhidden"},
		{"zero-width non-joiner", "test\u200Cvalue", "testvalue"},
		{"zero-width joiner", "test\u200Dvalue", "testvalue"},
		{"byte order mark", "test\uFEFFvalue", "testvalue"},
		{"right-to-left override", "admin\u202Ekcatta", "admin kcatta"},
		{"normal unicode", "こんにちは世界", "こんにちは世界"},
		{"accented", "Zürich-Core-01", "Zürich-Core-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeLogValue(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeLogValue() = %q, want %q", result, tt.expected)
			}
		})
	}
}

// TestSanitizeLogValue_InvalidUTF8 tests invalid UTF-8 handling
func TestSanitizeLogValue_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"invalid byte", "test\xffdata", "test.data"},
		{"invalid 2-byte sequence", "test\xc3\x28data", "test.(data"},
		{"truncated 3-byte sequence", "test\xe2\x82data", "test..data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeLogValue(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeLogValue() = %q, want %q", result, tt.expected)
			}
		})
	}
}

// TestSanitizeLogValue_Truncation tests value truncation
func TestSanitizeLogValue_Truncation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTrunc bool
	}{
		{"short value", "short", false},
		{"exact max length", strings.Repeat("a", MaxLogValueLength), false},
		{"exceeds max length", strings.Repeat("a", MaxLogValueLength+100), true},
		{"very large value", strings.Repeat("a", 10000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeLogValue(tt.input)

			if tt.wantTrunc {
				if !strings.HasSuffix(result, "...[TRUNCATED]") {
					t.Errorf("expected truncation marker but got: %.40s", result)
				}
				if len(result) != MaxLogValueLength+len("...[TRUNCATED]") {
					t.Errorf("result length %d, want %d", len(result), MaxLogValueLength+len("...[TRUNCATED]"))
				}
			} else if strings.Contains(result, "...[TRUNCATED]") {
				t.Errorf("unexpected truncation for input length %d", len(tt.input))
			}
		})
	}
}

// TestSanitizeLogValue_SecurityPatterns tests log injection patterns
func TestSanitizeLogValue_SecurityPatterns(t *testing.T) {
	inputs := []string{
		"user\n[ERROR] System compromised\n[INFO] User logged in",
		"text\x1B[2J\x1B[H",
		"user\n\x1B[31m[ERROR]\x1B[0m Attack\r\nOverwrite",
	}

	for _, input := range inputs {
		result := sanitizeLogValue(input)
		for _, bad := range []string{"\n", "\r", "\x1B"} {
			if strings.Contains(result, bad) {
				t.Errorf("sanitizeLogValue(%q) = %q still contains %q", input, result, bad)
			}
		}
	}
}

// TestDefaultLogger_KeyValuePairs tests structured logging with key-value pairs
func TestDefaultLogger_KeyValuePairs(t *testing.T) {
	tests := []struct {
		name            string
		keysAndValues   []any
		expectedPairs   []string
		unexpectedPairs []string
	}{
		{
			name:          "even pairs",
			keysAndValues: []any{"key1", "value1", "key2", 123},
			expectedPairs: []string{"key1=value1", "key2=123"},
		},
		{
			name:          "odd pairs (missing value)",
			keysAndValues: []any{"key1", "value1", "key2"},
			expectedPairs: []string{"key1=value1", "key2=<MISSING>"},
		},
		{
			name:            "control characters in values",
			keysAndValues:   []any{"key", "value\ninjection"},
			expectedPairs:   []string{"key=value injection"},
			unexpectedPairs: []string{"key=value\ninjection"},
		},
		{
			name:          "unicode in keys and values",
			keysAndValues: []any{"キー", "値"},
			expectedPairs: []string{"キー=値"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			logger := NewDefaultLogger(LogLevelDebug)
			logger.Debug(context.Background(), "test", tt.keysAndValues...)

			output := buf.String()

			for _, expected := range tt.expectedPairs {
				if !strings.Contains(output, expected) {
					t.Errorf("expected log to contain %q but got: %s", expected, output)
				}
			}

			for _, unexpected := range tt.unexpectedPairs {
				if strings.Contains(output, unexpected) {
					t.Errorf("expected log NOT to contain %q but got: %s", unexpected, output)
				}
			}
		})
	}
}

// TestNoOpLogger verifies that NoOpLogger produces no output
func TestNoOpLogger(t *testing.T) {
	buf := captureLog(t)

	logger := &NoOpLogger{}

	logger.Debug(context.Background(), "debug message", "key1", "value1", "key2", 123)
	logger.Info(context.Background(), "info message", "operation", "test")
	logger.Warn(context.Background(), "warn message", "warning", "something")
	logger.Error(context.Background(), "error message", "error", "failed", "code", 500)

	if buf.String() != "" {
		t.Errorf("NoOpLogger produced output: %s", buf.String())
	}
}

// TestLogLevel_String tests LogLevel string representation
func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelNone, "NONE"},
		{LogLevel(99), "UNKNOWN(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.level.String()
			if result != tt.expected {
				t.Errorf("String() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{" warn ", LogLevelWarn, false},
		{"warning", LogLevelWarn, false},
		{"Error", LogLevelError, false},
		{"off", LogLevelNone, false},
		{"none", LogLevelNone, false},
		{"verbose", LogLevelNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// BenchmarkSanitizeLogValue benchmarks log sanitization performance
func BenchmarkSanitizeLogValue(b *testing.B) {
	testCases := []struct {
		name  string
		input string
	}{
		{"short clean", "simple value"},
		{"with control chars", "value\nwith\tcontrol\rchars"},
		{"with unicode", "こんにちは世界 Hello World"},
		{"needs truncation", strings.Repeat("a", MaxLogValueLength+100)},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = sanitizeLogValue(tc.input)
			}
		})
	}
}
