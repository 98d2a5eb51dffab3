package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_SanitizesSensitiveKeys tests that sensitive keys are sanitized.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{
			name:     "password key is sanitized",
			key:      "password",
			value:    "hunter2",
			wantMask: true,
		},
		{
			name:     "walmart_password key is sanitized",
			key:      "walmart_password",
			value:    "hunter2",
			wantMask: true,
		},
		{
			name:     "browserless_token key is sanitized",
			key:      "browserless_token",
			value:    "chrome-token",
			wantMask: true,
		},
		{
			name:     "mealie_api_key key is sanitized",
			key:      "mealie_api_key",
			value:    "abc",
			wantMask: true,
		},
		{
			name:     "client_secret key is sanitized",
			key:      "client_secret",
			value:    "shh",
			wantMask: true,
		},
		{
			name:     "Cookie key (uppercase) is sanitized",
			key:      "Cookie",
			value:    "session=abc123",
			wantMask: true,
		},
		{
			name:     "authorization key is sanitized",
			key:      "authorization",
			value:    "Bearer token123",
			wantMask: true,
		},
		{
			name:     "url key is not sanitized",
			key:      "url",
			value:    "https://www.walmart.com/search?q=bananas",
			wantMask: false,
		},
		{
			name:     "query key is not sanitized",
			key:      "query",
			value:    "peanut butter",
			wantMask: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			if tt.wantMask {
				if strings.Contains(out, tt.value) {
					t.Errorf("output %q still contains the sensitive value", out)
				}
				if !strings.Contains(out, MaskValue) {
					t.Errorf("output %q does not contain the mask", out)
				}
				return
			}
			if !strings.Contains(out, tt.value) {
				t.Errorf("output %q should contain the value unmasked", out)
			}
		})
	}
}

// TestSecureHandler_SanitizesSensitiveValues tests value pattern detection.
func TestSecureHandler_SanitizesSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		wantMask bool
	}{
		{
			name:     "JWT is sanitized",
			value:    "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.abc123",
			wantMask: true,
		},
		{
			name:     "bearer token is sanitized",
			value:    "Bearer abc123def",
			wantMask: true,
		},
		{
			name:     "long opaque key is sanitized",
			value:    "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8",
			wantMask: true,
		},
		{
			name:     "CDP URL with token query is sanitized",
			value:    "ws://chrome.local/devtools?token=secret123",
			wantMask: true,
		},
		{
			name:     "plain product title is kept",
			value:    "Great Value Creamy Peanut Butter, 40 oz",
			wantMask: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("test", "detail", tt.value)

			out := buf.String()
			masked := strings.Contains(out, MaskValue)
			if masked != tt.wantMask {
				t.Errorf("got masked=%v for %q, expected %v (output %q)", masked, tt.value, tt.wantMask, out)
			}
		})
	}
}

// TestSecureHandler_GroupsAreSanitized tests recursive group handling.
func TestSecureHandler_GroupsAreSanitized(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSecureHandler(slog.NewTextHandler(&buf, nil)))
	logger.Info("test", slog.Group("session", slog.String("token", "abc"), slog.String("url", "http://x")))

	out := buf.String()
	if strings.Contains(out, "token=abc") {
		t.Errorf("output %q still contains the grouped token", out)
	}
	if !strings.Contains(out, "http://x") {
		t.Errorf("output %q should keep the grouped url", out)
	}
}

// TestNewSecureLogger_Level tests the verbose level switch.
func TestNewSecureLogger_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output %q should be suppressed when not verbose", buf.String())
	}

	verbose := NewSecureLogger(&buf, true)
	verbose.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug output should appear in verbose mode")
	}
}
