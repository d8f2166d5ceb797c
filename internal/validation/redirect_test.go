package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	const host = "app.example.com"

	tests := []struct {
		name   string
		next   string
		secure bool
		want   string
		ok     bool
	}{
		{"empty", "", false, "", false},
		{"relative path", "/questions/5", false, "/questions/5", true},
		{"relative with query", "/library?page=2", false, "/library?page=2", true},
		{"bare word resolves against current path", "evil.com", false, "", false},
		{"scheme relative", "//evil.com/x", false, "", false},
		{"backslash trick", "/\\evil.com", false, "", false},
		{"same host http", "http://app.example.com/next", false, "http://app.example.com/next", true},
		{"same host mixed case", "http://APP.example.COM/next", false, "http://APP.example.COM/next", true},
		{"other host", "http://evil.com/next", false, "", false},
		{"javascript scheme", "javascript:alert(1)", false, "", false},
		{"http downgrade on secure request", "http://app.example.com/next", true, "", false},
		{"https on secure request", "https://app.example.com/next", true, "https://app.example.com/next", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeRedirect(tt.next, host, tt.secure)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
