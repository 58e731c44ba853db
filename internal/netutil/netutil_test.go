package netutil

import (
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "ipv4 with port", input: "192.0.2.4:8080", expected: "192.0.2.4", ok: true},
		{name: "ipv6 with port", input: "[2001:db8::1]:443", expected: "2001:db8::1", ok: true},
		{name: "ipv6 textual port", input: "[::1]:port", expected: "::1", ok: true},
		{name: "plain ipv4", input: "203.0.113.9", expected: "203.0.113.9", ok: true},
		{name: "plain ipv6", input: "2001:db8::5", expected: "2001:db8::5", ok: true},
		{name: "v4 mapped", input: "::ffff:10.0.0.1", expected: "10.0.0.1", ok: true},
		{name: "padded", input: "  198.51.100.7  ", expected: "198.51.100.7", ok: true},
		{name: "garbage", input: "not-an-ip", expected: "not-an-ip", ok: false},
		{name: "empty", input: "", expected: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeIP(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "192.0.2.10:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")

	assert.Equal(t, "192.0.2.10", ClientIP(r, false))
	assert.Equal(t, "203.0.113.1", ClientIP(r, true))

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(r, true))
}

func TestTruncateUserAgent(t *testing.T) {
	long := strings.Repeat("ä", MaxUserAgentLength+10)
	truncated := TruncateUserAgent(long)
	assert.Equal(t, MaxUserAgentLength, utf8.RuneCountInString(truncated))
	assert.True(t, utf8.ValidString(truncated))

	assert.Equal(t, "curl/8.0", TruncateUserAgent("curl/8.0"))
}
