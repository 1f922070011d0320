package browser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdulrabbt/audio-track-mixer/browser"
)

const (
	chromeUA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"
	safariUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Safari/605.1.15"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		description string
		ua          string
		name        string
		safari      bool
		firefox     bool
	}{
		{
			description: "chrome on windows",
			ua:          chromeUA,
			name:        "Chrome",
		},
		{
			description: "firefox on linux",
			ua:          firefoxUA,
			name:        "Firefox",
			firefox:     true,
		},
		{
			description: "safari on mac",
			ua:          safariUA,
			name:        "Safari",
			safari:      true,
		},
	}
	for _, test := range tests {
		t.Log(test.description)
		info := browser.Detect(test.ua)
		assert.Equal(t, test.name, info.Name)
		assert.NotEmpty(t, info.Version)
		assert.Equal(t, test.safari, info.IsSafari())
		assert.Equal(t, test.firefox, info.IsFirefox())
		assert.False(t, info.IsOldEdge())
	}
}

func TestIsOldEdge(t *testing.T) {
	tests := []struct {
		info     browser.Info
		expected bool
	}{
		{info: browser.Info{Name: "Edge", Version: "18.17763"}, expected: true},
		{info: browser.Info{Name: "Edge", Version: "120.0.0.0"}, expected: false},
		{info: browser.Info{Name: "Chrome", Version: "18.0"}, expected: false},
		{info: browser.Info{Name: "Edge", Version: "unknown"}, expected: false},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.info.IsOldEdge())
	}
}

func TestInfoString(t *testing.T) {
	info := browser.Info{Name: "Chrome", Version: "120.0", OSName: "Windows", OSVersion: "10"}
	assert.Equal(t, "Chrome 120.0 (Windows 10)", info.String())
}
