package identity

import (
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent extracts a human-readable device display name from a
// User-Agent string, e.g. "Chrome on macOS". Logged alongside sign-in events
// so a user can recognize where a session came from.
func ParseUserAgent(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "Unknown Browser"
	}
	os = strings.TrimSpace(os)
	if os == "" {
		return browser
	}
	return browser + " on " + os
}
