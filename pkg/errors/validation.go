package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateEventLogID validates an event log identifier before it is placed in
// a request path.
//
// The backend issues numeric or UUID identifiers, but the client only rejects
// what could break the URL:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateEventLogID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "event log id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "event log id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "event log id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"/", "\\", "..", "?", "#"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "event log id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a backend base URL.
// It ensures the URL parses, has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}

	return nil
}
