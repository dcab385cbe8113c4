package astroprint

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

const bodyLimit = 300

var (
	// ErrUnauthorized means the AstroPrint session expired or was revoked.
	// Callers treat it as a logout.
	ErrUnauthorized = errors.New("astroprint session expired")

	// ErrForbidden means the API key does not belong to an OctoPrint admin.
	ErrForbidden = errors.New("octoprint admin user must be logged in")
)

// APIError is returned for any other non-2xx plugin response.
type APIError struct {
	Path        string
	StatusCode  int
	Code        string // "error" field of a JSON body, if any
	Description string // "error_description" field, or the raw body
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, msg)
}

// Message returns the server-supplied explanation, if any.
func (e *APIError) Message() string {
	switch {
	case e.Code != "" && e.Description != "":
		return e.Code + ": " + e.Description
	case e.Code != "":
		return e.Code
	default:
		return e.Description
	}
}

// Unwrap maps auth status codes onto the sentinel errors.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	}
	return nil
}

// IsBadRequest reports whether err is a 400 from the plugin. The plugin
// explains download rejections in the body of a 400.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// IsUnauthorized reports whether err should invalidate the session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// trimBody caps server text at bodyLimit bytes without splitting a rune.
func trimBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= bodyLimit {
		return text
	}
	cut := bodyLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
