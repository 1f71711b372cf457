package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the workout API. Detail carries the
// server's explanation, flattened to a single human-readable string.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
}

// validationEntry is one structured field error in a 422 response body.
type validationEntry struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// newError builds an *Error from a response body. The API wraps its
// explanation in {"detail": ...} where detail is either a plain string or a
// list of structured validation entries; anything else falls back to the
// raw body.
func newError(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode}

	var wrapper struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Detail) == 0 {
		e.Detail = strings.TrimSpace(string(body))
		return e
	}

	var s string
	if err := json.Unmarshal(wrapper.Detail, &s); err == nil {
		e.Detail = s
		return e
	}

	var entries []validationEntry
	if err := json.Unmarshal(wrapper.Detail, &entries); err == nil {
		parts := make([]string, 0, len(entries))
		for _, entry := range entries {
			locParts := make([]string, 0, len(entry.Loc))
			for _, l := range entry.Loc {
				locParts = append(locParts, fmt.Sprintf("%v", l))
			}
			parts = append(parts, strings.Join(locParts, ".")+": "+entry.Msg)
		}
		e.Detail = strings.Join(parts, "; ")
		return e
	}

	e.Detail = strings.TrimSpace(string(wrapper.Detail))
	return e
}

func statusIs(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }
