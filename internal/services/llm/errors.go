package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursegen/internal/services"
)

// StatusError reports a non-2xx reply from OpenRouter.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("llm request: http %d", e.StatusCode)
	}
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, summarizePayloadSnippet(body))
}

// Transient reports whether the status is one that is worth repeating.
func (e *StatusError) Transient() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	default:
		return false
	}
}

// Is lets errors.Is match the service markers: transient statuses match
// services.ErrTransient, every other status matches services.ErrProvider.
func (e *StatusError) Is(target error) bool {
	switch target {
	case services.ErrTransient:
		return e.Transient()
	case services.ErrProvider:
		return !e.Transient()
	default:
		return false
	}
}

// StatusCode extracts the HTTP status from err, or zero when err did not come
// from an HTTP reply.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func summarizePayloadSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
