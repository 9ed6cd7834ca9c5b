package logging

import (
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error renders err under the "error" key; a nil error is logged as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Event types emitted by coursegen warnings.
const (
	EventLLMRetry   = "llm_retry"
	EventAIDisabled = "ai_disabled"
	EventQuizShort  = "quiz_short"
)

type warningDefaults struct {
	hint   string
	impact string
}

var knownWarnings = map[string]warningDefaults{
	EventLLMRetry: {
		hint:   "OpenRouter is rate limiting or temporarily unavailable",
		impact: "generation is delayed",
	},
	EventAIDisabled: {
		hint:   "set OPENROUTER_API_KEY or llm.api_key",
		impact: "generation commands will fail",
	},
	EventQuizShort: {
		hint:   "retry the request or lower the question count",
		impact: "fewer quiz questions than requested",
	},
}

var fallbackWarning = warningDefaults{
	hint:   "check logs for details",
	impact: "operation completed with warnings",
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning tagged with eventType. When the caller does not
// supply error_hint or impact, the defaults registered for the event type are used.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	defaults, ok := knownWarnings[eventType]
	if !ok {
		defaults = fallbackWarning
	}
	attrs = appendMissing(attrs, FieldEventType, eventType)
	attrs = appendMissing(attrs, FieldErrorHint, defaults.hint)
	attrs = appendMissing(attrs, FieldImpact, defaults.impact)
	logger.Warn(msg, argsOf(attrs)...)
}

func appendMissing(attrs []Attr, key, value string) []Attr {
	for _, a := range attrs {
		if a.Key == key {
			return attrs
		}
	}
	return append(attrs, String(key, value))
}

func argsOf(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}
