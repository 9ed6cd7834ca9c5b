package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"coursegen/internal/services"
)

// fencedBlock matches one ``` fenced block. Group 1 is the optional language
// label and group 2 the body.
var fencedBlock = regexp.MustCompile("(?s)```[ \\t]*([A-Za-z0-9_+-]*)[ \\t]*\\r?\\n?(.*?)```")

// ParseStructuredReply decodes a model reply into target. The whole content is
// tried first. Otherwise every fenced code block is tried, json-labeled blocks
// before the rest, and the first body that decodes wins. Anything else is
// reported as services.ErrParse.
func ParseStructuredReply(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return services.Wrap(services.ErrParse, component, "decode", "empty reply", nil)
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}

	bodies := fencedBodies(trimmed)
	if len(bodies) == 0 {
		return services.Wrap(services.ErrParse, component, "decode",
			"payload snippet: "+summarizePayloadSnippet(trimmed), directErr)
	}
	var lastErr error
	for _, body := range bodies {
		if lastErr = json.Unmarshal([]byte(body), target); lastErr == nil {
			return nil
		}
	}
	return services.Wrap(services.ErrParse, component, "decode",
		"fenced payload snippet: "+summarizePayloadSnippet(bodies[0]), lastErr)
}

// fencedBodies returns the non-empty fenced block bodies, json-labeled first,
// each group in document order.
func fencedBodies(content string) []string {
	var labeled, other []string
	for _, match := range fencedBlock.FindAllStringSubmatch(content, -1) {
		body := strings.TrimSpace(match[2])
		if body == "" {
			continue
		}
		if strings.EqualFold(match[1], "json") {
			labeled = append(labeled, body)
		} else {
			other = append(other, body)
		}
	}
	return append(labeled, other...)
}
