// Package llm provides the OpenRouter completion client used by every
// generation path.
//
// Each logical call sends one chat completion with a single user-role message
// and either returns the first choice's content verbatim or decodes it as JSON.
// Model replies often wrap JSON in a fenced code block, so ParseStructuredReply
// falls back to the fenced body when the raw content does not decode.
//
// # Configuration
//
// Requires an API key. Model, base URL, referer, title and timeout are optional.
// Without a key every call fails with services.ErrConfiguration and no request
// is sent.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a prompt, receive the raw reply text.
// Client.CompleteJSON: send a prompt, decode the reply into a target value.
// Client.HealthCheck: verify API key and model availability.
// ParseStructuredReply: decode a reply string without sending anything.
//
// # Retry Behaviour
//
// Non-2xx replies become *StatusError. Only 429, 500 and 503 match
// services.ErrTransient and are retried through the backoff package (three
// attempts, waits of 1s, 2s, 4s). Other statuses, transport failures and parse
// failures are returned immediately.
package llm
