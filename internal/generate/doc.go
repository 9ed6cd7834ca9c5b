// Package generate exposes the four generation operations used by the learning
// app: comprehensive section notes, full course content, chat replies, and extra
// quiz questions.
//
// Every operation follows the same path: fail fast with
// services.ErrConfiguration when no API key is configured, build the prompt,
// send it through the completion client (which retries transient provider
// failures), then decode and normalize the reply. Errors are returned to the
// caller unchanged; nothing is logged and swallowed.
package generate
