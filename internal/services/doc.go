// Package services defines shared utilities consumed by the generation layer and
// the OpenRouter integration.
//
// Key responsibilities:
//   - Context helpers that stamp operation names and correlation identifiers
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     configuration, transient, provider, parse, or validation errors. The
//     transient marker is the only thing the retry loop looks at.
//
// Use these helpers when wiring new generation code so error handling and
// observability stay uniform.
package services
