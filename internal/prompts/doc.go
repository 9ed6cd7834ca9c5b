// Package prompts formats the instruction text sent to the model for each kind
// of generated content. Every builder is pure: it validates its input, renders
// text, and reports whether the reply must be JSON. Nothing here performs I/O.
package prompts
