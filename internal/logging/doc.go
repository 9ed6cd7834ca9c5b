// Package logging assembles structured slog loggers and formatting helpers used
// across coursegen.
//
// It owns the console and JSON handlers, picks between them automatically when
// the format is "auto" (console on a terminal, JSON otherwise), and colors level
// labels when writing to a terminal. Context helpers stamp log lines with the
// operation name and correlation ID carried by the request context.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits the same field names.
package logging
