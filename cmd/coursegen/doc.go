// Package main hosts the coursegen CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into generation calls:
// full courses from source material, section notes, study chat replies, extra
// quiz questions, an OpenRouter health check, and configuration scaffolding.
// Configuration and logging are resolved once per invocation in
// commandContext so subcommands only deal with input and output.
//
// Add functionality in the internal packages first, then surface it here.
package main
