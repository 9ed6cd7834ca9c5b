// Package backoff runs an operation and repeats it on transient failure with an
// exponential delay between attempts.
//
// The retry decision is not made here. The HTTP boundary tags provider failures
// that are worth repeating (status 429, 500, 503) with services.ErrTransient and
// Do only checks for that marker, so anything else propagates on first
// occurrence.
//
// # Schedule
//
// Attempt k (1-indexed) waits base*2^(k-1) after failing: 1s, 2s, 4s with the
// default base and three attempts. There is no jitter and no cap. When the last
// attempt fails its wait is still observed and the last error is returned
// unchanged.
//
// # Entry Points
//
// Do: run an operation with the default policy or the supplied options.
// Delay: the wait that follows a given attempt.
package backoff
