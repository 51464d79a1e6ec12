// Package errors provides the coded error taxonomy for cellbind's reactive
// core.
//
// Engine-level failures split into three kinds: programmer errors
// (invariant violations, always fatal), benign races (an observer dropped
// mid-fanout, skipped silently — these never reach this package) and
// resource-release errors (a host deregistration callback that panics or
// returns an error from inside Lifetime.Done, which must be logged and
// swallowed rather than propagated). This package gives the first and
// third kind a stable code and a human-readable explanation.
package errors
