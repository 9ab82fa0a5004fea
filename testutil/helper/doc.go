// Package helper provides test doubles shared by the test suites of this module:
// a slog.Handler that captures records and a metrics collector spy.
package helper
