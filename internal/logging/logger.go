// Package logging holds the logger abstraction the order-management server
// logs through. Handlers, services, and the app lifecycle all take a Logger
// so the slog backend stays swappable and tests can discard output.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. Args are key-value
// pairs:
//
//	log.Info(ctx, "request", "method", r.Method, "status", status)
type Logger interface {
	// Debug logs fine-grained flow detail, such as a refresh attempt for an
	// expired access token.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every record, used to tag a component ("module", "http_server").
	With(args ...any) Logger
}
