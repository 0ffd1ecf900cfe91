// Package logging is the structured logger every linkfolio component receives.
// Records are JSON via log/slog; credential attributes are redacted.
package logging

import "context"

// Logger takes a context plus alternating key/value pairs:
//
//	log.Info(ctx, "link created", "owner", ownerID, "position", pos)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}
