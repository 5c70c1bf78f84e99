// Package logging provides the small logging facade used by crossown.
//
// Logger wraps the context-aware methods of log/slog so applications can plug
// in their own implementation:
//
//	logger := logging.New(nil) // slog.Default()
//	logger.Warn(ctx, "double ownership risk", "site", "Pet.owner")
//
// The level may be overridden at runtime with the CROSSOWN_LOG_LEVEL
// environment variable (debug, info, warn, error).
package logging
