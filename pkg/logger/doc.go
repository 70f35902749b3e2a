// Package logger builds *slog.Logger instances for the bridge and provides
// attribute helpers so keys stay consistent across packages.
//
// New applies functional options (format, level, output, static attributes,
// environment presets) and wraps the chosen slog handler with a context
// handler that runs registered ContextExtractor callbacks on every record.
// This is how request IDs set by the HTTP middleware reach log lines
// emitted deep inside the gateway.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "socialbridge"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.WarnContext(ctx, "identity provider call failed",
//	    logger.Provider("facebook"),
//	    logger.Error(err),
//	)
//
// Helpers such as Error, UID and Provider return an empty slog.Attr for empty
// input, which slog drops, so callers need no nil checks.
package logger
