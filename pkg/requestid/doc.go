// Package requestid attaches a correlation ID to every inbound request so the
// log lines of one login flow, from the HTTP handler down to the identity
// provider call, can be grouped together.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//
// Inbound IDs that are empty, longer than 128 bytes or contain characters
// outside [a-zA-Z0-9_-] are replaced by a fresh UUID.
package requestid
