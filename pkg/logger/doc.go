// Package logger provides the structured logger handed to every tagtally
// component.
//
// It wraps zerolog behind a small interface so callers can attach fields and
// errors without depending on zerolog directly. Output is a human-readable
// console stream on stderr, optionally mirrored to a file.
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	log.WithField("hashtag", "golang").Info("Polling started")
//
// There is no package-level logger: construct one at startup and pass it
// down. Tests use NewTestLogger to capture messages, or NewNopLogger to
// discard them.
package logger
