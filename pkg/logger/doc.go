// Package logger builds the *slog.Logger values used across the module and
// the attribute helpers that keep log keys consistent.
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatText),
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(logger.Component("formstate-cli")),
//	)
//
// Library packages default to Discard() and accept a logger through their
// own options.
package logger
