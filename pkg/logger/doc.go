// Package logger provides a small factory around log/slog with environment
// presets and env-loadable configuration.
//
// The factory builds a slog.Logger with either JSON output (production,
// default) or text output (development), optional static attributes, and a
// component tag used to distinguish the SDK's moving parts in aggregated
// output.
//
// # Usage
//
//	log := logger.New(
//		logger.WithDevelopment("authkit"),
//		logger.WithComponent("authsession"),
//	)
//	log.Info("session resolved", slog.String("user_id", id))
//
// Or from the environment (LOG_LEVEL, LOG_FORMAT):
//
//	log, err := logger.NewFromEnv(logger.WithComponent("authsession"))
//	if err != nil {
//		// Handle error
//	}
package logger
