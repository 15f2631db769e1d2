package utils

import "go.uber.org/zap"

// NewLogger builds the process-wide zap logger. The --debug CLI flag maps to
// the development config (console encoder, debug level); production config
// (JSON, info level) is used everywhere else.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
