// Package logging builds sugared loggers for standalone entrypoints (such
// as the seed script) that run outside the API's config bootstrap.
package logging

import "go.uber.org/zap"

// New returns a production sugared logger
func New() *zap.SugaredLogger {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	return logger.Sugar()
}
