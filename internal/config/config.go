package config

import (
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It is a no-op until InitLogger runs.
var Logger = zap.NewNop()

// InitLogger builds the process logger: JSON production output when env is
// "production", coloured development output otherwise.
func InitLogger(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	Logger = l
	Logger.Info("zap logger initialized", zap.String("env", env))
	return l, nil
}
