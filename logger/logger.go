package logger

import (
	"go.uber.org/zap"
)

var Log *zap.Logger = zap.NewNop()

// Init builds the process logger. mode follows GIN_MODE: anything other
// than "release" gets the development config.
func Init(mode string) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if mode == "release" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	Log = log
	return log, nil
}
