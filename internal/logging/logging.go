package logging

import (
	"go.uber.org/zap"
)

var Logger *zap.SugaredLogger

func init() {
	// Safe default so library consumers and tests never hit a nil logger.
	Logger = zap.NewNop().Sugar()
}

// Init configures the process-wide logger. Debug switches to the
// development config with full output; the default config stays quiet
// below warn level so report output remains the primary channel.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Logger = logger.Sugar()
}
