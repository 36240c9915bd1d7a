package rclog

import (
	"time"

	"github.com/lintang-b-s/routechoice/pkg/rclog/config"
	myZap "github.com/lintang-b-s/routechoice/pkg/rclog/zap"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// New builds the engine's zap logger, sourcing defaults from viper the
// way the rest of the stack sources its configuration. Callers may set
// LOG_LEVEL/LOG_TIME_FORMAT before calling New to override the defaults.
func New() (*zap.Logger, error) {
	viper.SetDefault("LOG_LEVEL", config.INFO_LEVEL)
	viper.SetDefault("LOG_TIME_FORMAT", time.RFC3339Nano)

	cfg := config.Configuration{
		Level:      viper.GetInt("LOG_LEVEL"),
		TimeFormat: viper.GetString("LOG_TIME_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return myZap.New(cfg)
}

// Nop returns a logger that discards everything, used by callers that
// don't care about the engine's diagnostics (e.g. most tests).
func Nop() *zap.Logger {
	return zap.NewNop()
}
