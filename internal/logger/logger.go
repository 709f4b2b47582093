package logger

import (
	"github.com/mobtwin/admin-backend/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the application logger from the environment profile.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	base, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}

	return base.With(zap.String("app", cfg.AppId)), nil
}
