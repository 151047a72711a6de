package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
)

// Startup runs once after the database is connected and the schema is
// ensured, before the HTTP server starts.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}
	return nil
}
