package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"seatsense/internal/pkg/config"
	"seatsense/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(
		startSweeper,
	),
)

// startSweeper runs the expiry sweep on a fixed interval for the lifetime
// of the process. The interval bounds how long an elapsed booking can stay
// open when no sensor event closes it.
func startSweeper(lc fx.Lifecycle, cfg config.Config, sweep commands.SweepCommands, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Sweep.Interval)
				defer ticker.Stop()

				logger.Info("expiry sweeper started", "interval", cfg.Sweep.Interval.String())
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						result, err := sweep.SweepExpired(ctx)
						if err != nil {
							logger.Error("expiry sweep failed", "error", err.Error())
							continue
						}
						if result.Completed > 0 || result.Expired > 0 {
							logger.Info("expiry sweep closed bookings",
								"completed", result.Completed, "expired", result.Expired)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
