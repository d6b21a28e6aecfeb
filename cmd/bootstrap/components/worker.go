package components

import (
	"context"

	"venue-reservation/internal/handler/api"
	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/usecase/commands"
	"venue-reservation/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewDeadlineSweeper,
		func(s *worker.DeadlineSweeper) api.Sweeper { return s },
	),
	fx.Invoke(startDeadlineSweeper),
)

func NewDeadlineSweeper(cmds commands.ReservationCommands, locker worker.Locker, cfg config.Config) *worker.DeadlineSweeper {
	return worker.NewDeadlineSweeper(cmds, locker, cfg.Sweeper)
}

func startDeadlineSweeper(lc fx.Lifecycle, sweeper *worker.DeadlineSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
