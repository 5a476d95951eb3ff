package cmd

import (
	"context"
	"time"

	"library-lending/internal/usecase"
	"library-lending/pkg/utils"

	"go.uber.org/zap"
)

// StartSweeps launches the background jobs: the daily overdue reminder scan
// and the checkout session expiry reconciliation. Both run until ctx ends.
func StartSweeps(ctx context.Context, sweep usecase.SweepService, cfg utils.SweepConfig, log *zap.Logger) {
	overdueEvery := time.Duration(cfg.OverdueIntervalHours) * time.Hour
	if overdueEvery <= 0 {
		overdueEvery = 24 * time.Hour
	}
	expiryEvery := time.Duration(cfg.ExpiryIntervalMinutes) * time.Minute
	if expiryEvery <= 0 {
		expiryEvery = 30 * time.Minute
	}

	go runSweep(ctx, "overdue_check", overdueEvery, log, func(runCtx context.Context) error {
		return sweep.CheckOverdue(runCtx)
	})

	go runSweep(ctx, "session_expiry", expiryEvery, log, func(runCtx context.Context) error {
		_, err := sweep.ExpireSessions(runCtx)
		return err
	})
}

func runSweep(ctx context.Context, name string, every time.Duration, log *zap.Logger, job func(context.Context) error) {
	log.Info("sweep started", zap.String("sweep", name), zap.Duration("interval", every))

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweep stopped", zap.String("sweep", name))
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := job(runCtx); err != nil {
				log.Error("sweep run failed", zap.String("sweep", name), zap.Error(err))
			}
			cancel()
		}
	}
}
