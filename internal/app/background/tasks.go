package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradeguard/settlement-service/internal/usecase/reconcile"
)

// BackgroundTasks drives the reconciliation scheduler on tickers. The
// jobs are idempotent, so overlap with manually triggered runs is fine.
type BackgroundTasks struct {
	Scheduler             *reconcile.Scheduler
	AutoConfirmInterval   time.Duration
	ExpireVotingsInterval time.Duration
}

func NewBackgroundTasks(scheduler *reconcile.Scheduler, autoConfirmInterval, expireVotingsInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		Scheduler:             scheduler,
		AutoConfirmInterval:   autoConfirmInterval,
		ExpireVotingsInterval: expireVotingsInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startAutoConfirm(ctx)
	go bt.startExpireVotings(ctx)
}

func (bt *BackgroundTasks) startAutoConfirm(ctx context.Context) {
	ticker := time.NewTicker(bt.AutoConfirmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := bt.Scheduler.RunAutoConfirm(ctx)
			if err != nil {
				slog.Error("auto-confirm pass failed", "error", err.Error())
				continue
			}
			slog.Info("auto-confirm pass finished",
				"processed", report.Processed,
				"succeeded", report.Succeeded,
				"failed", len(report.Failed))
		}
	}
}

func (bt *BackgroundTasks) startExpireVotings(ctx context.Context) {
	ticker := time.NewTicker(bt.ExpireVotingsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := bt.Scheduler.RunExpireVotings(ctx)
			if err != nil {
				slog.Error("expire-votings pass failed", "error", err.Error())
				continue
			}
			slog.Info("expire-votings pass finished",
				"processed", report.Processed,
				"succeeded", report.Succeeded,
				"failed", len(report.Failed))
		}
	}
}
