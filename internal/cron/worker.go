package cron

import (
	"context"
	"fmt"
	"time"

	"salon-booking/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepRunTimeout bounds one sweep invocation so a stuck batch cannot
// pile up behind the next tick.
const sweepRunTimeout = 2 * time.Minute

// Worker runs the booking expiration sweep on a fixed interval. The
// sweep is a safety net behind lazy expiration, so a missed tick is
// harmless.
type Worker struct {
	cron    *cron.Cron
	sweeper usecase.SweeperService
	log     *zap.Logger
}

func NewWorker(sweeper usecase.SweeperService, log *zap.Logger) *Worker {
	return &Worker{
		cron:    cron.New(),
		sweeper: sweeper,
		log:     log.With(zap.String("worker", "sweep")),
	}
}

// Start schedules the sweep every intervalMinutes and launches the
// scheduler goroutine.
func (w *Worker) Start(intervalMinutes int) error {
	spec := fmt.Sprintf("@every %dm", intervalMinutes)

	_, err := w.cron.AddFunc(spec, w.runSweep)
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", spec, err)
	}

	w.cron.Start()
	w.log.Info("Sweep worker started", zap.Int("interval_minutes", intervalMinutes))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("Sweep worker stopped")
}

func (w *Worker) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepRunTimeout)
	defer cancel()

	expired, err := w.sweeper.Sweep(ctx)
	if err != nil {
		w.log.Error("Sweep run failed", zap.Error(err))
		return
	}

	if expired > 0 {
		w.log.Info("Sweep run finished", zap.Int("expired", expired))
	}
}
