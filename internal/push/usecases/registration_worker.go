package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"push-registrar/internal/infra/async"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultReconcileSchedule = "@every 1h"
	_defaultOperationTimeout = time.Minute
)

type RegistrationWorkerConfig struct {
	Schedule             string
	UnregisterOnShutdown bool
	OperationTimeout     time.Duration
}

func NewRegistrationWorker(registrar RegistrarService, config RegistrationWorkerConfig) (*RegistrationWorker, error) {
	if config.Schedule == "" {
		config.Schedule = DefaultReconcileSchedule
	}
	if config.OperationTimeout <= 0 {
		config.OperationTimeout = _defaultOperationTimeout
	}

	schedule, err := cron.ParseStandard(config.Schedule)
	if err != nil {
		return nil, fmt.Errorf("parsing reconcile schedule %q: %w", config.Schedule, err)
	}

	return &RegistrationWorker{
		registrar: registrar,
		schedule:  schedule,
		config:    config,
		stop:      make(chan struct{}),
	}, nil
}

var _ async.Worker = &RegistrationWorker{}

// RegistrationWorker keeps the device registered while the process runs.
type RegistrationWorker struct {
	registrar RegistrarService
	schedule  cron.Schedule
	config    RegistrationWorkerConfig

	stop     chan struct{}
	stopOnce sync.Once
}

func (w *RegistrationWorker) Run(ctx context.Context, done func()) {
	slog.Debug("registration worker started", slog.String("schedule", w.config.Schedule))
	defer done()

	w.reconcile(ctx)

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	scheduler.Schedule(w.schedule, cron.FuncJob(func() {
		w.reconcile(ctx)
	}))
	scheduler.Start()

	select {
	case <-ctx.Done():
		slog.Info("registration worker cancelled")
	case <-w.stop:
		slog.Info("registration worker stopped")
	}

	<-scheduler.Stop().Done()

	if w.config.UnregisterOnShutdown {
		w.unregister()
	}
}

func (w *RegistrationWorker) Shutdown() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

func (w *RegistrationWorker) reconcile(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, w.config.OperationTimeout)
	defer cancel()

	attempted, err := w.registrar.Reconcile(ctx)
	if err != nil {
		slog.Error("reconciling push registration", slog.Any("error", err))
		return
	}
	if attempted {
		slog.Info("push registration reconciled")
	}
}

func (w *RegistrationWorker) unregister() {
	ctx, cancel := context.WithTimeout(context.Background(), w.config.OperationTimeout)
	defer cancel()

	if _, err := w.registrar.Unregister(ctx); err != nil {
		slog.Error("unregistering on shutdown", slog.Any("error", err))
		return
	}
	slog.Info("device unregistered on shutdown")
}
