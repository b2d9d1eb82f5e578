// Package worker runs the spreadsheet export in the background.
package worker

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	applog "financas/internal/log"
	"financas/internal/metrics"
)

// Export triggers, used as metric labels.
const (
	TriggerStartup      = "startup"
	TriggerNotification = "notification"
	TriggerPeriodic     = "periodic"
)

type Exporter interface {
	Export(ctx context.Context, collections ...string) error
}

type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.ChangeMessage) error) error
}

// ExportWorker rewrites spreadsheet tabs when a change notification arrives
// and on a fixed interval as a backstop for lost messages.
type ExportWorker struct {
	exporter Exporter
	interval time.Duration
	logger   *applog.Logger
}

func NewExportWorker(exporter Exporter, interval time.Duration, logger *applog.Logger) *ExportWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	return &ExportWorker{
		exporter: exporter,
		interval: interval,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleChange exports the collections named in msg. A failure is returned
// so the message is requeued.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	w.logger.DebugContext(ctx, "Processing change notification", "collections", msg.Collections)
	return w.export(ctx, TriggerNotification, msg.Collections...)
}

// Run performs a full export, then serves notifications from consumer (when
// not nil) and the periodic export until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context, consumer Consumer) error {
	if err := w.export(ctx, TriggerStartup); err != nil {
		w.logger.ErrorContext(ctx, "Startup export failed", applog.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	if consumer != nil {
		g.Go(func() error {
			return consumer.Consume(ctx, w.HandleChange)
		})
	} else {
		w.logger.InfoContext(ctx, "No AMQP consumer configured, relying on periodic export")
	}
	if w.interval > 0 {
		g.Go(func() error {
			return w.periodic(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *ExportWorker) periodic(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.export(ctx, TriggerPeriodic); err != nil {
				w.logger.ErrorContext(ctx, "Periodic export failed", applog.FieldError, err)
			}
		}
	}
}

func (w *ExportWorker) export(ctx context.Context, trigger string, collections ...string) error {
	err := w.exporter.Export(ctx, collections...)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.ExportRuns.WithLabelValues(trigger, outcome).Inc()
	return err
}
