package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"financas/internal/amqp"
	"financas/internal/metrics"
)

type fakeExporter struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (f *fakeExporter) Export(_ context.Context, collections ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, collections)
	return f.err
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeConsumer delivers its messages then blocks until cancelled.
type fakeConsumer struct {
	msgs    []*amqp.ChangeMessage
	results chan error
}

func (f *fakeConsumer) Consume(ctx context.Context, handler func(context.Context, *amqp.ChangeMessage) error) error {
	for _, m := range f.msgs {
		f.results <- handler(ctx, m)
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestHandleChangeExportsCollections(t *testing.T) {
	exp := &fakeExporter{}
	w := NewExportWorker(exp, 0, nil)
	before := testutil.ToFloat64(metrics.ExportRuns.WithLabelValues(TriggerNotification, "ok"))

	if err := w.HandleChange(context.Background(), amqp.NewChangeMessage("expenses", "banks")); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if len(exp.calls) != 1 || len(exp.calls[0]) != 2 || exp.calls[0][0] != "expenses" {
		t.Fatalf("calls = %v", exp.calls)
	}
	if got := testutil.ToFloat64(metrics.ExportRuns.WithLabelValues(TriggerNotification, "ok")); got != before+1 {
		t.Errorf("export runs = %v, want %v", got, before+1)
	}
}

func TestHandleChangeReturnsExportError(t *testing.T) {
	exp := &fakeExporter{err: errors.New("quota exceeded")}
	w := NewExportWorker(exp, 0, nil)
	before := testutil.ToFloat64(metrics.ExportRuns.WithLabelValues(TriggerNotification, "error"))

	if err := w.HandleChange(context.Background(), amqp.NewChangeMessage("taxes")); err == nil {
		t.Fatal("expected error to requeue the message")
	}
	if got := testutil.ToFloat64(metrics.ExportRuns.WithLabelValues(TriggerNotification, "error")); got != before+1 {
		t.Errorf("error runs = %v, want %v", got, before+1)
	}
}

func TestRunExportsOnStartupAndNotification(t *testing.T) {
	exp := &fakeExporter{}
	w := NewExportWorker(exp, 0, nil)
	consumer := &fakeConsumer{
		msgs:    []*amqp.ChangeMessage{amqp.NewChangeMessage("movements")},
		results: make(chan error, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, consumer) }()

	select {
	case err := <-consumer.results:
		if err != nil {
			t.Fatalf("handler error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not handled")
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run returned %v, want nil after cancel", err)
	}
	if exp.count() != 2 {
		t.Fatalf("exports = %d, want startup plus notification", exp.count())
	}
	if len(exp.calls[0]) != 0 {
		t.Errorf("startup export should cover every collection, got %v", exp.calls[0])
	}
}

func TestRunPeriodicWithoutConsumer(t *testing.T) {
	exp := &fakeExporter{}
	w := NewExportWorker(exp, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()

	deadline := time.Now().Add(2 * time.Second)
	for exp.count() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if exp.count() < 3 {
		t.Fatalf("exports = %d, want startup plus periodic runs", exp.count())
	}
}
