// Package services holds the Ledger, the only component allowed to read or
// write the five persisted collections. It keeps bank balances consistent
// with payments, reversals, movements and cascading deletes.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"financas/internal/core"
	applog "financas/internal/log"
	"financas/internal/metrics"
	"financas/internal/storage"
)

// Notifier is told which collections changed after a successful write.
type Notifier interface {
	NotifyChanged(ctx context.Context, collections ...string) error
}

// Ledger serializes every operation through one mutex. Each operation
// re-reads the collections it needs from the store before mutating them.
type Ledger struct {
	mu       sync.Mutex
	store    storage.Store
	clock    func() time.Time
	newID    func() string
	logger   *applog.Logger
	notifier Notifier

	// changed collects the keys written while mu is held. Concurrent loads
	// inside one operation may add to it, hence its own lock.
	changedMu sync.Mutex
	changed   []string
}

type Option func(*Ledger)

// WithClock overrides the source of "today" for paid dates and suggestions.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) { l.clock = clock }
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

func WithLogger(logger *applog.Logger) Option {
	return func(l *Ledger) { l.logger = logger.WithComponent(applog.ComponentLedger) }
}

// WithNotifier publishes change notifications after every operation that
// wrote something. The notifier runs after the ledger lock is released.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

func NewLedger(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		clock:  time.Now,
		newID:  uuid.NewString,
		logger: applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) today() core.Date {
	return core.DateOf(l.clock())
}

func (l *Ledger) observe(op string, started time.Time, err error) {
	metrics.ObserveLedger(op, core.Kind(err), started)
	if err != nil {
		l.logger.Debug("Ledger operation failed",
			applog.FieldOperation, op,
			applog.FieldErrorKind, core.Kind(err),
			applog.FieldError, err)
	}
}

// write is one collection to persist.
type write struct {
	key   string
	value any
}

// persist stores the given collections. When the store supports batches they
// are committed together; otherwise they are written in order and a failure
// leaves the earlier writes in place.
func (l *Ledger) persist(ctx context.Context, writes ...write) error {
	encoded := make([]json.RawMessage, len(writes))
	for i, w := range writes {
		b, err := json.Marshal(w.value)
		if err != nil {
			return fmt.Errorf("encode %s: %w: %w", w.key, core.ErrStorage, err)
		}
		encoded[i] = b
	}

	if bs, ok := l.store.(storage.BatchSetter); ok && len(writes) > 1 {
		values := make(map[string]json.RawMessage, len(writes))
		for i, w := range writes {
			values[w.key] = encoded[i]
		}
		if err := bs.SetMany(ctx, values); err != nil {
			return fmt.Errorf("save %s: %w: %w", keysOf(writes), core.ErrStorage, err)
		}
	} else {
		for i, w := range writes {
			if err := l.store.Set(ctx, w.key, encoded[i]); err != nil {
				return fmt.Errorf("save %s: %w: %w", w.key, core.ErrStorage, err)
			}
		}
	}

	l.queueNotify(keysOf(writes)...)
	return nil
}

// lock acquires the ledger mutex. The returned func releases it and then
// publishes the collections written in between, so a slow broker never
// holds up other operations.
func (l *Ledger) lock(ctx context.Context) func() {
	l.mu.Lock()
	return func() {
		l.changedMu.Lock()
		keys := l.changed
		l.changed = nil
		l.changedMu.Unlock()
		l.mu.Unlock()

		if len(keys) > 0 {
			l.notify(ctx, keys...)
		}
	}
}

func (l *Ledger) queueNotify(keys ...string) {
	l.changedMu.Lock()
	defer l.changedMu.Unlock()
	for _, k := range keys {
		if !slices.Contains(l.changed, k) {
			l.changed = append(l.changed, k)
		}
	}
}

func (l *Ledger) notify(ctx context.Context, keys ...string) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.NotifyChanged(ctx, keys...); err != nil {
		// Data is already saved; the export catches up on its next run.
		l.logger.WarnContext(ctx, "Failed to publish change notification",
			applog.FieldCollection, strings.Join(keys, ","),
			applog.FieldError, err)
	}
}

func keysOf(writes []write) []string {
	keys := make([]string, len(writes))
	for i, w := range writes {
		keys[i] = w.key
	}
	return keys
}

// loadRecords reads one collection. Absent keys and values that are not
// arrays read as empty; malformed JSON is a storage error. repair is called on
// every record and, when any record changed or a null entry was dropped, the
// fixed collection is written back.
func loadRecords[T any](ctx context.Context, l *Ledger, key string, repair func(*T) bool) ([]T, error) {
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w: %w", key, core.ErrStorage, err)
	}
	if !ok {
		return []T{}, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("load %s: %w: malformed JSON", key, core.ErrStorage)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		l.logger.WarnContext(ctx, "Stored collection is not a list, reading as empty", applog.FieldCollection, key)
		return []T{}, nil
	}

	var ptrs []*T
	if err := json.Unmarshal(raw, &ptrs); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", key, core.ErrStorage, err)
	}

	records := make([]T, 0, len(ptrs))
	repaired := 0
	for _, p := range ptrs {
		if p == nil {
			repaired++
			continue
		}
		if repair != nil && repair(p) {
			repaired++
		}
		records = append(records, *p)
	}

	if repaired > 0 {
		metrics.RecordsRepaired.WithLabelValues(key).Add(float64(repaired))
		l.logger.InfoContext(ctx, "Repaired stored records",
			applog.FieldOperation, applog.OpRepair,
			applog.FieldCollection, key,
			applog.FieldCount, repaired)
		if err := l.persist(ctx, write{key, records}); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (l *Ledger) ensureID(id *string) bool {
	if strings.TrimSpace(*id) != "" {
		return false
	}
	*id = l.newID()
	return true
}

func (l *Ledger) loadBanks(ctx context.Context) ([]core.Bank, error) {
	return loadRecords(ctx, l, core.KeyBanks, func(b *core.Bank) bool {
		return l.ensureID(&b.ID)
	})
}

func (l *Ledger) loadExpenses(ctx context.Context) ([]core.Expense, error) {
	return loadRecords(ctx, l, core.KeyExpenses, func(e *core.Expense) bool {
		fixed := l.ensureID(&e.ID)
		return core.RepairExpense(e) || fixed
	})
}

func (l *Ledger) loadMovements(ctx context.Context) ([]core.Movement, error) {
	return loadRecords(ctx, l, core.KeyMovements, func(m *core.Movement) bool {
		return l.ensureID(&m.ID)
	})
}

func (l *Ledger) loadInvestments(ctx context.Context) ([]core.Investment, error) {
	return loadRecords(ctx, l, core.KeyInvestments, func(i *core.Investment) bool {
		return l.ensureID(&i.ID)
	})
}

func (l *Ledger) loadTaxes(ctx context.Context) ([]core.Tax, error) {
	return loadRecords(ctx, l, core.KeyTaxes, func(t *core.Tax) bool {
		fixed := l.ensureID(&t.ID)
		return core.RepairTax(t) || fixed
	})
}

// sortByDateDesc orders records most recent first. Records sharing a date keep
// their stored order.
func sortByDateDesc[T any](records []T, date func(T) core.Date) []T {
	out := make([]T, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return date(out[i]).After(date(out[j]).Time)
	})
	return out
}

func indexOf[T any](records []T, match func(T) bool) int {
	for i, r := range records {
		if match(r) {
			return i
		}
	}
	return -1
}

func principalIndex(banks []core.Bank) int {
	return indexOf(banks, func(b core.Bank) bool { return b.IsPrincipal })
}

// normalizedInput is implemented by every add input.
type normalizedInput interface {
	Normalize()
}

func prepare(in normalizedInput) error {
	in.Normalize()
	return core.Validate(in)
}

func notFound(collection, id string) error {
	return fmt.Errorf("%s %q: %w", collection, id, core.ErrNotFound)
}
