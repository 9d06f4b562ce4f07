// Package reconcile applies move, resize and edit mutations optimistically to
// the entity store, sends them to the remote update sink, and reconciles the
// response or rolls the optimistic write back.
//
// Mutations are two-phase so that callers on a UI loop never block on the
// remote round trip: Begin* writes the store and returns a Mutation, the
// Mutation's Send may run on any goroutine, and Settle must run back on the
// goroutine that owns the store.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/timeline/internal/domain"
)

// UpdateSink is the remote store's update endpoint.
type UpdateSink interface {
	Update(ctx context.Context, kind domain.Kind, id int, e domain.Entity) (domain.Entity, error)
}

// Store is the part of the entity store the reconciler reads and writes.
type Store interface {
	Get(key domain.RowKey) (domain.Entity, bool)
	Upsert(e domain.Entity)
}

// Metrics receives one observation per finished mutation.
type Metrics interface {
	RecordMutation(ctx context.Context, op, status string, latency time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordMutation(context.Context, string, string, time.Duration) {}

// Reconciler is the single writer of the entity store. It is not safe for
// concurrent use; only Mutation.Send may run elsewhere.
type Reconciler struct {
	store   Store
	sink    UpdateSink
	logger  *slog.Logger
	metrics Metrics

	// gen counts issued mutations per entity. A failed response rolls back
	// only when it belongs to the newest mutation.
	gen map[domain.RowKey]uint64
	// confirmed is the last value known to be in the remote store, kept while
	// mutations for the entity are in flight.
	confirmed map[domain.RowKey]domain.Entity
	inflight  map[domain.RowKey]int
}

// Option configures a Reconciler.
type Option func(*Reconciler)

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.metrics = m
		}
	}
}

// New creates a reconciler over store that sends updates to sink.
func New(store Store, sink UpdateSink, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:     store,
		sink:      sink,
		logger:    slog.New(slog.DiscardHandler),
		metrics:   noopMetrics{},
		gen:       make(map[domain.RowKey]uint64),
		confirmed: make(map[domain.RowKey]domain.Entity),
		inflight:  make(map[domain.RowKey]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mutation is an optimistically applied change awaiting the remote response.
type Mutation struct {
	ID   string
	Op   Op
	Key  domain.RowKey
	Next domain.Entity

	gen  uint64
	sink UpdateSink
}

// Response is the result of Mutation.Send, to be passed to Settle.
type Response struct {
	Mutation *Mutation
	Entity   domain.Entity
	Err      error
	Latency  time.Duration
}

// Send performs the remote update. It does not touch the store.
func (m *Mutation) Send(ctx context.Context) Response {
	start := time.Now()
	got, err := m.sink.Update(ctx, m.Key.Kind, m.Key.ID, m.Next.Clone())
	return Response{Mutation: m, Entity: got, Err: err, Latency: time.Since(start)}
}

// BeginMove translates the entity's dates so that it starts on the calendar
// day of start. The number of days between start and end is preserved.
func (r *Reconciler) BeginMove(key domain.RowKey, start time.Time) (*Mutation, Outcome) {
	cur, out, ok := r.lookup(OpMove, key)
	if !ok {
		return nil, out
	}
	if start.IsZero() {
		return nil, r.reject(OpMove, key, StatusInvalidPatch,
			fmt.Errorf("%w: move target is required", domain.ErrValidation))
	}
	next := cur.Clone()
	next.StartDate = domain.DateOf(start)
	next.EndDate = next.StartDate.AddDate(0, 0, daysBetween(cur.StartDate, cur.EndDate))
	return r.begin(OpMove, cur, next)
}

// BeginResize moves one edge of the entity to the calendar day of at,
// leaving the other edge unchanged.
func (r *Reconciler) BeginResize(key domain.RowKey, edge domain.ResizeEdge, at time.Time) (*Mutation, Outcome) {
	cur, out, ok := r.lookup(OpResize, key)
	if !ok {
		return nil, out
	}
	if !edge.Valid() || at.IsZero() {
		return nil, r.reject(OpResize, key, StatusInvalidPatch,
			fmt.Errorf("%w: resize needs an edge and a target date", domain.ErrValidation))
	}
	next := cur.Clone()
	switch edge {
	case domain.EdgeLeft:
		next.StartDate = domain.DateOf(at)
	case domain.EdgeRight:
		next.EndDate = domain.DateOf(at)
	}
	if next.StartDate.After(next.EndDate) {
		return nil, r.reject(OpResize, key, StatusInvalidPatch,
			fmt.Errorf("%w: resize would put start %s after end %s", domain.ErrValidation,
				domain.FormatDate(next.StartDate), domain.FormatDate(next.EndDate)))
	}
	return r.begin(OpResize, cur, next)
}

// BeginEdit validates patch for the key's kind and applies it. An invalid
// patch never reaches the sink.
func (r *Reconciler) BeginEdit(key domain.RowKey, patch domain.Patch) (*Mutation, Outcome) {
	if !key.Kind.Valid() || key.ID <= 0 {
		return nil, r.reject(OpEdit, key, StatusInvalidPatch,
			fmt.Errorf("%w: %q", domain.ErrMalformedRowKey, key.String()))
	}
	if err := patch.Validate(key.Kind); err != nil {
		return nil, r.reject(OpEdit, key, StatusInvalidPatch, err)
	}
	cur, out, ok := r.lookup(OpEdit, key)
	if !ok {
		return nil, out
	}
	next := patch.ApplyTo(cur)
	if err := next.Validate(); err != nil {
		return nil, r.reject(OpEdit, key, StatusInvalidPatch, err)
	}
	return r.begin(OpEdit, cur, next)
}

// Settle reconciles a response into the store. A success always overwrites
// the local value. A failure restores the last confirmed value unless a newer
// mutation for the same entity has been issued since.
func (r *Reconciler) Settle(resp Response) Outcome {
	m := resp.Mutation
	latest := r.gen[m.Key] == m.gen
	out := Outcome{Op: m.Op, Key: m.Key, MutationID: m.ID, Latency: resp.Latency}

	if resp.Err == nil {
		got := resp.Entity.Clone()
		got.Kind, got.ID = m.Key.Kind, m.Key.ID
		r.store.Upsert(got)
		r.confirmed[m.Key] = got.Clone()
		out.Status, out.Entity = StatusOK, got
	} else {
		var remote *domain.RemoteError
		if !errors.As(resp.Err, &remote) {
			remote = &domain.RemoteError{Key: m.Key, Payload: resp.Err.Error(), Err: resp.Err}
		}
		out.Status, out.Err = StatusRemoteRejected, remote
		if prior, ok := r.confirmed[m.Key]; ok && latest {
			r.store.Upsert(prior)
			out.RolledBack = true
		}
		out.Entity, _ = r.store.Get(m.Key)
	}

	r.inflight[m.Key]--
	if r.inflight[m.Key] <= 0 {
		delete(r.inflight, m.Key)
		delete(r.confirmed, m.Key)
	}
	r.finish(out)
	return out
}

// ApplyMove runs BeginMove, Send and Settle inline.
func (r *Reconciler) ApplyMove(ctx context.Context, key domain.RowKey, start time.Time) Outcome {
	return r.apply(ctx)(r.BeginMove(key, start))
}

// ApplyResize runs BeginResize, Send and Settle inline.
func (r *Reconciler) ApplyResize(ctx context.Context, key domain.RowKey, edge domain.ResizeEdge, at time.Time) Outcome {
	return r.apply(ctx)(r.BeginResize(key, edge, at))
}

// ApplyEdit runs BeginEdit, Send and Settle inline.
func (r *Reconciler) ApplyEdit(ctx context.Context, key domain.RowKey, patch domain.Patch) Outcome {
	return r.apply(ctx)(r.BeginEdit(key, patch))
}

// Pending reports the number of unsettled mutations for key.
func (r *Reconciler) Pending(key domain.RowKey) int {
	return r.inflight[key]
}

func (r *Reconciler) apply(ctx context.Context) func(*Mutation, Outcome) Outcome {
	return func(m *Mutation, out Outcome) Outcome {
		if m == nil {
			return out
		}
		return r.Settle(m.Send(ctx))
	}
}

func (r *Reconciler) lookup(op Op, key domain.RowKey) (domain.Entity, Outcome, bool) {
	cur, ok := r.store.Get(key)
	if !ok {
		return domain.Entity{}, r.reject(op, key, StatusNotFound,
			fmt.Errorf("%s: %w", key, domain.ErrNotFound)), false
	}
	return cur, Outcome{}, true
}

func (r *Reconciler) begin(op Op, cur, next domain.Entity) (*Mutation, Outcome) {
	key := cur.Key()
	if r.inflight[key] == 0 {
		r.confirmed[key] = cur.Clone()
	}
	r.inflight[key]++
	r.gen[key]++

	m := &Mutation{
		ID:   uuid.NewString(),
		Op:   op,
		Key:  key,
		Next: next.Clone(),
		gen:  r.gen[key],
		sink: r.sink,
	}
	r.store.Upsert(next)
	r.logger.Debug("mutation_issued", "mutation_id", m.ID, "op", op.String(), "row_key", key.String())
	return m, Outcome{Status: StatusOK, Op: op, Key: key, MutationID: m.ID, Entity: next, Pending: true}
}

func (r *Reconciler) reject(op Op, key domain.RowKey, status Status, err error) Outcome {
	out := Outcome{Status: status, Op: op, Key: key, Err: err}
	r.finish(out)
	return out
}

func (r *Reconciler) finish(out Outcome) {
	ctx := context.Background()
	r.metrics.RecordMutation(ctx, out.Op.String(), out.Status.String(), out.Latency)

	attrs := []any{
		"op", out.Op.String(),
		"row_key", out.Key.String(),
		"status", out.Status.String(),
	}
	if out.MutationID != "" {
		attrs = append(attrs, "mutation_id", out.MutationID, "duration_ms", out.Latency.Milliseconds())
	}
	switch out.Status {
	case StatusOK:
		r.logger.DebugContext(ctx, "mutation_settled", attrs...)
	case StatusRemoteRejected:
		attrs = append(attrs, "rolled_back", out.RolledBack)
		var remote *domain.RemoteError
		if errors.As(out.Err, &remote) && remote.Payload != "" {
			attrs = append(attrs, "payload", remote.Payload)
		} else {
			attrs = append(attrs, "error", out.Err.Error())
		}
		r.logger.ErrorContext(ctx, "mutation_rejected", attrs...)
	default:
		attrs = append(attrs, "error", out.Err.Error())
		r.logger.WarnContext(ctx, "mutation_refused", attrs...)
	}
}

// daysBetween counts calendar days from a to b. Dates are UTC midnights, so
// the difference is a whole number of days.
func daysBetween(a, b time.Time) int {
	return int(domain.DateOf(b).Sub(domain.DateOf(a)).Round(time.Hour).Hours() / 24)
}
