package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/timeline/internal/domain"
)

// SinkCall records one Update received by a FakeSink.
type SinkCall struct {
	Kind   domain.Kind
	ID     int
	Entity domain.Entity
}

// FakeSink is an in-memory remote update sink. By default it echoes the
// submitted entity back as the authoritative value. Set Err (or ErrFor a
// specific row-key) to reject updates, or Respond to rewrite the response.
type FakeSink struct {
	mu      sync.Mutex
	calls   []SinkCall
	Err     error
	ErrFor  map[domain.RowKey]error
	Respond func(domain.Entity) domain.Entity
}

func (f *FakeSink) Update(ctx context.Context, kind domain.Kind, id int, e domain.Entity) (domain.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, SinkCall{Kind: kind, ID: id, Entity: e.Clone()})

	if err := ctx.Err(); err != nil {
		return domain.Entity{}, err
	}
	if err, ok := f.ErrFor[domain.RowKey{Kind: kind, ID: id}]; ok {
		return domain.Entity{}, err
	}
	if f.Err != nil {
		return domain.Entity{}, f.Err
	}
	if f.Respond != nil {
		return f.Respond(e.Clone()), nil
	}
	return e.Clone(), nil
}

// Calls returns a snapshot of the updates received so far.
func (f *FakeSink) Calls() []SinkCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SinkCall, len(f.calls))
	copy(out, f.calls)
	return out
}
