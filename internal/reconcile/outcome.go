package reconcile

import (
	"time"

	"github.com/alexanderramin/timeline/internal/domain"
)

// Op names the kind of mutation.
type Op int

const (
	OpMove Op = iota
	OpResize
	OpEdit
)

func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpResize:
		return "resize"
	case OpEdit:
		return "edit"
	}
	return "unknown"
}

// Status is the result class of a mutation.
type Status int

const (
	StatusOK Status = iota
	StatusInvalidPatch
	StatusNotFound
	StatusRemoteRejected
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInvalidPatch:
		return "invalid_patch"
	case StatusNotFound:
		return "not_found"
	case StatusRemoteRejected:
		return "remote_rejected"
	}
	return "unknown"
}

// Outcome is returned for every mutation instead of a bare error.
//
// For StatusOK, Entity is the value now in the store: the optimistic value
// while Pending, the authoritative response once settled. For
// StatusRemoteRejected, Entity is whatever the store holds after the
// response, which is the restored value when RolledBack is set.
type Outcome struct {
	Status     Status
	Op         Op
	Key        domain.RowKey
	MutationID string
	Entity     domain.Entity
	Err        error
	Pending    bool
	RolledBack bool
	Latency    time.Duration
}

// OK reports whether the mutation was accepted.
func (o Outcome) OK() bool { return o.Status == StatusOK }
