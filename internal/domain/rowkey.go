package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// RowKey identifies one renderable timeline line. It is the tagged form of
// the "project-<id>" / "task-<id>" strings: the kind is resolved once when
// the key is parsed and never re-sniffed from the numeric id.
type RowKey struct {
	Kind Kind
	ID   int
}

// ProjectKey returns the row-key for project id.
func ProjectKey(id int) RowKey { return RowKey{Kind: KindProject, ID: id} }

// TaskKey returns the row-key for task id.
func TaskKey(id int) RowKey { return RowKey{Kind: KindTask, ID: id} }

// ParseRowKey parses "project-<id>" or "task-<id>".
func ParseRowKey(s string) (RowKey, error) {
	prefix, num, ok := strings.Cut(s, "-")
	if !ok {
		return RowKey{}, fmt.Errorf("%w: %q", ErrMalformedRowKey, s)
	}
	kind := Kind(prefix)
	if !kind.Valid() {
		return RowKey{}, fmt.Errorf("%w: unknown kind in %q", ErrMalformedRowKey, s)
	}
	// Only the canonical spelling is accepted, so keys round-trip through
	// String.
	id, err := strconv.Atoi(num)
	if err != nil || id <= 0 || strconv.Itoa(id) != num {
		return RowKey{}, fmt.Errorf("%w: bad id in %q", ErrMalformedRowKey, s)
	}
	return RowKey{Kind: kind, ID: id}, nil
}

func (k RowKey) String() string {
	if k.IsZero() {
		return ""
	}
	return string(k.Kind) + "-" + strconv.Itoa(k.ID)
}

// IsZero reports whether k is the empty key (e.g. a depth-0 row's parent).
func (k RowKey) IsZero() bool {
	return k.Kind == "" && k.ID == 0
}

// IsProject reports whether k addresses the project namespace.
func (k RowKey) IsProject() bool { return k.Kind == KindProject }

// IsTask reports whether k addresses the task namespace.
func (k RowKey) IsTask() bool { return k.Kind == KindTask }

func (k RowKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RowKey) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = RowKey{}
		return nil
	}
	parsed, err := ParseRowKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
