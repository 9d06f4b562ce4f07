package repository

import (
	"fmt"

	"github.com/alexanderramin/timeline/internal/domain"
)

// ErrNotFound is returned when a lookup or update matches no row. It also
// matches domain.ErrNotFound.
var ErrNotFound = fmt.Errorf("record %w", domain.ErrNotFound)
