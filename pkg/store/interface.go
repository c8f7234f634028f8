package store

import (
	"errors"

	"github.com/voidshard/budget/pkg/domain"
)

// ErrCorrupt is returned (wrapped) by Read when stored content can't be
// decoded into a snapshot.
var ErrCorrupt = errors.New("stored ledger is corrupt")

// Store persists whole ledger snapshots. Read returns an empty snapshot when
// nothing has been written yet; Write replaces whatever was stored.
type Store interface {
	Read() (*domain.Snapshot, error)
	Write(*domain.Snapshot) error
	Close() error
}
