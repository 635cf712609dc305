package store

import (
	"context"
	"errors"
	"time"

	"github.com/driftlock/mfahub/internal/mfa/domain"
)

// ErrNotFound is returned when a requested row or record does not exist.
var ErrNotFound = errors.New("store: not found")

// ProfileStore serves the current UserRecord snapshot and owns invalidation.
// The rest of the service never writes records: commands go to the authority,
// then Invalidate forces the next Current call to refetch server truth.
type ProfileStore interface {
	Current(ctx context.Context, username string) (domain.UserRecord, error)
	Invalidate(ctx context.Context, username string) error
}

// JournalEntry records one dispatched command and its outcome.
type JournalEntry struct {
	ID        string
	Username  string
	Command   string // "disable_all_mfa", "disable_totp", "set_default_method"
	Factor    string // empty for the disable commands
	Outcome   string // "ok" or "error"
	Detail    string
	CreatedAt time.Time
}

// Journal is the append-only audit trail of dispatched commands.
type Journal interface {
	Append(ctx context.Context, entry JournalEntry) error
	Recent(ctx context.Context, limit int) ([]JournalEntry, error)
}

// Store is the persistent side of mfahub (currently just the journal).
type Store interface {
	Journal() Journal
	Ping(ctx context.Context) error
	Close() error
}
