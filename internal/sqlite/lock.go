package sqlite

import (
	"github.com/gofrs/flock"
	"github.com/myrjola/roteiros/internal/errors"
	"log/slog"
	"strings"
)

// ErrLocked is returned when another process already holds the writer lock of the database.
var ErrLocked = errors.NewSentinel("database is locked by another process")

// WriterLock guards a database file against concurrent writer processes.
type WriterLock struct {
	lock *flock.Flock
}

// AcquireWriterLock takes an exclusive lock next to the database file at url.
//
// In-memory databases are private to the process, so the returned lock is a no-op for them. ErrLocked is returned
// when another process holds the lock.
func AcquireWriterLock(url string) (*WriterLock, error) {
	if strings.Contains(url, ":memory:") {
		return &WriterLock{lock: nil}, nil
	}
	path := strings.TrimPrefix(url, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Wrap(err, "try lock", slog.String("path", lock.Path()))
	}
	if !locked {
		return nil, errors.Wrap(ErrLocked, "acquire writer lock", slog.String("path", lock.Path()))
	}
	return &WriterLock{lock: lock}, nil
}

// Release unlocks the database file.
func (l *WriterLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return errors.Wrap(l.lock.Unlock(), "unlock", slog.String("path", l.lock.Path()))
}
