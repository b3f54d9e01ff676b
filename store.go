package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Store owns the durable representation of the ledger: one JSON document on
// disk. It performs no business rules, only reads and atomic writes.
//
// The engine runs as a single writer, but nothing prevents two invocations
// from overlapping in a cron-style deployment, so the store takes an advisory
// lock on a sidecar file held from Lock to Unlock (load through save).
type Store struct {
	path     string
	currency string
	lock     *os.File
}

// NewStore returns a store for the ledger document at path. Amounts read from
// the document are stamped with the given reporting currency.
func NewStore(path, currency string) *Store {
	return &Store{path: path, currency: currency}
}

// Path returns the location of the ledger document.
func (s *Store) Path() string { return s.path }

// Lock acquires an exclusive advisory lock guarding the ledger against a
// concurrent run. It blocks until the other writer finishes.
func (s *Store) Lock() error {
	f, err := os.OpenFile(s.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger lock: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return fmt.Errorf("locking ledger: %w", err)
	}
	s.lock = f
	return nil
}

// Unlock releases the advisory lock.
func (s *Store) Unlock() {
	if s.lock == nil {
		return
	}
	syscall.Flock(int(s.lock.Fd()), syscall.LOCK_UN)
	s.lock.Close()
	s.lock = nil
}

// Load materializes the full ledger in memory (realistic sizes are a few
// hundred positions at most, streaming would be gratuitous).
//
// A missing or unparsable document is ErrCorruptHistory unless the caller
// opted into bootstrap, in which case a missing document yields a fresh
// ledger funded with startingCash. An unparsable document is never silently
// replaced: bootstrap covers first runs, not data loss.
func (s *Store) Load(bootstrap bool, startingCash Money) (*Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if bootstrap {
			return NewLedger(startingCash), nil
		}
		return nil, fmt.Errorf("%w: no ledger at %q (bootstrap not enabled)", ErrCorruptHistory, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %q: %w", s.path, err)
	}
	defer f.Close()

	return DecodeLedger(f, s.currency)
}

// Save performs an atomic replace of the ledger document: write to a
// temporary file in the same directory, fsync, then rename over the old one.
// A crash mid-write leaves the previous valid document intact.
func (s *Store) Save(l *Ledger) error {
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp ledger file: %w", err)
	}
	if err := EncodeLedger(f, l); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing temp ledger file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp ledger file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing ledger file: %w", err)
	}
	return nil
}
