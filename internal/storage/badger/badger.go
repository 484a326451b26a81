// Package badger keeps the claim id in an on-disk BadgerDB so the last
// claim survives restarts.
package badger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	badgerv3 "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/Layr-Labs/disputectl/internal/storage"
)

type Config struct {
	Dir      string
	InMemory bool

	// Logger receives badger's own warnings and errors. Optional.
	Logger *zap.Logger
}

type BadgerClaimStore struct {
	mu sync.RWMutex
	db *badgerv3.DB // nil after Close
}

func NewBadgerClaimStore(cfg *Config) (*BadgerClaimStore, error) {
	if cfg == nil {
		return nil, errors.New("badger config is nil")
	}

	var opts badgerv3.Options
	switch {
	case cfg.InMemory:
		opts = badgerv3.DefaultOptions("").WithInMemory(true)
	case cfg.Dir != "":
		opts = badgerv3.DefaultOptions(cfg.Dir)
	default:
		return nil, errors.New("badger directory is required")
	}
	opts = opts.WithLogger(nil)
	if cfg.Logger != nil {
		opts = opts.WithLogger(zapBadgerLogger{cfg.Logger.Named("badger").Sugar()})
	}

	db, err := badgerv3.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &BadgerClaimStore{db: db}, nil
}

// view and update run fn against the open database, or fail with
// ErrStoreClosed.
func (s *BadgerClaimStore) view(fn func(txn *badgerv3.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return storage.ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *BadgerClaimStore) update(fn func(txn *badgerv3.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return storage.ErrStoreClosed
	}
	return s.db.Update(fn)
}

func (s *BadgerClaimStore) SaveClaimID(_ context.Context, id uint64) error {
	err := s.update(func(txn *badgerv3.Txn) error {
		return txn.Set([]byte(storage.ClaimIDKey), strconv.AppendUint(nil, id, 10))
	})
	if err != nil && !errors.Is(err, storage.ErrStoreClosed) {
		return fmt.Errorf("failed to save claim id: %w", err)
	}
	return err
}

func (s *BadgerClaimStore) LoadClaimID(_ context.Context) (uint64, error) {
	var raw []byte
	err := s.view(func(txn *badgerv3.Txn) error {
		item, err := txn.Get([]byte(storage.ClaimIDKey))
		if errors.Is(err, badgerv3.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load claim id: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stored claim id %q is not a number: %w", raw, err)
	}
	return id, nil
}

// Close is idempotent.
func (s *BadgerClaimStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	return db.Close()
}

// zapBadgerLogger adapts zap to badger.Logger. Badger's info and debug
// chatter is demoted to debug.
type zapBadgerLogger struct {
	s *zap.SugaredLogger
}

func (l zapBadgerLogger) Errorf(f string, args ...interface{})   { l.s.Errorf(f, args...) }
func (l zapBadgerLogger) Warningf(f string, args ...interface{}) { l.s.Warnf(f, args...) }
func (l zapBadgerLogger) Infof(f string, args ...interface{})    { l.s.Debugf(f, args...) }
func (l zapBadgerLogger) Debugf(f string, args ...interface{})   { l.s.Debugf(f, args...) }
