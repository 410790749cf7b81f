// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
)

// ErrRevocationStoreClosed indicates the store has been closed.
var ErrRevocationStoreClosed = errors.New("revocation store is closed")

// RevocationEntry records one revoked token.
type RevocationEntry struct {
	JTI       string    `json:"jti"`
	TouristID string    `json:"sub"`
	RevokedAt time.Time `json:"revoked_at"`
	// ExpiresAt is the token's own expiry; after it the entry is irrelevant.
	ExpiresAt time.Time `json:"expires_at"`
}

// RevocationStore remembers revoked token ids until the tokens expire.
type RevocationStore interface {
	// Revoke marks entry.JTI as revoked until entry.ExpiresAt. Revoking an
	// already expired token is a no-op.
	Revoke(ctx context.Context, entry *RevocationEntry) error

	// IsRevoked reports whether jti has been revoked and has not yet expired.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// CleanupExpired drops entries past their expiry and returns how many
	// were removed.
	CleanupExpired(ctx context.Context) (int, error)

	Close() error
}

// MemoryRevocationStore keeps revocations in a map. Entries are lost on
// restart, which only re-admits tokens that a restart would not otherwise
// invalidate.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]*RevocationEntry
	closed  bool
	now     func() time.Time
}

// NewMemoryRevocationStore creates an empty in-memory store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]*RevocationEntry),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(ctx context.Context, entry *RevocationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		metrics.RevocationOperations.WithLabelValues("revoke", "failure").Inc()
		return ErrRevocationStoreClosed
	}
	now := s.now()
	if !entry.ExpiresAt.After(now) {
		return nil
	}

	stored := *entry
	stored.RevokedAt = now
	s.entries[entry.JTI] = &stored
	metrics.RevocationOperations.WithLabelValues("revoke", "success").Inc()
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrRevocationStoreClosed
	}
	entry, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	return s.now().Before(entry.ExpiresAt), nil
}

func (s *MemoryRevocationStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrRevocationStoreClosed
	}

	count := 0
	now := s.now()
	for jti, entry := range s.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(s.entries, jti)
			count++
		}
	}
	metrics.RevocationOperations.WithLabelValues("cleanup", "success").Inc()
	return count, nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}

// revocationKeyPrefix namespaces revocation keys inside the Badger database.
const revocationKeyPrefix = "revoked:"

// BadgerRevocationStore persists revocations in BadgerDB. Each entry is
// written with a TTL equal to the token's remaining lifetime so Badger expires
// it on its own; CleanupExpired runs value log GC to reclaim the space.
type BadgerRevocationStore struct {
	db     *badger.DB
	owned  bool
	mu     sync.RWMutex
	closed bool
	now    func() time.Time
}

// NewBadgerRevocationStore wraps an open Badger database. The caller keeps
// ownership of db.
func NewBadgerRevocationStore(db *badger.DB) *BadgerRevocationStore {
	return &BadgerRevocationStore{db: db, now: time.Now}
}

// OpenBadgerRevocationStore opens a Badger database at path and returns a
// store that closes it on Close.
func OpenBadgerRevocationStore(path string) (*BadgerRevocationStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open revocation store at %s: %w", path, err)
	}
	s := NewBadgerRevocationStore(db)
	s.owned = true
	return s, nil
}

func (s *BadgerRevocationStore) key(jti string) []byte {
	return []byte(revocationKeyPrefix + jti)
}

func (s *BadgerRevocationStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *BadgerRevocationStore) Revoke(ctx context.Context, entry *RevocationEntry) error {
	if s.isClosed() {
		metrics.RevocationOperations.WithLabelValues("revoke", "failure").Inc()
		return ErrRevocationStoreClosed
	}

	now := s.now()
	ttl := entry.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil
	}

	stored := *entry
	stored.RevokedAt = now
	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshal revocation: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(s.key(entry.JTI), data).WithTTL(ttl))
	})
	if err != nil {
		metrics.RevocationOperations.WithLabelValues("revoke", "failure").Inc()
		return fmt.Errorf("store revocation: %w", err)
	}
	metrics.RevocationOperations.WithLabelValues("revoke", "success").Inc()
	return nil
}

func (s *BadgerRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.isClosed() {
		return false, ErrRevocationStoreClosed
	}

	var revoked bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(jti))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var entry RevocationEntry
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return err
			}
			revoked = s.now().Before(entry.ExpiresAt)
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("lookup revocation: %w", err)
	}
	return revoked, nil
}

// CleanupExpired deletes entries whose token expiry has passed but whose
// Badger TTL has not yet fired, then runs value log GC until nothing is left
// to rewrite.
func (s *BadgerRevocationStore) CleanupExpired(ctx context.Context) (int, error) {
	if s.isClosed() {
		return 0, ErrRevocationStoreClosed
	}

	count := 0
	now := s.now()
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(revocationKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		var expired [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var entry RevocationEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				continue
			}
			if !now.Before(entry.ExpiresAt) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}

		for _, key := range expired {
			if err := txn.Delete(key); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		metrics.RevocationOperations.WithLabelValues("cleanup", "failure").Inc()
		return count, fmt.Errorf("cleanup revocations: %w", err)
	}

	for ctx.Err() == nil {
		if err := s.db.RunValueLogGC(0.5); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Revocation store value log GC failed")
			}
			break
		}
	}

	metrics.RevocationOperations.WithLabelValues("cleanup", "success").Inc()
	return count, nil
}

func (s *BadgerRevocationStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owned {
		return s.db.Close()
	}
	return nil
}

// NewRevocationStore builds the store selected by cfg.RevocationStore.
func NewRevocationStore(kind, path string) (RevocationStore, error) {
	switch kind {
	case "", "memory":
		return NewMemoryRevocationStore(), nil
	case "badger":
		return OpenBadgerRevocationStore(path)
	default:
		return nil, fmt.Errorf("unknown revocation store %q", kind)
	}
}
