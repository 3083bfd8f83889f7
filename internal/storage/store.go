// Copyright (c) 2025 The Dash developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage provides the badger-backed record store used by the
// wallet's ledger facade.
package storage

import (
	"errors"
	"fmt"

	"github.com/dashpay/dashwallet/wallet"
	badger "github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// Store is a wallet.Store backed by an embedded badger database.
type Store struct {
	db *badgerhold.Store
}

// A compile time check to ensure that Store implements the interface.
var _ wallet.Store = (*Store)(nil)

// Open opens (creating if needed) the record store in the given
// directory.
func Open(dir string) (*Store, error) {
	opts := badgerhold.DefaultOptions
	opts.Options = badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("unable to open record store: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get loads the record stored under key into out.
func (s *Store) Get(key string, out any) error {
	err := s.db.Get(key, out)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("%w: %s", wallet.ErrRecordNotFound, key)
	}

	return err
}

// Put stores record under key, replacing any previous record.
func (s *Store) Put(key string, record any) error {
	return s.db.Upsert(key, record)
}

// Delete removes the record of the given type stored under key. Deleting
// a missing record is not an error.
func (s *Store) Delete(key string, record any) error {
	err := s.db.Delete(key, record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}

	return err
}

// Query loads records matching q into out, which must be a pointer to a
// slice of the record type.
func (s *Store) Query(out any, q *wallet.RecordQuery) error {
	var query *badgerhold.Query
	if q.Field != "" {
		query = badgerhold.Where(q.Field).Eq(q.Equals)
	} else {
		query = &badgerhold.Query{}
	}

	if len(q.SortBy) > 0 {
		query = query.SortBy(q.SortBy...)
	}
	if q.Reverse {
		query = query.Reverse()
	}
	if q.Offset > 0 {
		query = query.Skip(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	return s.db.Find(out, query)
}
