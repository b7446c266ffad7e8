// Package store keeps the last computed route plan in a badger database so the server can
// serve it again when the solver cannot produce a new one.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"routemap/internal/geom"
)

const latestKey = "routes:latest"

// Snapshot is one solver run.
type Snapshot struct {
	Routes    geom.RouteSet `json:"routes"`
	Addresses int           `json:"addresses"`
	Objective int           `json:"objective"`
	CreatedAt time.Time     `json:"created_at"`
}

type RouteStore struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir. An empty dir opens an in-memory store.
func Open(dir string) (*RouteStore, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.ZSTDCompressionLevel = 2
	opts.NumLevelZeroTables = 1
	opts.NumVersionsToKeep = 1
	opts.CompactL0OnClose = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open route store: %w", err)
	}
	return &RouteStore{db: db}, nil
}

func (s *RouteStore) Close() error { return s.db.Close() }

// PutLatest replaces the stored snapshot.
func (s *RouteStore) PutLatest(snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(latestKey), data)
	})
}

// Latest returns the stored snapshot, or false when nothing has been stored yet.
func (s *RouteStore) Latest() (snap Snapshot, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(val, &snap)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}
