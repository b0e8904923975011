// Copyright 2025 Codemet
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/codemet/dora/core"
	"github.com/codemet/dora/storage"
)

// DocumentRepository implements storage.DocumentRepository on a Backend.
type DocumentRepository struct {
	backend *Backend
	logger  *slog.Logger
}

// NewDocumentRepository creates a repository over an open backend.
//
// Returns storage.DocumentRepository interface to enforce abstraction.
func NewDocumentRepository(backend *Backend) storage.DocumentRepository {
	return &DocumentRepository{
		backend: backend,
		logger:  slog.Default().With("component", "document-registry"),
	}
}

// Open opens a BadgerDB-backed repository at path. inMemory skips disk
// entirely, for tests.
func Open(path string, inMemory bool) (storage.DocumentRepository, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	return NewDocumentRepository(backend), nil
}

// Put stores or replaces a document record.
func (r *DocumentRepository) Put(ctx context.Context, tenantID string, record *core.DocumentRecord) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}
	if record.ID == "" {
		return core.ErrEmptyDocumentID
	}

	data := storage.MarshalDocumentRecord(record)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeDocumentKey(tenantID, record.ID), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.logger.Debug("stored document record",
		"tenant", tenantID, "document", record.ID, "chunks", record.ChunkCount)
	return nil
}

// Get retrieves a document record, or storage.ErrNotFound.
func (r *DocumentRepository) Get(ctx context.Context, tenantID, documentID string) (*core.DocumentRecord, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if documentID == "" {
		return nil, core.ErrEmptyDocumentID
	}

	var record *core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(tenantID, documentID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalDocumentRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a document record. Missing records are a no-op.
func (r *DocumentRepository) Delete(ctx context.Context, tenantID, documentID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}
	if documentID == "" {
		return core.ErrEmptyDocumentID
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeDocumentKey(tenantID, documentID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// List returns every record for the tenant.
func (r *DocumentRepository) List(ctx context.Context, tenantID string) ([]*core.DocumentRecord, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	var records []*core.DocumentRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.UnmarshalDocumentRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FilterNew partitions candidates into not-yet-ingested and known
// documents by registry lookup.
func (r *DocumentRepository) FilterNew(ctx context.Context, tenantID string, candidates []core.DocumentInfo) (fresh, duplicates []core.DocumentInfo, err error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, nil, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, candidate := range candidates {
			_, err := tx.Get(makeDocumentKey(tenantID, candidate.ID))
			switch {
			case err == nil:
				duplicates = append(duplicates, candidate)
			case errors.Is(err, badger.ErrKeyNotFound):
				fresh = append(fresh, candidate)
			default:
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, nil, err
	}

	r.logger.Debug("filtered candidates",
		"tenant", tenantID, "total", len(candidates), "new", len(fresh), "duplicates", len(duplicates))
	return fresh, duplicates, nil
}

// Purge removes every record belonging to the tenant.
func (r *DocumentRepository) Purge(ctx context.Context, tenantID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}

	// Collect keys first; deleting while iterating invalidates the
	// iterator's view.
	var keys [][]byte
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTenantPrefix(tenantID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	r.logger.Info("purged tenant registry", "tenant", tenantID, "records", len(keys))
	return nil
}

// Close closes the underlying backend.
func (r *DocumentRepository) Close() error {
	return r.backend.Close()
}
