package storage

import (
	"context"

	"github.com/codemet/dora/core"
)

// DocumentRepository tracks ingested documents per tenant.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// Put stores or replaces a document record.
	Put(ctx context.Context, tenantID string, record *core.DocumentRecord) error

	// Get retrieves a document record.
	// Returns ErrNotFound if the document was never ingested.
	Get(ctx context.Context, tenantID, documentID string) (*core.DocumentRecord, error)

	// Delete removes a document record.
	// Deleting a missing record is not an error.
	Delete(ctx context.Context, tenantID, documentID string) error

	// List returns all document records for a tenant.
	List(ctx context.Context, tenantID string) ([]*core.DocumentRecord, error)

	// FilterNew partitions candidates into documents not yet ingested
	// and already-known duplicates, judged by document ID. Input order
	// is preserved within each partition.
	FilterNew(ctx context.Context, tenantID string, candidates []core.DocumentInfo) (fresh, duplicates []core.DocumentInfo, err error)

	// Purge removes every record belonging to the tenant.
	Purge(ctx context.Context, tenantID string) error

	// Close closes the storage backend and releases resources.
	Close() error
}
