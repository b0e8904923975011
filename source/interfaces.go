package source

import (
	"context"

	"github.com/codemet/dora/core"
)

// DocumentSource enumerates and fetches documents from a remote store.
type DocumentSource interface {
	// ListFolder returns the folder's direct children: documents with
	// supported MIME types plus subfolders (IsFolder true). It does not
	// recurse; the caller drives traversal.
	ListFolder(ctx context.Context, folderID string) ([]core.DocumentInfo, error)

	// Fetch downloads one document. It returns the raw bytes and the
	// effective MIME type of those bytes, which differs from the
	// document's own type when the backend exported it as text.
	Fetch(ctx context.Context, documentID, mimeType string) ([]byte, string, error)
}
