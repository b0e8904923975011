package source

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/codemet/dora/core"
)

// fakeSource is an in-memory DocumentSource for tests.
type fakeSource struct {
	folders   map[string][]core.DocumentInfo
	content   map[string]string
	listCalls atomic.Int64
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		folders: make(map[string][]core.DocumentInfo),
		content: make(map[string]string),
	}
}

func (f *fakeSource) addDoc(folderID, docID, name string) {
	f.folders[folderID] = append(f.folders[folderID], core.DocumentInfo{
		ID:       docID,
		Name:     name,
		MimeType: "text/plain",
		Folder:   folderID,
	})
	f.content[docID] = "isi dokumen " + name
}

func (f *fakeSource) addFolder(parentID, folderID string) {
	f.folders[parentID] = append(f.folders[parentID], core.DocumentInfo{
		ID:       folderID,
		Name:     folderID,
		MimeType: "application/vnd.google-apps.folder",
		IsFolder: true,
	})
}

func (f *fakeSource) ListFolder(ctx context.Context, folderID string) ([]core.DocumentInfo, error) {
	f.listCalls.Add(1)
	return f.folders[folderID], nil
}

func (f *fakeSource) Fetch(ctx context.Context, documentID, mimeType string) ([]byte, string, error) {
	content, ok := f.content[documentID]
	if !ok {
		return nil, "", fmt.Errorf("document %s not found", documentID)
	}
	return []byte(content), "text/plain", nil
}
