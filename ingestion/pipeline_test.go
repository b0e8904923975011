package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemet/dora/ai/mock"
	"github.com/codemet/dora/core"
	badgerstore "github.com/codemet/dora/storage/badger"
	"github.com/codemet/dora/store"
)

// fakeSource is an in-memory DocumentSource for pipeline tests.
type fakeSource struct {
	folders  map[string][]core.DocumentInfo
	content  map[string]string
	fetchErr map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		folders:  make(map[string][]core.DocumentInfo),
		content:  make(map[string]string),
		fetchErr: make(map[string]error),
	}
}

func (f *fakeSource) addDoc(folderID, docID, name, content string) {
	f.folders[folderID] = append(f.folders[folderID], core.DocumentInfo{
		ID:       docID,
		Name:     name,
		MimeType: "text/plain",
		Folder:   folderID,
	})
	f.content[docID] = content
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
	return f.folders[folderID], nil
}

func (f *fakeSource) Fetch(ctx context.Context, documentID, mimeType string) ([]byte, string, error) {
	if err := f.fetchErr[documentID]; err != nil {
		return nil, "", err
	}
	content, ok := f.content[documentID]
	if !ok {
		return nil, "", fmt.Errorf("document %s not found", documentID)
	}
	return []byte(content), "text/plain", nil
}

// stallEmbedder blocks until the context dies.
type stallEmbedder struct{}

func (s *stallEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *stallEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// slowExtractor sleeps before yielding usable text.
type slowExtractor struct {
	delay time.Duration
}

func (s *slowExtractor) Extract(data []byte, mimeType string) string {
	time.Sleep(s.delay)
	return string(data)
}

// failEmbedder always errors.
type failEmbedder struct{}

func (f *failEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (f *failEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func testContent(name string) string {
	return strings.Repeat("Dokumen "+name+" berisi informasi penting tentang topik ini. ", 5)
}

type eventLog struct {
	events []Event
}

func (l *eventLog) sink(event Event) {
	l.events = append(l.events, event)
}

func (l *eventLog) ofType(t EventType) []Event {
	var out []Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestPipeline(t *testing.T, src *fakeSource, opts ...Option) (*Pipeline, store.VectorStore, func()) {
	t.Helper()

	vectors := store.NewInMemory()
	registry, err := badgerstore.Open("", true)
	require.NoError(t, err)

	p, err := NewPipeline(src, vectors, registry, mock.NewMockEmbedder(), opts...)
	require.NoError(t, err)

	cleanup := func() {
		p.Release()
		registry.Close()
	}
	return p, vectors, cleanup
}

func TestNewPipeline_Validation(t *testing.T) {
	vectors := store.NewInMemory()
	registry, err := badgerstore.Open("", true)
	require.NoError(t, err)
	defer registry.Close()
	embedder := mock.NewMockEmbedder()

	_, err = NewPipeline(nil, vectors, registry, embedder)
	assert.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewPipeline(newFakeSource(), nil, registry, embedder)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(newFakeSource(), vectors, nil, embedder)
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = NewPipeline(newFakeSource(), vectors, registry, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(newFakeSource(), vectors, registry, embedder, WithOuterBatchSize(0))
	assert.Error(t, err)
}

func TestIngestFolder_ProcessesTreeRecursively(t *testing.T) {
	src := newFakeSource()
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("doc-%d", i)
		src.addDoc("root", id, id+".txt", testContent(id))
	}
	src.addFolder("root", "sub")
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("sub-doc-%d", i)
		src.addDoc("sub", id, id+".txt", testContent(id))
	}

	p, vectors, cleanup := newTestPipeline(t, src)
	defer cleanup()

	var log eventLog
	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", log.sink)
	require.NoError(t, err)

	assert.Equal(t, 8, report.Found)
	assert.Equal(t, 8, report.Total)
	assert.Equal(t, 8, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	assert.Len(t, log.ofType(EventScanning), 1)
	assert.Len(t, log.ofType(EventChecking), 1)
	assert.Len(t, log.ofType(EventFetched), 8)
	assert.Len(t, log.ofType(EventSaved), 8)
	assert.Len(t, log.ofType(EventComplete), 1)

	count, err := vectors.Count(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}

func TestIngestFolder_BatchBoundaries(t *testing.T) {
	src := newFakeSource()
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("doc-%03d", i)
		src.addDoc("root", id, id+".txt", testContent(id))
	}

	p, _, cleanup := newTestPipeline(t, src)
	defer cleanup()

	var log eventLog
	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", log.sink)
	require.NoError(t, err)

	assert.Equal(t, 100, report.Processed)

	// 100 documents with an outer batch size of 60 make two batches.
	starts := log.ofType(EventBatchStart)
	require.Len(t, starts, 2)
	assert.Equal(t, 1, starts[0].Batch)
	assert.Equal(t, 2, starts[0].Batches)

	completes := log.ofType(EventBatchComplete)
	require.Len(t, completes, 2)
	assert.Equal(t, 100, completes[1].Percentage)
}

func TestIngestFolder_SkipsDuplicates(t *testing.T) {
	src := newFakeSource()
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("doc-%d", i)
		src.addDoc("root", id, id+".txt", testContent(id))
	}

	p, _, cleanup := newTestPipeline(t, src)
	defer cleanup()

	ctx := context.Background()
	_, err := p.IngestFolder(ctx, "tenant-1", "root", nil)
	require.NoError(t, err)

	// Second run over the same folder skips everything.
	var log eventLog
	report, err := p.IngestFolder(ctx, "tenant-1", "root", log.sink)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Found)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 4, report.Skipped)

	dups := log.ofType(EventDuplicatesFound)
	require.Len(t, dups, 1)
	assert.Equal(t, 4, dups[0].Skipped)

	completes := log.ofType(EventComplete)
	require.Len(t, completes, 1)
	assert.Equal(t, 4, completes[0].Found)
	assert.Equal(t, 4, completes[0].Skipped)
}

func TestIngestFolder_FetchFailureDoesNotAbort(t *testing.T) {
	src := newFakeSource()
	src.addDoc("root", "good", "good.txt", testContent("good"))
	src.addDoc("root", "bad", "bad.txt", testContent("bad"))
	src.fetchErr["bad"] = errors.New("drive said no")

	p, _, cleanup := newTestPipeline(t, src)
	defer cleanup()

	var log eventLog
	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", log.sink)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad", report.Failures[0].ID)
	assert.Contains(t, report.Failures[0].Reason, "fetch failed")

	failed := log.ofType(EventFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].DocumentID)
}

func TestIngestFolder_EmptyContentFails(t *testing.T) {
	src := newFakeSource()
	src.addDoc("root", "tiny", "tiny.txt", "hi")
	src.addDoc("root", "good", "good.txt", testContent("good"))

	p, _, cleanup := newTestPipeline(t, src)
	defer cleanup()

	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "empty content", report.Failures[0].Reason)
}

func TestIngestFolder_EmbeddingFailureFailsBatch(t *testing.T) {
	src := newFakeSource()
	src.addDoc("root", "doc-1", "a.txt", testContent("a"))
	src.addDoc("root", "doc-2", "b.txt", testContent("b"))

	vectors := store.NewInMemory()
	registry, err := badgerstore.Open("", true)
	require.NoError(t, err)
	defer registry.Close()

	p, err := NewPipeline(src, vectors, registry, &failEmbedder{})
	require.NoError(t, err)
	defer p.Release()

	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 2, report.Failed)
	for _, failure := range report.Failures {
		assert.Contains(t, failure.Reason, "embedding failed")
	}

	count, err := vectors.Count(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestFolder_BatchTimeoutFailsWholeBatch(t *testing.T) {
	src := newFakeSource()
	src.addDoc("root", "doc-1", "a.txt", testContent("a"))
	src.addDoc("root", "doc-2", "b.txt", testContent("b"))

	vectors := store.NewInMemory()
	registry, err := badgerstore.Open("", true)
	require.NoError(t, err)
	defer registry.Close()

	p, err := NewPipeline(src, vectors, registry, &stallEmbedder{}, WithBatchTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Failures, 2)
	for _, failure := range report.Failures {
		assert.Equal(t, "timeout", failure.Reason)
	}

	count, err := vectors.Count(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIngestFolder_SlowExtractionHitsBatchTimeout(t *testing.T) {
	src := newFakeSource()
	src.addDoc("root", "doc-1", "a.txt", testContent("a"))
	src.addDoc("root", "doc-2", "b.txt", testContent("b"))

	p, _, cleanup := newTestPipeline(t, src, WithBatchTimeout(50*time.Millisecond))
	defer cleanup()

	// Extraction runs inside the inner batch, so a parser that outlives
	// the batch deadline fails the batch instead of stalling the run.
	p.extractor = &slowExtractor{delay: 200 * time.Millisecond}

	report, err := p.IngestFolder(context.Background(), "tenant-1", "root", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Failures, 2)
	for _, failure := range report.Failures {
		assert.Equal(t, "timeout", failure.Reason)
	}
}

func TestIngestFolder_CancellationStopsBetweenBatches(t *testing.T) {
	src := newFakeSource()
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("doc-%d", i)
		src.addDoc("root", id, id+".txt", testContent(id))
	}

	p, _, cleanup := newTestPipeline(t, src, WithOuterBatchSize(2))
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var log eventLog
	sink := func(event Event) {
		log.sink(event)
		if event.Type == EventBatchComplete {
			cancel()
		}
	}

	report, err := p.IngestFolder(ctx, "tenant-1", "root", sink)
	assert.ErrorIs(t, err, context.Canceled)

	// The first batch finished, the second never started.
	assert.Equal(t, 2, report.Processed)
	assert.Len(t, log.ofType(EventBatchStart), 1)
	assert.Len(t, log.ofType(EventComplete), 1)
}

func TestIngestFolder_Validation(t *testing.T) {
	p, _, cleanup := newTestPipeline(t, newFakeSource())
	defer cleanup()

	_, err := p.IngestFolder(context.Background(), "", "root", nil)
	assert.ErrorIs(t, err, core.ErrEmptyTenantID)

	_, err = p.IngestFolder(context.Background(), "tenant-1", "", nil)
	assert.Error(t, err)
}

func TestWithBatchTimeout_RejectsNonPositive(t *testing.T) {
	vectors := store.NewInMemory()
	registry, err := badgerstore.Open("", true)
	require.NoError(t, err)
	defer registry.Close()

	_, err = NewPipeline(newFakeSource(), vectors, registry, mock.NewMockEmbedder(), WithBatchTimeout(-time.Second))
	assert.Error(t, err)
}
