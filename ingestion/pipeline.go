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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/codemet/dora/ai"
	"github.com/codemet/dora/chunking"
	"github.com/codemet/dora/core"
	"github.com/codemet/dora/source"
	"github.com/codemet/dora/storage"
	"github.com/codemet/dora/store"
)

const (
	defaultOuterBatchSize = 60
	defaultInnerBatchSize = 15
	defaultBatchTimeout   = 2 * time.Minute
	defaultFolderFanOut   = 8
	defaultMinContentLen  = 10
)

// Report summarizes one bulk ingestion run.
type Report struct {
	Found     int // documents discovered during the scan
	Total     int // new documents left after duplicate filtering
	Processed int
	Skipped   int
	Failed    int
	Failures  []core.DocumentFailure
}

// textExtractor converts raw document bytes into plain text.
// Production always uses source.Extractor; tests substitute it.
type textExtractor interface {
	Extract(data []byte, mimeType string) string
}

// Pipeline runs concurrent bulk ingestion from a document source into
// the vector store and document registry.
type Pipeline struct {
	source    source.DocumentSource
	extractor textExtractor
	splitter  *chunking.Splitter
	embedder  ai.Embedder
	store     store.VectorStore
	registry  storage.DocumentRepository

	fetchPool *ants.Pool
	chunkPool *ants.Pool

	outerBatchSize int
	innerBatchSize int
	batchTimeout   time.Duration
	folderFanOut   int
	minContentLen  int

	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithOuterBatchSize sets how many documents are fetched per outer
// batch. The fetch pool is sized to match, so this also bounds fetch
// concurrency. Default is 60.
func WithOuterBatchSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("outer batch size must be positive, got %d", n)
		}
		p.outerBatchSize = n
		return nil
	}
}

// WithInnerBatchSize sets how many documents are processed per inner
// batch. Default is 15.
func WithInnerBatchSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("inner batch size must be positive, got %d", n)
		}
		p.innerBatchSize = n
		return nil
	}
}

// WithBatchTimeout sets the deadline for processing one inner batch.
// Default is 2 minutes.
func WithBatchTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("batch timeout must be positive, got %v", d)
		}
		p.batchTimeout = d
		return nil
	}
}

// WithFolderFanOut caps how many subfolders are listed concurrently
// during enumeration. Default is 8.
func WithFolderFanOut(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("folder fan-out must be positive, got %d", n)
		}
		p.folderFanOut = n
		return nil
	}
}

// WithSplitter replaces the default document splitter.
func WithSplitter(s *chunking.Splitter) Option {
	return func(p *Pipeline) error {
		if s == nil {
			return errors.New("splitter cannot be nil")
		}
		p.splitter = s
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a bulk ingestion pipeline. The embedder is
// wrapped so oversized inner batches are split into sub-batches before
// hitting the provider.
func NewPipeline(
	src source.DocumentSource,
	vectors store.VectorStore,
	registry storage.DocumentRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if src == nil {
		return nil, ErrSourceRequired
	}
	if vectors == nil {
		return nil, ErrStoreRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		source:         src,
		extractor:      source.NewExtractor(),
		splitter:       chunking.NewSplitter(),
		embedder:       ai.NewBatchingEmbedder(embedder),
		store:          vectors,
		registry:       registry,
		outerBatchSize: defaultOuterBatchSize,
		innerBatchSize: defaultInnerBatchSize,
		batchTimeout:   defaultBatchTimeout,
		folderFanOut:   defaultFolderFanOut,
		minContentLen:  defaultMinContentLen,
		logger:         slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	// Pools are created after options so sizes reflect the final config.
	fetchPool, err := ants.NewPool(p.outerBatchSize)
	if err != nil {
		return nil, err
	}

	chunkWorkers := runtime.NumCPU() / 2
	if chunkWorkers < 1 {
		chunkWorkers = 1
	}
	chunkPool, err := ants.NewPool(chunkWorkers)
	if err != nil {
		fetchPool.Release()
		return nil, err
	}

	p.fetchPool = fetchPool
	p.chunkPool = chunkPool
	return p, nil
}

// Release releases the worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.fetchPool != nil {
		p.fetchPool.Release()
	}
	if p.chunkPool != nil {
		p.chunkPool.Release()
	}
}

// IngestFolder ingests every supported document under folderID,
// recursing into subfolders. Documents already present in the registry
// are skipped. Per-document failures are reported through the sink and
// the returned report; they never abort the run.
//
// Cancellation is honored between batches. An in-flight batch finishes,
// a terminal complete event is still emitted, and the context error is
// returned alongside the partial report.
func (p *Pipeline) IngestFolder(ctx context.Context, tenant, folderID string, sink ProgressSink) (*Report, error) {
	if err := core.ValidateTenantID(tenant); err != nil {
		return nil, err
	}
	if folderID == "" {
		return nil, source.ErrEmptyFolderID
	}

	report := &Report{}

	emit(sink, Event{Type: EventScanning, Message: "scanning folder"})
	infos, err := p.enumerate(ctx, folderID)
	if err != nil {
		emit(sink, Event{Type: EventError, Message: err.Error()})
		return nil, fmt.Errorf("failed to scan folder %s: %w", folderID, err)
	}

	emit(sink, Event{Type: EventChecking, Message: fmt.Sprintf("checking %d documents against registry", len(infos))})
	fresh, duplicates, err := p.registry.FilterNew(ctx, tenant, infos)
	if err != nil {
		emit(sink, Event{Type: EventError, Message: err.Error()})
		return nil, fmt.Errorf("failed to filter duplicates: %w", err)
	}

	report.Found = len(infos)
	report.Total = len(fresh)
	report.Skipped = len(duplicates)
	if report.Skipped > 0 {
		emit(sink, Event{
			Type:    EventDuplicatesFound,
			Message: fmt.Sprintf("%d documents already ingested", report.Skipped),
			Skipped: report.Skipped,
		})
	}
	emit(sink, Event{
		Type:    EventFound,
		Message: fmt.Sprintf("%d new documents to process", report.Total),
		Found:   report.Found,
		Total:   report.Total,
	})

	batches := splitBatches(fresh, p.outerBatchSize)
	for batchIdx, batch := range batches {
		if ctx.Err() != nil {
			break
		}

		emit(sink, Event{
			Type:    EventBatchStart,
			Message: fmt.Sprintf("batch %d of %d", batchIdx+1, len(batches)),
			Batch:   batchIdx + 1,
			Batches: len(batches),
		})

		p.runBatch(ctx, tenant, batch, sink, report)

		done := report.Processed + report.Failed
		percentage := 0
		if report.Total > 0 {
			percentage = done * 100 / report.Total
		}
		emit(sink, Event{
			Type:       EventBatchComplete,
			Message:    fmt.Sprintf("batch %d complete", batchIdx+1),
			Batch:      batchIdx + 1,
			Batches:    len(batches),
			Processed:  report.Processed,
			Failed:     report.Failed,
			Percentage: percentage,
		})
	}

	emit(sink, Event{
		Type: EventComplete,
		Message: fmt.Sprintf("ingestion complete: %d processed, %d skipped, %d failed of %d found",
			report.Processed, report.Skipped, report.Failed, report.Found),
		Found:     report.Found,
		Total:     report.Total,
		Processed: report.Processed,
		Skipped:   report.Skipped,
		Failed:    report.Failed,
	})

	p.logger.Info("ingestion finished",
		"tenant", tenant, "folder", folderID,
		"total", report.Total, "processed", report.Processed,
		"skipped", report.Skipped, "failed", report.Failed)

	return report, ctx.Err()
}

// enumerate walks the folder tree breadth-first, listing each level's
// folders concurrently up to the fan-out cap.
func (p *Pipeline) enumerate(ctx context.Context, folderID string) ([]core.DocumentInfo, error) {
	var docs []core.DocumentInfo

	level := []string{folderID}
	for len(level) > 0 {
		var (
			mu       sync.Mutex
			wg       sync.WaitGroup
			next     []string
			firstErr error
		)
		sem := make(chan struct{}, p.folderFanOut)

		for _, id := range level {
			wg.Add(1)
			sem <- struct{}{}
			go func(id string) {
				defer wg.Done()
				defer func() { <-sem }()

				infos, err := p.source.ListFolder(ctx, id)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				for _, info := range infos {
					if info.IsFolder {
						next = append(next, info.ID)
					} else {
						docs = append(docs, info)
					}
				}
			}(id)
		}
		wg.Wait()

		if firstErr != nil {
			return nil, firstErr
		}
		level = next
	}

	return docs, nil
}

// fetchResult is one document's outcome after the fetch stage: the raw
// payload and its effective MIME type, or a failure. Extraction happens
// later, inside the timed inner batch.
type fetchResult struct {
	info    core.DocumentInfo
	data    []byte
	mime    string
	failure *core.DocumentFailure
}

// preparedDoc is one document after extraction and chunking.
type preparedDoc struct {
	doc     core.Document
	chunks  []core.Chunk
	failure *core.DocumentFailure
}

// runBatch fetches one outer batch concurrently, then processes it in
// inner batches. Counters and failures accumulate on report.
func (p *Pipeline) runBatch(ctx context.Context, tenant string, batch []core.DocumentInfo, sink ProgressSink, report *Report) {
	results := make([]fetchResult, len(batch))
	var wg sync.WaitGroup
	for i, info := range batch {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = p.fetchOne(ctx, info)
		}
		if err := p.fetchPool.Submit(task); err != nil {
			// Pool rejected the task; run it inline.
			task()
		}
	}
	wg.Wait()

	var fetched []fetchResult
	for _, result := range results {
		if result.failure != nil {
			report.Failed++
			report.Failures = append(report.Failures, *result.failure)
			emit(sink, Event{
				Type:         EventFailed,
				Message:      result.failure.Reason,
				DocumentID:   result.failure.ID,
				DocumentName: result.failure.Name,
			})
			continue
		}
		fetched = append(fetched, result)
		emit(sink, Event{
			Type:         EventFetched,
			Message:      "fetched",
			DocumentID:   result.info.ID,
			DocumentName: result.info.Name,
		})
	}

	for _, inner := range splitBatches(fetched, p.innerBatchSize) {
		if ctx.Err() != nil {
			return
		}

		batchCtx, cancel := context.WithTimeout(ctx, p.batchTimeout)
		saved, failures := p.processInner(batchCtx, tenant, inner)
		cancel()

		for _, record := range saved {
			report.Processed++
			emit(sink, Event{
				Type:         EventSaved,
				Message:      fmt.Sprintf("stored %d chunks", record.ChunkCount),
				DocumentID:   record.ID,
				DocumentName: record.Name,
			})
		}
		for _, failure := range failures {
			report.Failed++
			report.Failures = append(report.Failures, failure)
			emit(sink, Event{
				Type:         EventFailed,
				Message:      failure.Reason,
				DocumentID:   failure.ID,
				DocumentName: failure.Name,
			})
		}
	}
}

// fetchOne downloads one document's raw payload.
func (p *Pipeline) fetchOne(ctx context.Context, info core.DocumentInfo) fetchResult {
	data, effectiveMime, err := p.source.Fetch(ctx, info.ID, info.MimeType)
	if err != nil {
		return fetchResult{failure: &core.DocumentFailure{
			ID:     info.ID,
			Name:   info.Name,
			Reason: fmt.Sprintf("fetch failed: %v", err),
		}}
	}

	return fetchResult{info: info, data: data, mime: effectiveMime}
}

// prepare extracts and chunks one fetched document. PDF and DOCX
// parsing is the compute-heavy part of ingestion, which is why it runs
// here on the chunk pool under the batch deadline and not at fetch
// width.
func (p *Pipeline) prepare(item fetchResult) preparedDoc {
	content := p.extractor.Extract(item.data, item.mime)
	if len(strings.TrimSpace(content)) < p.minContentLen {
		return preparedDoc{failure: &core.DocumentFailure{
			ID:     item.info.ID,
			Name:   item.info.Name,
			Reason: "empty content",
		}}
	}

	doc := core.Document{
		ID:       item.info.ID,
		Name:     item.info.Name,
		MimeType: item.info.MimeType,
		Folder:   item.info.Folder,
		Content:  content,
	}

	texts := p.splitter.Split(content, doc.MimeType)
	if len(texts) == 0 {
		return preparedDoc{failure: &core.DocumentFailure{
			ID:     doc.ID,
			Name:   doc.Name,
			Reason: "empty content",
		}}
	}

	chunks := make([]core.Chunk, len(texts))
	for j, text := range texts {
		chunks[j] = core.NewChunk(&doc, j, text)
	}
	return preparedDoc{doc: doc, chunks: chunks}
}

// processInner extracts, chunks, embeds and stores one inner batch.
// Extraction and chunking run on the chunk pool; embedding is a single
// call across the whole batch.
func (p *Pipeline) processInner(ctx context.Context, tenant string, batch []fetchResult) ([]core.DocumentRecord, []core.DocumentFailure) {
	prepared := make([]preparedDoc, len(batch))
	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		item := batch[i]
		task := func() {
			defer wg.Done()
			prepared[i] = p.prepare(item)
		}
		if err := p.chunkPool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	// Extraction cannot observe the context, so a batch that blew its
	// deadline while parsing documents is caught here.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		failures := make([]core.DocumentFailure, len(batch))
		for i, item := range batch {
			failures[i] = core.DocumentFailure{ID: item.info.ID, Name: item.info.Name, Reason: "timeout"}
		}
		return nil, failures
	}

	var (
		failures []core.DocumentFailure
		texts    []string
	)
	for _, pd := range prepared {
		if pd.failure != nil {
			failures = append(failures, *pd.failure)
			continue
		}
		for _, chunk := range pd.chunks {
			texts = append(texts, chunk.Text)
		}
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		reason := fmt.Sprintf("embedding failed: %v", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		for _, pd := range prepared {
			if pd.failure != nil {
				continue
			}
			failures = append(failures, core.DocumentFailure{ID: pd.doc.ID, Name: pd.doc.Name, Reason: reason})
		}
		return nil, failures
	}

	var (
		saved  []core.DocumentRecord
		offset int
	)
	for _, pd := range prepared {
		if pd.failure != nil {
			continue
		}
		doc := pd.doc
		docVectors := vectors[offset : offset+len(pd.chunks)]
		offset += len(pd.chunks)

		if err := p.store.Upsert(ctx, tenant, pd.chunks, docVectors); err != nil {
			// Drop any partially written chunks so a retry starts clean.
			p.rollback(tenant, doc.ID)
			failures = append(failures, core.DocumentFailure{
				ID: doc.ID, Name: doc.Name,
				Reason: fmt.Sprintf("store failed: %v", err),
			})
			continue
		}

		record := core.DocumentRecord{
			ID:          doc.ID,
			Name:        doc.Name,
			MimeType:    doc.MimeType,
			Folder:      doc.Folder,
			Fingerprint: core.Fingerprint(doc.Content),
			ChunkCount:  len(pd.chunks),
			IngestedAt:  time.Now().UTC(),
		}
		if err := p.registry.Put(ctx, tenant, &record); err != nil {
			p.rollback(tenant, doc.ID)
			failures = append(failures, core.DocumentFailure{
				ID: doc.ID, Name: doc.Name,
				Reason: fmt.Sprintf("registry write failed: %v", err),
			})
			continue
		}

		saved = append(saved, record)
	}

	return saved, failures
}

// rollback removes a document's vectors after a partial write. Runs on
// a fresh context because the batch context may already be dead.
func (p *Pipeline) rollback(tenant, documentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.store.DeleteDocument(ctx, tenant, documentID); err != nil {
		p.logger.Warn("rollback failed", "tenant", tenant, "document", documentID, "err", err)
	}
}

// splitBatches cuts items into consecutive batches of at most size.
func splitBatches[T any](items []T, size int) [][]T {
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
