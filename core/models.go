package core

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DocumentType classifies a document for chunk-size policy and splitting
// strategy. MIME-derived types describe the container format, content-derived
// types describe the subject domain.
type DocumentType string

const (
	TypePDF          DocumentType = "pdf"
	TypeDocument     DocumentType = "document"
	TypePresentation DocumentType = "presentation"
	TypeSpreadsheet  DocumentType = "spreadsheet"
	TypeLegal        DocumentType = "legal"
	TypeAcademic     DocumentType = "academic"
	TypeTechnical    DocumentType = "technical"
	TypeBusiness     DocumentType = "business"
	TypeMedical      DocumentType = "medical"
	TypeFinancial    DocumentType = "financial"
	TypeGeneral      DocumentType = "general"
)

// Fingerprint computes a 64-bit BLAKE2b digest of text, hex encoded.
// Identical content always produces an identical fingerprint, which is how
// the document registry distinguishes a true duplicate from a changed
// document that kept its ID.
func Fingerprint(text string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// ChunkID builds the deterministic ID for a chunk of a document.
// Re-ingesting the same document yields the same IDs, so vector-store writes
// are upserts rather than duplicates.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}

// DocumentInfo is a listing entry returned by a document source.
// Folders appear in listings alongside documents and are recursed into.
type DocumentInfo struct {
	ID          string
	Name        string
	MimeType    string
	Folder      string // parent folder ID
	WebViewLink string
	IsFolder    bool
}

// Document is a fetched source document with its extracted text content.
// Immutable once extraction has run.
type Document struct {
	ID       string
	Name     string
	MimeType string
	Folder   string
	Content  string
}

// ChunkMetadata is stored with every chunk in the vector store and carried
// back on retrieval so sources can be rendered without a second lookup.
type ChunkMetadata struct {
	DocumentID   string
	DocumentName string
	MimeType     string
	Timestamp    string
}

// Chunk is the atomic unit of indexing and retrieval: a bounded slice of a
// document's text with a stable, order-preserving index.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Text       string
	Metadata   ChunkMetadata
}

// NewChunk builds a chunk for a document with its deterministic ID.
func NewChunk(doc *Document, index int, text string) Chunk {
	return Chunk{
		ID:         ChunkID(doc.ID, index),
		DocumentID: doc.ID,
		Index:      index,
		Text:       text,
		Metadata: ChunkMetadata{
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			MimeType:     doc.MimeType,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// ScoredChunk pairs a retrieved chunk with its cosine distance from the
// query. Lower distance means more similar.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float32
}

// Source identifies one distinct document that contributed retrieved chunks.
// A source list never contains two entries with the same ID.
type Source struct {
	ID       string
	Name     string
	MimeType string
	Link     string
}

// RetrievalResult is the outcome of a similarity query after thresholding
// and source deduplication.
type RetrievalResult struct {
	Chunks        []ScoredChunk
	Sources       []Source
	FromDocuments bool // false when the knowledge base was empty or nothing matched
	FallbackUsed  bool // true when only the single best document passed via soft fallback
}

// Answer is the user-facing response to a question.
type Answer struct {
	Text          string
	Sources       []Source
	FromDocuments bool
	FallbackUsed  bool
}

// DocumentRecord is the registry row kept per ingested document. It backs
// duplicate detection and per-tenant document listings.
type DocumentRecord struct {
	ID          string
	Name        string
	MimeType    string
	Folder      string
	Fingerprint string
	ChunkCount  int
	IngestedAt  time.Time
}

// DocumentFailure records one document that could not be ingested, with a
// human-readable reason. Failures never abort the rest of a bulk ingest.
type DocumentFailure struct {
	ID     string
	Name   string
	Reason string
}
