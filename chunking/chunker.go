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


package chunking

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

const (
	defaultTargetSize   = 850
	defaultSmallSize    = 500
	defaultMediumSize   = 700
	defaultSmallDocMax  = 3000
	defaultMediumDocMax = 10000
	defaultOverlap      = 85
)

// Config holds the chunking tuning knobs. The defaults balance chunk
// count against per-chunk context and should rarely need changing.
type Config struct {
	// TargetSize is the chunk size in characters for full-size documents.
	TargetSize int

	// SmallSize applies to documents shorter than SmallDocMax.
	SmallSize int

	// MediumSize applies to documents shorter than MediumDocMax.
	MediumSize int

	// SmallDocMax and MediumDocMax are the document-length bands, in
	// characters, that select SmallSize and MediumSize.
	SmallDocMax  int
	MediumDocMax int

	// Overlap is how many trailing characters of the previous chunk are
	// prepended to each chunk after the first.
	Overlap int
}

// DefaultConfig returns the standard chunking configuration.
func DefaultConfig() Config {
	return Config{
		TargetSize:   defaultTargetSize,
		SmallSize:    defaultSmallSize,
		MediumSize:   defaultMediumSize,
		SmallDocMax:  defaultSmallDocMax,
		MediumDocMax: defaultMediumDocMax,
		Overlap:      defaultOverlap,
	}
}

// Option is a functional option for configuring a Splitter.
type Option func(*Splitter)

// WithTargetSize overrides the full-size chunk target.
func WithTargetSize(n int) Option {
	return func(s *Splitter) {
		s.config.TargetSize = n
	}
}

// WithOverlap overrides the inter-chunk overlap length.
func WithOverlap(n int) Option {
	return func(s *Splitter) {
		s.config.Overlap = n
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *Splitter) {
		s.config = cfg
	}
}

// Splitter turns document text into overlapping chunks.
type Splitter struct {
	config Config
	logger *slog.Logger
}

// NewSplitter creates a Splitter with the default configuration,
// modified by any options.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		config: DefaultConfig(),
		logger: slog.Default().With("component", "chunking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chunkSize picks the target chunk size for a document length.
// Short documents get smaller chunks so they still produce several.
func (s *Splitter) chunkSize(docLength int) int {
	switch {
	case docLength < s.config.SmallDocMax:
		return s.config.SmallSize
	case docLength < s.config.MediumDocMax:
		return s.config.MediumSize
	default:
		return s.config.TargetSize
	}
}

// Split cuts text into chunks. Empty or whitespace-only input yields
// nil. Text with no recognizable boundary comes back as one chunk.
func (s *Splitter) Split(text, mimeType string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	docType := DetectType(text, mimeType)
	size := s.chunkSize(len(text))
	sections := sectionsFor(docType, text)

	s.logger.Debug("splitting document",
		"type", docType, "length", len(text), "chunk_size", size, "sections", len(sections))

	chunks := s.pack(sections, size)
	return s.applyOverlap(chunks)
}

// pack greedily fills chunks up to size. A section that fits joins the
// current chunk; an oversized one is re-split by paragraph, and a
// paragraph that is still too long is re-split by sentence.
func (s *Splitter) pack(sections []string, size int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			chunks = append(chunks, text)
		}
		current.Reset()
	}

	appendPiece := func(b *strings.Builder, piece, sep string) {
		b.WriteString(piece)
		b.WriteString(sep)
	}

	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			continue
		}

		if current.Len()+len(section) <= size {
			appendPiece(&current, section, "\n\n")
			continue
		}
		flush()

		if len(section) <= size {
			appendPiece(&current, section, "\n\n")
			continue
		}

		for _, paragraph := range paragraphRe.Split(section, -1) {
			if strings.TrimSpace(paragraph) == "" {
				continue
			}

			if current.Len()+len(paragraph) <= size {
				appendPiece(&current, paragraph, "\n\n")
				continue
			}
			flush()

			if len(paragraph) <= size {
				appendPiece(&current, paragraph, "\n\n")
				continue
			}

			for _, sentence := range sentenceRe.Split(paragraph, -1) {
				if strings.TrimSpace(sentence) == "" {
					continue
				}
				if current.Len()+len(sentence) > size {
					flush()
				}
				appendPiece(&current, sentence, ". ")
			}
			flush()
		}
	}
	flush()

	return chunks
}

// applyOverlap prepends the tail of each chunk's predecessor. Single
// chunks and a zero overlap pass through untouched.
func (s *Splitter) applyOverlap(chunks []string) []string {
	overlap := s.config.Overlap
	if len(chunks) < 2 || overlap <= 0 {
		return chunks
	}

	out := make([]string, len(chunks))
	out[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev
		if len(prev) > overlap {
			// The cut must not land inside a multibyte rune.
			cut := len(prev) - overlap
			for cut > 0 && !utf8.RuneStart(prev[cut]) {
				cut--
			}
			tail = prev[cut:]
		}
		out[i] = tail + " " + chunks[i]
	}
	return out
}
