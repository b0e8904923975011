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


package source

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

var (
	xmlParagraphRe = regexp.MustCompile(`</w:p>`)
	xmlTagRe       = regexp.MustCompile(`<[^>]*>`)
)

// Extractor converts fetched document bytes into plain text.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{logger: slog.Default().With("component", "extractor")}
}

// Extract returns the text content of data. Unsupported MIME types and
// unreadable payloads yield ""; per-page PDF failures are skipped so
// one bad page doesn't discard a document.
func (e *Extractor) Extract(data []byte, mimeType string) string {
	if len(data) == 0 {
		return ""
	}

	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return string(data)
	case mimeType == mimePDF:
		return e.extractPDF(data)
	case mimeType == mimeDOCX:
		return e.extractDOCX(data)
	case mimeType == mimePPTX:
		return e.extractPPTX(data)
	default:
		e.logger.Debug("unsupported mime type", "mime_type", mimeType)
		return ""
	}
}

func (e *Extractor) extractPDF(data []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("unreadable pdf", "err", err)
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("skipping unreadable pdf page", "page", i, "err", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

func (e *Extractor) extractDOCX(data []byte) string {
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("unreadable docx", "err", err)
		return ""
	}
	defer reader.Close()

	content := reader.Editable().GetContent()
	content = xmlParagraphRe.ReplaceAllString(content, "\n\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// extractPPTX reads slide XML straight out of the pptx zip container.
func (e *Extractor) extractPPTX(data []byte) string {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("unreadable pptx", "err", err)
		return ""
	}

	var b strings.Builder
	for _, file := range zr.File {
		if !strings.HasPrefix(file.Name, "ppt/slides/slide") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		slide, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		text := strings.TrimSpace(xmlTagRe.ReplaceAllString(string(slide), " "))
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}
