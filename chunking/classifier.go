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
	"regexp"
	"strings"

	"github.com/codemet/dora/core"
)

// typeRule binds a document type to the content patterns that signal it.
// Rules are evaluated in order; the first match wins, so more specific
// categories must come before looser ones.
type typeRule struct {
	docType  core.DocumentType
	patterns []*regexp.Regexp
}

var typeRules = []typeRule{
	{core.TypeLegal, compileAll(
		`pasal\s+\d+`,
		`undang-undang`,
		`peraturan`,
		`hukum`,
	)},
	{core.TypeAcademic, compileAll(
		`referensi`,
		`daftar pustaka`,
		`kajian`,
		`penelitian`,
	)},
	{core.TypeTechnical, compileAll(
		`api`,
		`endpoint`,
		`function`,
		`method`,
		`class`,
	)},
	{core.TypeBusiness, compileAll(
		`proposal`,
		`laporan`,
		`analisis`,
		`strategi`,
	)},
	{core.TypeMedical, compileAll(
		`diagnosis`,
		`gejala`,
		`pengobatan`,
		`terapi`,
	)},
	{core.TypeFinancial, compileAll(
		`anggaran`,
		`keuangan`,
		`investasi`,
		`profit`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// DetectType classifies a document. The MIME type takes precedence:
// binary container formats get their own categories regardless of
// content. Otherwise the content rules decide, falling back to general.
func DetectType(text, mimeType string) core.DocumentType {
	if mimeType != "" {
		mime := strings.ToLower(mimeType)
		switch {
		case strings.Contains(mime, "pdf"):
			return core.TypePDF
		case strings.Contains(mime, "word"), strings.Contains(mime, "document"):
			return core.TypeDocument
		case strings.Contains(mime, "presentation"), strings.Contains(mime, "powerpoint"):
			return core.TypePresentation
		case strings.Contains(mime, "spreadsheet"), strings.Contains(mime, "excel"):
			return core.TypeSpreadsheet
		}
	}

	lower := strings.ToLower(text)
	for _, rule := range typeRules {
		for _, p := range rule.patterns {
			if p.MatchString(lower) {
				return rule.docType
			}
		}
	}

	return core.TypeGeneral
}
