package chunking

import (
	"regexp"
	"strings"

	"github.com/codemet/dora/core"
)

// Section boundary cascades per document type. Each cascade is tried in
// order; the first pattern that actually divides the text wins. Legal
// cascades stop at chapter level on purpose: splitting at every Pasal
// shreds statutes into fragments too small to answer from.
var sectionCascades = map[core.DocumentType][]*regexp.Regexp{
	core.TypeLegal: compileAll(
		`BAB\s+[IVX]+`,
		`BAB\s+\d+`,
		`BAGIAN\s+[IVX]+`,
		`BAGIAN\s+\d+`,
	),
	core.TypeAcademic: compileAll(
		`Chapter\s+\d+`,
		`CHAPTER\s+\d+`,
		`Bab\s+\d+`,
		`BAB\s+\d+`,
		`Section\s+\d+`,
		`Referensi`,
		`Daftar Pustaka`,
	),
	core.TypeTechnical: compileAll(
		`def\s+\w+`,
		`function\s+\w+`,
		`class\s+\w+`,
		`public\s+\w+`,
		`private\s+\w+`,
		`API\s+Endpoint`,
	),
	core.TypeBusiness: compileAll(
		`Executive Summary`,
		`Introduction`,
		`Methodology`,
		`Results`,
		`Conclusion`,
		`Recommendations`,
	),
}

var (
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	sentenceRe  = regexp.MustCompile(`[.!?]+\s+`)
)

// splitBefore splits text at the start of every match of re, keeping the
// match with the section that follows it. Returns nil when re never
// matches strictly inside the text, so cascades can fall through.
func splitBefore(re *regexp.Regexp, text string) []string {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	var sections []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			sections = append(sections, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	sections = append(sections, text[prev:])

	if len(sections) < 2 {
		return nil
	}
	return sections
}

// sectionsFor cuts text into sections for the given document type.
// Types without a cascade, and texts where no cascade pattern divides
// anything, fall through to paragraphs, then lines, then sentences.
func sectionsFor(docType core.DocumentType, text string) []string {
	if cascade, ok := sectionCascades[docType]; ok {
		for _, re := range cascade {
			if sections := splitBefore(re, text); sections != nil {
				return trimNonEmpty(sections)
			}
		}
		// No chapter-level boundary found. Paragraphs keep the
		// sections coherent without over-fragmenting.
		return trimNonEmpty(paragraphRe.Split(text, -1))
	}

	if sections := paragraphRe.Split(text, -1); len(sections) > 1 {
		return trimNonEmpty(sections)
	}
	if sections := strings.Split(text, "\n"); len(sections) > 1 {
		return trimNonEmpty(sections)
	}
	if sections := sentenceRe.Split(text, -1); len(sections) > 1 {
		return trimNonEmpty(sections)
	}
	return []string{text}
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
