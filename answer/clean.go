package answer

import (
	"regexp"
	"strings"
)

var (
	bulletRe     = regexp.MustCompile(`^[\s]*[•\-\*]\s*`)
	numberingRe  = regexp.MustCompile(`^\s*\d+\.\s*`)
	innerSpaceRe = regexp.MustCompile(`[ \t]+`)
)

// CleanResponse normalizes raw model output into plain prose: markdown
// emphasis, headings, bullets and list numbering are stripped, and the
// surviving lines become paragraphs separated by exactly one blank
// line.
func CleanResponse(text string) string {
	if text == "" {
		return text
	}

	// Emphasis and heading markers. Double forms first so the single
	// pass below doesn't leave strays behind.
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "###", "")
	text = strings.ReplaceAll(text, "##", "")
	text = strings.ReplaceAll(text, "*", "")

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = bulletRe.ReplaceAllString(line, "")
		line = numberingRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, innerSpaceRe.ReplaceAllString(line, " "))
		}
	}

	return strings.Join(cleaned, "\n\n")
}
