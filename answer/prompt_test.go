package answer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codemet/dora/core"
)

func scoredChunk(docName, text string) core.ScoredChunk {
	return core.ScoredChunk{
		Chunk: core.Chunk{
			Text:     text,
			Metadata: core.ChunkMetadata{DocumentName: docName},
		},
	}
}

func TestBuildPrompt_LabelsContextBlocks(t *testing.T) {
	chunks := []core.ScoredChunk{
		scoredChunk("UU Ketenagakerjaan.pdf", "Pasal 1 berisi definisi."),
		scoredChunk("Kontrak Kerja.docx", "Masa percobaan tiga bulan."),
	}

	prompt := BuildPrompt("Apa isi pasal 1?", chunks)

	assert.Contains(t, prompt, "Dokumen: UU Ketenagakerjaan.pdf")
	assert.Contains(t, prompt, "Konten: Pasal 1 berisi definisi.")
	assert.Contains(t, prompt, "Dokumen: Kontrak Kerja.docx")
	assert.Contains(t, prompt, "Pertanyaan: Apa isi pasal 1?")
	assert.Contains(t, prompt, "variasi kata")
}

func TestBuildPrompt_CapsContextChunks(t *testing.T) {
	var chunks []core.ScoredChunk
	for i := 0; i < 12; i++ {
		chunks = append(chunks, scoredChunk(fmt.Sprintf("doc-%d", i), "isi"))
	}

	prompt := BuildPrompt("pertanyaan", chunks)

	assert.Contains(t, prompt, "doc-7")
	assert.NotContains(t, prompt, "doc-8", "only the top chunks feed the prompt")
}

func TestBuildPrompt_UnnamedDocument(t *testing.T) {
	prompt := BuildPrompt("pertanyaan", []core.ScoredChunk{scoredChunk("", "isi tanpa nama")})
	assert.True(t, strings.Contains(prompt, "Dokumen: Dokumen 1"))
}
