package answer

import (
	"fmt"
	"strings"

	"github.com/codemet/dora/core"
)

// maxContextChunks bounds how many retrieved chunks feed the prompt.
// Retrieval may hand back more; beyond this the extra context slows
// generation without improving answers.
const maxContextChunks = 8

// BuildPrompt assembles the grounded generation prompt from retrieved
// chunks. Each context block is labeled with its document name so the
// model can attribute facts, and the instructions push it to answer
// from the grounding even when the question's phrasing differs from
// the document's.
func BuildPrompt(question string, chunks []core.ScoredChunk) string {
	if len(chunks) > maxContextChunks {
		chunks = chunks[:maxContextChunks]
	}

	var context strings.Builder
	for i, sc := range chunks {
		name := sc.Chunk.Metadata.DocumentName
		if name == "" {
			name = fmt.Sprintf("Dokumen %d", i+1)
		}
		fmt.Fprintf(&context, "Dokumen: %s\nKonten: %s\n\n", name, sc.Chunk.Text)
	}
	context.WriteString("PENTING: Jawab pertanyaan berdasarkan konteks di atas, " +
		"bahkan jika ada variasi kata atau frasa dalam pertanyaan. " +
		"Fokus pada makna dan inti pertanyaan, bukan pada kata-kata yang persis sama.")

	return fmt.Sprintf(`Anda adalah DORA (Document Retrieval Assistant), asisten yang menjawab pertanyaan berdasarkan dokumen pengguna. WAJIB MENGGUNAKAN BAHASA INDONESIA SAJA.

Konteks dari dokumen pengguna:
%s

Pertanyaan: %s

INSTRUKSI:
- Analisis konteks dengan cermat dan berikan jawaban yang lengkap dan akurat
- Jika pertanyaan tentang hukum, sebutkan undang-undang, pasal, atau peraturan yang relevan
- Jangan katakan "tidak ada informasi" jika ada konten yang relevan dalam dokumen
- Jawab langsung apa yang diminta tanpa basa-basi
- Gunakan kalimat yang lengkap dan koheren
- Jangan sebutkan nama dokumen sumber di akhir respons

Jawaban:`, context.String(), question)
}
