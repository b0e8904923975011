package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Jawaban sederhana.", "Jawaban sederhana."},
		{"bold", "Ini **sangat** penting.", "Ini sangat penting."},
		{"emphasis", "Ini *penting* sekali.", "Ini penting sekali."},
		{"underscores", "__Judul__ dokumen.", "Judul dokumen."},
		{"headings", "## Ringkasan\nIsi ringkasan.", "Ringkasan\n\nIsi ringkasan."},
		{"bullets", "- pertama\n• kedua\n* ketiga", "pertama\n\nkedua\n\nketiga"},
		{"numbering", "1. satu\n2. dua", "satu\n\ndua"},
		{"blank lines collapse", "Paragraf satu.\n\n\n\nParagraf dua.", "Paragraf satu.\n\nParagraf dua."},
		{"inner spaces", "Terlalu    banyak\tspasi.", "Terlalu banyak spasi."},
		{
			"mixed markdown",
			"## Hasil\n\n1. **Pendapatan** naik\n2. *Biaya* turun\n",
			"Hasil\n\nPendapatan naik\n\nBiaya turun",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanResponse(tt.in))
		})
	}
}
