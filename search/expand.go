package search

import "strings"

// expansion is one query term and the synonym cluster appended after
// it. Order matters: earlier entries may introduce terms that later
// entries would match, so the table is a slice, not a map, to keep
// expansion deterministic.
type expansion struct {
	term     string
	synonyms string
}

// Mixed Indonesian and English on purpose: the corpus is, too.
var expansions = []expansion{
	// Legal terms
	{"warga negara", "warga negara citizen kewarganegaraan penduduk"},
	{"undang-undang", "undang-undang uu peraturan hukum ketentuan"},
	{"hukum", "hukum undang-undang peraturan ketentuan"},
	{"pasal", "pasal ayat butir ketentuan"},
	{"peraturan", "peraturan ketentuan aturan regulasi"},

	// Academic terms
	{"penelitian", "penelitian riset kajian studi analisis"},
	{"metodologi", "metodologi metode pendekatan cara"},
	{"referensi", "referensi sumber pustaka literatur"},
	{"kajian", "kajian analisis penelitian studi"},
	{"hasil", "hasil temuan outcome result"},

	// Technical terms
	{"fungsi", "fungsi function method prosedur"},
	{"implementasi", "implementasi penerapan aplikasi"},
	{"sistem", "sistem system platform aplikasi"},
	{"teknologi", "teknologi technology teknis"},
	{"kode", "kode code script program"},

	// Business terms
	{"strategi", "strategi strategy rencana plan"},
	{"analisis", "analisis analysis evaluasi assessment"},
	{"laporan", "laporan report dokumen document"},
	{"proposal", "proposal usulan rencana plan"},

	// Medical terms
	{"diagnosis", "diagnosis diagnosa identifikasi"},
	{"gejala", "gejala symptom tanda sign"},
	{"pengobatan", "pengobatan treatment terapi therapy"},
	{"pasien", "pasien patient orang sakit"},
	{"kesehatan", "kesehatan health medical medis"},

	// Financial terms
	{"anggaran", "anggaran budget biaya cost"},
	{"keuangan", "keuangan financial finance"},
	{"profit", "profit keuntungan benefit"},
	{"investasi", "investasi investment modal capital"},
	{"ekonomi", "ekonomi economic financial"},

	// General terms
	{"dokumen", "dokumen document file berkas"},
	{"informasi", "informasi information data"},
	{"data", "data information informasi"},
	{"konten", "konten content isi materi"},
	{"sumber", "sumber source referensi reference"},
}

// Expand lowercases the query and appends synonym clusters after every
// known term it contains. The original term stays in place so exact
// matches keep their weight.
func Expand(query string) string {
	expanded := strings.ToLower(query)
	for _, e := range expansions {
		if strings.Contains(expanded, e.term) {
			expanded = strings.ReplaceAll(expanded, e.term, e.term+" "+e.synonyms)
		}
	}
	return expanded
}
