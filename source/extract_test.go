package source

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_PlainText(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "halo dunia", e.Extract([]byte("halo dunia"), "text/plain"))
}

func TestExtract_Empty(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "", e.Extract(nil, "text/plain"))
	assert.Equal(t, "", e.Extract([]byte{}, "application/pdf"))
}

func TestExtract_UnsupportedMime(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "", e.Extract([]byte("data"), "image/png"))
}

func TestExtract_GarbagePDF(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "", e.Extract([]byte("this is not a pdf"), "application/pdf"))
}

func TestExtract_GarbageDOCX(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "", e.Extract([]byte("this is not a zip"), mimeDOCX))
}

func TestExtract_PPTX(t *testing.T) {
	// Minimal pptx-shaped zip with one slide.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("ppt/slides/slide1.xml")
	assert.NoError(t, err)
	_, err = w.Write([]byte(`<p:sld><a:t>Judul presentasi</a:t></p:sld>`))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	e := NewExtractor()
	got := e.Extract(buf.Bytes(), mimePPTX)
	assert.Contains(t, got, "Judul presentasi")
}

func TestExtract_GarbagePPTX(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, "", e.Extract([]byte("not a zip either"), mimePPTX))
}
