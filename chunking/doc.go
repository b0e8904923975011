// Package chunking turns raw document text into retrieval-sized chunks.
//
// The pipeline has three stages. DetectType classifies the document from
// its MIME type and content patterns. The splitter cuts the text into
// sections along type-specific boundaries (chapters for legal and
// academic text, declarations for technical text, report headings for
// business text, paragraphs otherwise). The packer then greedily fills
// chunks up to a length-adaptive target size, re-splitting oversized
// sections by paragraph and sentence, and finally prepends a short
// overlap from each chunk's predecessor so context survives the cut.
//
// All of it is pure string work: no I/O, no goroutines, deterministic
// output for a given input.
package chunking
