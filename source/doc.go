// Package source fetches documents from where they live. The production
// implementation is Google Drive: folder listing through the Drive v3
// API, server-side text export for Google-native files, raw download
// for everything else, and a short-TTL listing cache in front of the
// folder scans the bulk pipeline hammers.
//
// The Extractor turns fetched bytes into plain text for PDF, DOCX,
// PPTX and plain-text payloads; anything it cannot read comes back as
// an empty string rather than an error, leaving the skip decision to
// the caller.
package source
