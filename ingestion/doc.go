// Package ingestion implements concurrent bulk ingestion of a folder
// tree into the knowledge base.
//
// A Pipeline enumerates a folder recursively, filters out documents the
// registry already knows, then processes the rest in two stages: outer
// batches are fetched concurrently, and each outer batch is cut into
// inner batches that are extracted, chunked, embedded and stored under
// a per-batch timeout. Per-document failures are reported and recorded
// but never abort the run. Progress is streamed to the caller through a
// ProgressSink.
package ingestion
