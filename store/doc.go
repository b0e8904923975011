// Package store persists chunk embeddings and answers nearest-neighbor
// queries over them. The backing engine is chromem-go, an embedded
// vector database; every tenant gets an isolated collection, so one
// process can serve many users without their documents mixing.
//
// Distances follow the convention of the retrieval layer: lower is
// closer, computed as 1 - cosine similarity.
package store
