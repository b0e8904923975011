package store

import "errors"

var (
	// ErrVectorCountMismatch indicates Upsert received a different
	// number of vectors than chunks.
	ErrVectorCountMismatch = errors.New("chunk and vector counts differ")

	// ErrClearIncomplete indicates a cleared collection still reported
	// documents afterwards.
	ErrClearIncomplete = errors.New("collection not empty after clear")
)
