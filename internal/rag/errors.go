// Package rag defines the error taxonomy shared across the retrieval pipeline.
package rag

import "errors"

var (
	// ErrProvider indicates an embedding or completion call failed
	// (timeout, auth, rate limit, malformed response).
	ErrProvider = errors.New("provider error")

	// ErrStore indicates the vector store was unreachable or rejected
	// an operation.
	ErrStore = errors.New("store error")

	// ErrValidation indicates malformed input: an empty document, a chunk
	// with no content, or a missing required field.
	ErrValidation = errors.New("validation error")
)
