package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTagNotFound indicates a filing tag label is not in the taxonomy.
	// This is fatal at batch setup but a per-file skip during path inference.
	ErrTagNotFound = errors.New("filing tag not found")

	// ErrUnsupportedFormat indicates no extractor claims the file's extension,
	// including the generic fallback service.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEncryptedFile indicates the file is password protected or encrypted
	// and its text cannot be extracted.
	ErrEncryptedFile = errors.New("file is encrypted")

	// ErrNoContent indicates extraction succeeded mechanically but produced
	// no text (empty scan, image-only page, blank document).
	ErrNoContent = errors.New("no extractable content")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Fatal at batch setup.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrMountNotFound indicates the file server mount path does not exist
	// on the local machine. Fatal at batch setup.
	ErrMountNotFound = errors.New("file server mount not found")
)
