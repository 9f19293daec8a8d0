package world

import "errors"

// Chunk access errors returned by Storage queries.
var (
	ErrChunkDoesNotExist   = errors.New("chunk does not exist")
	ErrPositionOutOfBounds = errors.New("position out of bounds")
)

// ErrStorageKindUnsupported is returned by NewStorage for storage kinds
// that are declared but have no addressing semantics.
var ErrStorageKindUnsupported = errors.New("storage kind unsupported")
