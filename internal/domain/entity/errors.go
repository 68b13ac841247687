package entity

import "errors"

// Standard domain errors
var (
	ErrEmbeddingUnavailable  = errors.New("embedding provider unavailable")
	ErrIndexUnavailable      = errors.New("vector index unavailable")
	ErrGenerationUnavailable = errors.New("generation provider unavailable")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrRateLimitExceeded     = errors.New("rate limit exceeded: too many messages today")
	ErrInvalidRequest        = errors.New("invalid request parameters")
)
