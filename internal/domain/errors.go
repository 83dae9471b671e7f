package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidAnswer is returned when a questionnaire answer is not one of the offered options
	ErrInvalidAnswer = errors.New("invalid questionnaire answer")

	// ErrInvalidTransition is returned when a questionnaire action is not allowed in its current state
	ErrInvalidTransition = errors.New("invalid questionnaire transition")

	// ErrSessionNotFound is returned when a questionnaire session does not exist or has expired
	ErrSessionNotFound = errors.New("questionnaire session not found")

	// ErrCatalogUnavailable is returned when the venue catalog cannot be loaded
	ErrCatalogUnavailable = errors.New("venue catalog unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
