// Package domain holds the error taxonomy and shared constants of the
// property search engine.
package domain

import "errors"

var (
	// ErrMissingID signals a property record without an identifier; the
	// record cannot be projected into a search document.
	ErrMissingID = errors.New("property is missing an identifier")
	// ErrPropertyNotFound signals a missing property in the system of record.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrIndexUnavailable signals that the search store is unreachable.
	// Retryable; read paths surface it as service-unavailable.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrInvalidRequest signals a malformed search request, rejected before
	// any I/O.
	ErrInvalidRequest = errors.New("invalid search request")
	// ErrCacheMiss signals an absent cache entry.
	ErrCacheMiss = errors.New("cache miss")
)

// Key namespaces shared by the index and cache repositories. Both live on the
// same store instance; distinct prefixes keep them from colliding and allow
// bulk prefix-based cache flush.
const (
	// DocumentKeyPrefix namespaces indexed property documents.
	DocumentKeyPrefix = "property:"
	// CacheKeyPrefix namespaces cached query results.
	CacheKeyPrefix = "search_cache:"
	// IndexName is the FT index over the document namespace.
	IndexName = "properties_idx"
)
