// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apperrors defines the sentinel errors shared across the pipeline
// and the API surface. Callers classify failures with errors.Is.
package apperrors

import "errors"

var (
	// ErrMalformedDocument marks a legacy metadata document that cannot be
	// parsed (fewer than three rows). Recovered per-document during
	// migration, never fatal to a batch.
	ErrMalformedDocument = errors.New("malformed metadata document")

	// ErrValidation marks a create request missing a required field.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a slug collision on the direct create path.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a lookup with no matching record.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable marks a store connection or persistence failure.
	// Fatal to the current batch or request.
	ErrStoreUnavailable = errors.New("store unavailable")
)
