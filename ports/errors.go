package ports

import "conversor/internal/errors"

// ErrResultNotFound is returned by ResultStore.Get for unknown or expired IDs.
var ErrResultNotFound = errors.NotFound("result")
