package ports

import (
	"context"
	"time"

	"conversor/domain/datalogger"

	"github.com/google/uuid"
)

// ResultStore keeps extraction results addressable by session ID until they
// expire. Get returns an error matched by errors.Is(err, ErrResultNotFound)
// for unknown and expired IDs alike.
type ResultStore interface {
	// Save assigns an ID when conv.ID is zero and returns the stored ID.
	Save(ctx context.Context, conv *datalogger.Conversion) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*datalogger.Conversion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Purge drops every result expired at now and reports how many went.
	Purge(ctx context.Context, now time.Time) (int, error)
}
