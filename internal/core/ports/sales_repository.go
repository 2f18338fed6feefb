package ports

import (
	"context"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

// SalesRepository owns all persisted sale records.
//
// ReplaceAll must be atomic with respect to concurrent readers: List never
// observes a mix of the prior and the new dataset. Concurrent ReplaceAll calls
// are serialized; the last writer to complete wins. List returns rows in the
// insertion order of the last replacement; when includeAdmin is false,
// admin-tagged rows are filtered out.
type SalesRepository interface {
	ReplaceAll(ctx context.Context, sales []domain.Sale) error
	List(ctx context.Context, includeAdmin bool) ([]domain.Sale, error)
}

// FileRepository records metadata about processed uploads.
type FileRepository interface {
	Save(ctx context.Context, meta *domain.FileMetadata) error
}
