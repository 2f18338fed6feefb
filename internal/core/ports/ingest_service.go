package ports

import (
	"context"
	"io"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

// IngestInput is one uploaded tabular file plus the resolved caller identity.
// CallerRole is empty for anonymous uploads; CallerName is used only for the
// upload audit record.
type IngestInput struct {
	Filename   string
	Reader     io.Reader
	CallerRole string
	CallerName string
}

// IngestResult is the state of the repository after a successful ingestion:
// the full persisted dataset (not just the accepted rows), the visibility tag
// applied to this upload, and the per-row errors of skipped rows.
type IngestResult struct {
	Data       []domain.Sale
	Visibility domain.Visibility
	Skipped    []domain.RowError
}

type IngestService interface {
	Ingest(ctx context.Context, in IngestInput) (*IngestResult, error)
	Data(ctx context.Context, includeAdmin bool) ([]domain.Sale, error)
}

// Mailer sends outbound alert mail. Alerting is an external collaborator;
// implementations may simulate delivery when no transport is configured.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
