package knowledge

import (
	"context"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

// Fetcher loads the full, ordered list of knowledge base records.
type Fetcher interface {
	Fetch(ctx context.Context) ([]kb.Record, error)
}
