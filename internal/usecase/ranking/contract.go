package ranking

import (
	"context"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

// SnapshotReader provides the current knowledge base snapshot.
type SnapshotReader interface {
	Snapshot() *kb.Snapshot
}

// Cache stores ranking results. Implementations swallow their own failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]kb.Scored, bool)
	Set(ctx context.Context, key string, results []kb.Scored)
}
