package health

import (
	"context"

	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
)

// DBPinger checks shared cache availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotReader provides the current knowledge base snapshot.
type SnapshotReader interface {
	Snapshot() *kb.Snapshot
}

// SessionCounter reports the number of tracked conversations.
type SessionCounter interface {
	ActiveSessions() int
}
