package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure, e.g. no knowledge base loaded yet.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status         Status
	KBLoaded       bool
	KBRecords      int
	ActiveSessions int
	Checks         map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	kb       SnapshotReader
	sessions SessionCounter
	db       DBPinger
}

// New creates a Service. db can be nil when no shared cache is configured.
func New(kb SnapshotReader, sessions SessionCounter, db DBPinger) *Service {
	return &Service{kb: kb, sessions: sessions, db: db}
}

// Check reports knowledge base readiness, session count and dependency health.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{
		ActiveSessions: s.sessions.ActiveSessions(),
		Checks:         make(map[string]CheckResult),
	}

	if snap := s.kb.Snapshot(); snap != nil && snap.Len() > 0 {
		r.KBLoaded = true
		r.KBRecords = snap.Len()
		r.Checks["knowledge_base"] = CheckOK
	} else {
		r.Checks["knowledge_base"] = CheckError
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			r.Checks["cache"] = CheckError
		} else {
			r.Checks["cache"] = CheckOK
		}
	}

	r.Status = Healthy
	for _, v := range r.Checks {
		if v == CheckError {
			r.Status = Degraded
			break
		}
	}
	return r
}
