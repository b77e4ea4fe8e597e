package knowledge

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdesk/internal/domain"
	"github.com/kailas-cloud/helpdesk/internal/domain/kb"
	"github.com/kailas-cloud/helpdesk/internal/metrics"
)

// Service keeps the published knowledge base snapshot up to date.
type Service struct {
	fetcher Fetcher
	holder  *kb.Holder
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a loader publishing into holder.
func New(fetcher Fetcher, holder *kb.Holder, logger *zap.Logger) *Service {
	return &Service{fetcher: fetcher, holder: holder, now: time.Now, logger: logger}
}

// Load fetches the source and publishes a new snapshot.
// On failure the previous snapshot (if any) keeps serving. A source without a single
// usable record is a failure too.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.fetcher.Fetch(ctx)
	if err == nil && len(records) == 0 {
		err = fmt.Errorf("%w: no usable records", domain.ErrKnowledgeBaseSource)
	}
	if err != nil {
		metrics.KnowledgeBaseLoadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load knowledge base: %w", err)
	}

	snap := s.holder.Replace(records, s.now())
	metrics.KnowledgeBaseLoadsTotal.WithLabelValues("success").Inc()
	metrics.KnowledgeBaseRecords.Set(float64(snap.Len()))
	s.logger.Info("Knowledge base loaded",
		zap.Int("records", snap.Len()),
		zap.Uint64("version", snap.Version()),
	)
	return nil
}

// Run reloads the knowledge base every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Load(ctx); err != nil {
				s.logger.Warn("Knowledge base refresh failed, keeping previous snapshot", zap.Error(err))
			}
		}
	}
}

// Retry attempts Load every interval until it succeeds or ctx is cancelled.
// Used when the startup load failed and no periodic refresh is configured.
func (s *Service) Retry(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Load(ctx); err != nil {
				s.logger.Warn("Knowledge base still unavailable", zap.Error(err))
				continue
			}
			return
		}
	}
}

// Snapshot returns the current snapshot or nil.
func (s *Service) Snapshot() *kb.Snapshot {
	return s.holder.Snapshot()
}
