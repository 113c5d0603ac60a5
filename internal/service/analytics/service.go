// Package analytics builds the dashboard from a bounded snapshot of insurance
// records.
package analytics

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
	"github.com/jwalitptl/insurance-crm/internal/service"
	"github.com/jwalitptl/insurance-crm/pkg/cache"
	"github.com/jwalitptl/insurance-crm/pkg/logger"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

const (
	DefaultSnapshotLimit = 1000
	snapshotKey          = "analytics:insurance:snapshot"
)

type Dashboard struct {
	Range          Window            `json:"range"`
	GeneratedAt    time.Time         `json:"generated_at"`
	SnapshotSize   int               `json:"snapshot_size"`
	Summary        Summary           `json:"summary"`
	Companies      []Bucket          `json:"companies"`
	Eligibility    []Bucket          `json:"eligibility"`
	CallStatus     []Bucket          `json:"call_status"`
	CoverageStatus []Bucket          `json:"coverage_status"`
	Monthly        []MonthBucket     `json:"monthly"`
	Deductibles    []DeductiblePoint `json:"deductibles"`
}

type Config struct {
	SnapshotLimit int
	TTL           time.Duration
}

type Service struct {
	repo    repository.InsuranceRepository
	cache   cache.Cache
	cfg     Config
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time

	// generation is bumped by every Invalidate. A snapshot loaded across a
	// bump is served but not cached.
	generation atomic.Uint64
}

func NewService(repo repository.InsuranceRepository, c cache.Cache, cfg Config, m *metrics.Metrics, log *logger.Logger) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	if cfg.SnapshotLimit <= 0 {
		cfg.SnapshotLimit = DefaultSnapshotLimit
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   c,
		cfg:     cfg,
		metrics: m,
		log:     log.With("analytics"),
		now:     time.Now,
	}
}

// Dashboard reduces the snapshot for the given range. refresh skips the
// cached snapshot and reloads it from the store.
func (s *Service) Dashboard(ctx context.Context, rangeParam string, refresh bool) (*Dashboard, error) {
	w, err := ParseWindow(rangeParam)
	if err != nil {
		return nil, err
	}

	records, err := s.snapshot(ctx, refresh)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &Dashboard{
		Range:          w,
		GeneratedAt:    now,
		SnapshotSize:   len(records),
		Summary:        Summarize(records, now),
		Companies:      Distribution(records, CompanyKey, TopCompanies),
		Eligibility:    Distribution(records, EligibilityKey, 0),
		CallStatus:     Distribution(records, CalledStatusKey, 0),
		CoverageStatus: Distribution(records, CoverageStatusKey, 0),
		Monthly:        MonthlyHistogram(records, w, now),
		Deductibles:    Deductibles(records),
	}, nil
}

// Invalidate drops the cached snapshot. Record services call it after every
// successful mutation.
func (s *Service) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.Delete(ctx, snapshotKey); err != nil {
		s.log.Error(err, "failed to invalidate analytics snapshot", "cache", s.cache.Name())
	}
}

var _ service.Invalidator = (*Service)(nil)

func (s *Service) snapshot(ctx context.Context, refresh bool) ([]model.InsuranceRecord, error) {
	if !refresh {
		var cached []model.InsuranceRecord
		hit, err := s.cache.Get(ctx, snapshotKey, &cached)
		if err != nil {
			s.log.Warn("analytics cache read failed", "cache", s.cache.Name(), "error", err.Error())
		}
		if hit {
			return cached, nil
		}
	}

	gen := s.generation.Load()
	start := time.Now()
	page, err := s.repo.List(ctx, model.ListQuery{Page: 1, PageSize: s.cfg.SnapshotLimit})
	s.metrics.ObserveStore("insurance", "snapshot", start, err)
	if err != nil {
		return nil, service.StoreError("insurance record", err)
	}

	if s.generation.Load() != gen {
		return page.Rows, nil
	}
	if err := s.cache.Set(ctx, snapshotKey, page.Rows, s.cfg.TTL); err != nil {
		s.log.Warn("analytics cache write failed", "cache", s.cache.Name(), "error", err.Error())
	}
	// an Invalidate that raced the Set above must still win
	if s.generation.Load() != gen {
		if err := s.cache.Delete(ctx, snapshotKey); err != nil {
			s.log.Error(err, "failed to drop stale analytics snapshot", "cache", s.cache.Name())
		}
	}
	return page.Rows, nil
}
