package insurance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
	"github.com/jwalitptl/insurance-crm/internal/service"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/logger"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

const (
	resource   = "insurance record"
	collection = "insurance"
)

type InsuranceService interface {
	List(ctx context.Context, q model.ListQuery) (model.Page[model.InsuranceRecord], error)
	Get(ctx context.Context, id uuid.UUID) (*model.InsuranceRecord, error)
	Create(ctx context.Context, in model.CreateInsuranceInput) (*model.InsuranceRecord, error)
	BulkCreate(ctx context.Context, in []model.CreateInsuranceInput) (int, error)
	Update(ctx context.Context, id uuid.UUID, patch model.UpdateInsuranceInput) (*model.InsuranceRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Service struct {
	repo        repository.InsuranceRepository
	invalidator service.Invalidator
	metrics     *metrics.Metrics
	log         *logger.Logger
	maxPageSize int
}

func NewService(repo repository.InsuranceRepository, maxPageSize int, invalidator service.Invalidator, m *metrics.Metrics, log *logger.Logger) *Service {
	if invalidator == nil {
		invalidator = service.NopInvalidator{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		metrics:     m,
		log:         log.With("insurance"),
		maxPageSize: maxPageSize,
	}
}

func (s *Service) List(ctx context.Context, q model.ListQuery) (model.Page[model.InsuranceRecord], error) {
	q = q.Normalize(s.maxPageSize)
	start := time.Now()
	page, err := s.repo.List(ctx, q)
	s.metrics.ObserveStore(collection, "list", start, err)
	if err != nil {
		return model.Page[model.InsuranceRecord]{}, service.StoreError(resource, err)
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.InsuranceRecord, error) {
	start := time.Now()
	rec, err := s.repo.Get(ctx, id)
	s.metrics.ObserveStore(collection, "get", start, err)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	return rec, nil
}

func validateCreate(in model.CreateInsuranceInput) error {
	if err := service.RequireFields(in.MissingRequired()); err != nil {
		return err
	}
	if in.CalledStatus != "" && !in.CalledStatus.Valid() {
		return service.InvalidEnum("called_status", string(in.CalledStatus))
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in model.CreateInsuranceInput) (*model.InsuranceRecord, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	in.ApplyDefaults()

	start := time.Now()
	rec, err := s.repo.Insert(ctx, in)
	s.metrics.ObserveStore(collection, "insert", start, err)
	if err != nil {
		s.log.Error(err, "failed to create insurance record")
		return nil, service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	s.log.Debug("insurance record created", "id", rec.ID.String())
	return rec, nil
}

// BulkCreate validates every row first, then submits them in one store call.
func (s *Service) BulkCreate(ctx context.Context, in []model.CreateInsuranceInput) (int, error) {
	if len(in) == 0 {
		return 0, errors.NewEmptyResult("no records to insert")
	}
	rows := make([]model.InsuranceFields, len(in))
	for i, r := range in {
		if err := validateCreate(r); err != nil {
			return 0, errors.NewValidation(fmt.Sprintf("row %d: %s", i+1, errors.DisplayMessage(err)))
		}
		r.ApplyDefaults()
		rows[i] = r
	}

	start := time.Now()
	n, err := s.repo.InsertMany(ctx, rows)
	s.metrics.ObserveStore(collection, "insert_many", start, err)
	if err != nil {
		s.log.Error(err, "bulk insert failed", "rows", len(rows))
		return 0, service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	s.log.Info("insurance records bulk inserted", "rows", n)
	return n, nil
}

// Update applies the present fields of patch. An empty patch reads the
// record back without writing.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch model.UpdateInsuranceInput) (*model.InsuranceRecord, error) {
	if err := service.RequireNonBlank(patch.BlankRequired()); err != nil {
		return nil, err
	}
	if patch.CalledStatus != nil && !patch.CalledStatus.Valid() {
		return nil, service.InvalidEnum("called_status", string(*patch.CalledStatus))
	}

	set := patch.Assignments()
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	start := time.Now()
	rec, err := s.repo.Update(ctx, id, set)
	s.metrics.ObserveStore(collection, "update", start, err)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveStore(collection, "delete", start, err)
	if err != nil {
		return service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	return nil
}

// DeleteAll removes every insurance record. Confirmation is the caller's job.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.repo.DeleteAll(ctx)
	s.metrics.ObserveStore(collection, "delete_all", start, err)
	if err != nil {
		return 0, service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	s.log.Warn("all insurance records deleted", "rows", n)
	return n, nil
}
