package call

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
	"github.com/jwalitptl/insurance-crm/internal/service"
	"github.com/jwalitptl/insurance-crm/pkg/logger"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

const (
	resource   = "call"
	collection = "calls"
)

type CallService interface {
	List(ctx context.Context, q model.ListQuery) (model.Page[model.Call], error)
	Get(ctx context.Context, id uuid.UUID) (*model.Call, error)
	Create(ctx context.Context, in model.CreateCallInput) (*model.Call, error)
	Update(ctx context.Context, id uuid.UUID, patch model.UpdateCallInput) (*model.Call, error)
	MarkCalled(ctx context.Context, id uuid.UUID) (*model.Call, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Service struct {
	repo        repository.CallRepository
	metrics     *metrics.Metrics
	log         *logger.Logger
	maxPageSize int
}

// Calls do not feed the analytics snapshot, so no invalidator is needed.
func NewService(repo repository.CallRepository, maxPageSize int, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:        repo,
		metrics:     m,
		log:         log.With("calls"),
		maxPageSize: maxPageSize,
	}
}

func (s *Service) List(ctx context.Context, q model.ListQuery) (model.Page[model.Call], error) {
	q = q.Normalize(s.maxPageSize)
	start := time.Now()
	page, err := s.repo.List(ctx, q)
	s.metrics.ObserveStore(collection, "list", start, err)
	if err != nil {
		return model.Page[model.Call]{}, service.StoreError(resource, err)
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	start := time.Now()
	c, err := s.repo.Get(ctx, id)
	s.metrics.ObserveStore(collection, "get", start, err)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, in model.CreateCallInput) (*model.Call, error) {
	if err := service.RequireFields(in.MissingRequired()); err != nil {
		return nil, err
	}
	if in.CallStatus != "" && !in.CallStatus.Valid() {
		return nil, service.InvalidEnum("call_status", string(in.CallStatus))
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, service.InvalidEnum("status", string(in.Status))
	}
	in.ApplyDefaults()

	start := time.Now()
	c, err := s.repo.Insert(ctx, in)
	s.metrics.ObserveStore(collection, "insert", start, err)
	if err != nil {
		s.log.Error(err, "failed to create call")
		return nil, service.StoreError(resource, err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch model.UpdateCallInput) (*model.Call, error) {
	if err := service.RequireNonBlank(patch.BlankRequired()); err != nil {
		return nil, err
	}
	if patch.CallStatus != nil && !patch.CallStatus.Valid() {
		return nil, service.InvalidEnum("call_status", string(*patch.CallStatus))
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, service.InvalidEnum("status", string(*patch.Status))
	}

	set := patch.Assignments()
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	start := time.Now()
	c, err := s.repo.Update(ctx, id, set)
	s.metrics.ObserveStore(collection, "update", start, err)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	return c, nil
}

// MarkCalled flips call_status to Called.
func (s *Service) MarkCalled(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	called := model.PharmacyCallStatusCalled
	return s.Update(ctx, id, model.UpdateCallInput{CallStatus: &called})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveStore(collection, "delete", start, err)
	if err != nil {
		return service.StoreError(resource, err)
	}
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.repo.DeleteAll(ctx)
	s.metrics.ObserveStore(collection, "delete_all", start, err)
	if err != nil {
		return 0, service.StoreError(resource, err)
	}
	s.log.Warn("all calls deleted", "rows", n)
	return n, nil
}
