package inbound

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
	resource   = "inbound record"
	collection = "inbound"
)

type InboundService interface {
	List(ctx context.Context, q model.ListQuery) (model.Page[model.InboundRecord], error)
	Get(ctx context.Context, id uuid.UUID) (*model.InboundRecord, error)
	Create(ctx context.Context, in model.CreateInboundInput) (*model.InboundRecord, error)
	Update(ctx context.Context, id uuid.UUID, patch model.UpdateInboundInput) (*model.InboundRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Service struct {
	repo        repository.InboundRepository
	invalidator service.Invalidator
	metrics     *metrics.Metrics
	log         *logger.Logger
	maxPageSize int
}

func NewService(repo repository.InboundRepository, maxPageSize int, invalidator service.Invalidator, m *metrics.Metrics, log *logger.Logger) *Service {
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
		log:         log.With("inbound"),
		maxPageSize: maxPageSize,
	}
}

func (s *Service) List(ctx context.Context, q model.ListQuery) (model.Page[model.InboundRecord], error) {
	q = q.Normalize(s.maxPageSize)
	start := time.Now()
	page, err := s.repo.List(ctx, q)
	s.metrics.ObserveStore(collection, "list", start, err)
	if err != nil {
		return model.Page[model.InboundRecord]{}, service.StoreError(resource, err)
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.InboundRecord, error) {
	start := time.Now()
	rec, err := s.repo.Get(ctx, id)
	s.metrics.ObserveStore(collection, "get", start, err)
	if err != nil {
		return nil, service.StoreError(resource, err)
	}
	return rec, nil
}

func (s *Service) Create(ctx context.Context, in model.CreateInboundInput) (*model.InboundRecord, error) {
	if err := service.RequireFields(in.MissingRequired()); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, service.InvalidEnum("type", string(in.Type))
	}
	if in.CallStatus != "" && !in.CallStatus.Valid() {
		return nil, service.InvalidEnum("call_status", string(in.CallStatus))
	}
	if in.CallTransferStatus != "" && !in.CallTransferStatus.Valid() {
		return nil, service.InvalidEnum("call_transfer_status", string(in.CallTransferStatus))
	}

	start := time.Now()
	rec, err := s.repo.Insert(ctx, in.Fields())
	s.metrics.ObserveStore(collection, "insert", start, err)
	if err != nil {
		s.log.Error(err, "failed to create inbound record")
		return nil, service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	return rec, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch model.UpdateInboundInput) (*model.InboundRecord, error) {
	if err := service.RequireNonBlank(patch.BlankRequired()); err != nil {
		return nil, err
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, service.InvalidEnum("type", string(*patch.Type))
	}
	if patch.CallStatus != nil && !patch.CallStatus.Valid() {
		return nil, service.InvalidEnum("call_status", string(*patch.CallStatus))
	}
	if patch.CallTransferStatus != nil && !patch.CallTransferStatus.Valid() {
		return nil, service.InvalidEnum("call_transfer_status", string(*patch.CallTransferStatus))
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

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.repo.DeleteAll(ctx)
	s.metrics.ObserveStore(collection, "delete_all", start, err)
	if err != nil {
		return 0, service.StoreError(resource, err)
	}

	s.invalidator.Invalidate(ctx)
	s.log.Warn("all inbound records deleted", "rows", n)
	return n, nil
}
