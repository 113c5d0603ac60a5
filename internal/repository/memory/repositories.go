package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

type insuranceRepository struct {
	t *table[model.InsuranceRecord]
}

func NewInsuranceRepository() repository.InsuranceRepository {
	return &insuranceRepository{t: newTable[model.InsuranceRecord]("insurance_details", model.InsuranceSearchColumns)}
}

func (r *insuranceRepository) List(ctx context.Context, q model.ListQuery) (model.Page[model.InsuranceRecord], error) {
	return r.t.list(ctx, q)
}

func (r *insuranceRepository) Get(ctx context.Context, id uuid.UUID) (*model.InsuranceRecord, error) {
	return r.t.get(ctx, id)
}

func (r *insuranceRepository) Insert(ctx context.Context, f model.InsuranceFields) (*model.InsuranceRecord, error) {
	return r.t.insert(ctx, f.Record)
}

func (r *insuranceRepository) InsertMany(ctx context.Context, fs []model.InsuranceFields) (int, error) {
	return r.t.insertMany(ctx, len(fs), func(i int, b model.Base) model.InsuranceRecord {
		return fs[i].Record(b)
	})
}

func (r *insuranceRepository) Update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*model.InsuranceRecord, error) {
	return r.t.update(ctx, id, set)
}

func (r *insuranceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.t.delete(ctx, id)
}

func (r *insuranceRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.t.deleteAll(ctx)
}

type inboundRepository struct {
	t *table[model.InboundRecord]
}

func NewInboundRepository() repository.InboundRepository {
	return &inboundRepository{t: newTable[model.InboundRecord]("inbound", model.InboundSearchColumns)}
}

func (r *inboundRepository) List(ctx context.Context, q model.ListQuery) (model.Page[model.InboundRecord], error) {
	return r.t.list(ctx, q)
}

func (r *inboundRepository) Get(ctx context.Context, id uuid.UUID) (*model.InboundRecord, error) {
	return r.t.get(ctx, id)
}

func (r *inboundRepository) Insert(ctx context.Context, f model.InboundFields) (*model.InboundRecord, error) {
	return r.t.insert(ctx, func(b model.Base) model.InboundRecord {
		return model.InboundRecord{Base: b, InboundFields: f}
	})
}

func (r *inboundRepository) Update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*model.InboundRecord, error) {
	return r.t.update(ctx, id, set)
}

func (r *inboundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.t.delete(ctx, id)
}

func (r *inboundRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.t.deleteAll(ctx)
}

type callRepository struct {
	t *table[model.Call]
}

func NewCallRepository() repository.CallRepository {
	return &callRepository{t: newTable[model.Call]("calls", model.CallSearchColumns)}
}

func (r *callRepository) List(ctx context.Context, q model.ListQuery) (model.Page[model.Call], error) {
	return r.t.list(ctx, q)
}

func (r *callRepository) Get(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	return r.t.get(ctx, id)
}

func (r *callRepository) Insert(ctx context.Context, f model.CallFields) (*model.Call, error) {
	return r.t.insert(ctx, func(b model.Base) model.Call {
		return model.Call{Base: b, CallFields: f}
	})
}

func (r *callRepository) Update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*model.Call, error) {
	return r.t.update(ctx, id, set)
}

func (r *callRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.t.delete(ctx, id)
}

func (r *callRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.t.deleteAll(ctx)
}
