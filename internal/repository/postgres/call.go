package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

var callColumns = []string{
	"pharmacy", "drug", "special_request", "phonenumber", "call_status", "status",
	"response", "delivery_time", "summary", "transcript", "call_recording",
}

type callRepository struct {
	t table[model.Call]
}

func NewCallRepository(db *sqlx.DB) repository.CallRepository {
	return &callRepository{
		t: newTable[model.Call](db, "calls", callColumns, model.CallSearchColumns),
	}
}

func (r *callRepository) List(ctx context.Context, q model.ListQuery) (model.Page[model.Call], error) {
	return r.t.list(ctx, q)
}

func (r *callRepository) Get(ctx context.Context, id uuid.UUID) (*model.Call, error) {
	return r.t.get(ctx, id)
}

func (r *callRepository) Insert(ctx context.Context, f model.CallFields) (*model.Call, error) {
	return r.t.insert(ctx, f)
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
