package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

var inboundColumns = []string{
	"name", "appointment_number", "appointment_date", "previous_appointment_date",
	"type", "dob", "phone", "address", "insurance_policy", "insurance_name",
	"member_id", "group_number", "call_status", "call_transfer_status",
	"transcript", "summary",
}

type inboundRepository struct {
	t table[model.InboundRecord]
}

func NewInboundRepository(db *sqlx.DB) repository.InboundRepository {
	return &inboundRepository{
		t: newTable[model.InboundRecord](db, "inbound", inboundColumns, model.InboundSearchColumns),
	}
}

func (r *inboundRepository) List(ctx context.Context, q model.ListQuery) (model.Page[model.InboundRecord], error) {
	return r.t.list(ctx, q)
}

func (r *inboundRepository) Get(ctx context.Context, id uuid.UUID) (*model.InboundRecord, error) {
	return r.t.get(ctx, id)
}

func (r *inboundRepository) Insert(ctx context.Context, f model.InboundFields) (*model.InboundRecord, error) {
	return r.t.insert(ctx, f)
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
