package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

var insuranceColumns = []string{
	"name", "phone_number", "member_id", "appointment_date", "last_appointment",
	"insurance_company", "dob", "subscriber", "plan", "eligibility_status",
	"annual_maximum", "deductible", "coverage", "coverage_status", "waiting_period",
	"frequency_limitations", "frequency_limitations_status", "downgrades_exclusions",
	"pre_authorization", "contact_inquiries", "called_status", "call_transcript",
	"call_summary", "call_duration", "call_recording",
}

type insuranceRepository struct {
	t table[model.InsuranceRecord]
}

func NewInsuranceRepository(db *sqlx.DB) repository.InsuranceRepository {
	return &insuranceRepository{
		t: newTable[model.InsuranceRecord](db, "insurance_details", insuranceColumns, model.InsuranceSearchColumns),
	}
}

func (r *insuranceRepository) List(ctx context.Context, q model.ListQuery) (model.Page[model.InsuranceRecord], error) {
	return r.t.list(ctx, q)
}

func (r *insuranceRepository) Get(ctx context.Context, id uuid.UUID) (*model.InsuranceRecord, error) {
	return r.t.get(ctx, id)
}

func (r *insuranceRepository) Insert(ctx context.Context, f model.InsuranceFields) (*model.InsuranceRecord, error) {
	return r.t.insert(ctx, f)
}

func (r *insuranceRepository) InsertMany(ctx context.Context, fs []model.InsuranceFields) (int, error) {
	return insertMany(ctx, &r.t, fs)
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
