package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/insurance-crm/internal/model"
)

// ErrNotFound is wrapped by every store when no row matches an id.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	// InsuranceRepository stores insurance_details rows.
	InsuranceRepository interface {
		List(ctx context.Context, q model.ListQuery) (model.Page[model.InsuranceRecord], error)
		Get(ctx context.Context, id uuid.UUID) (*model.InsuranceRecord, error)
		Insert(ctx context.Context, f model.InsuranceFields) (*model.InsuranceRecord, error)
		// InsertMany writes all rows or none.
		InsertMany(ctx context.Context, fs []model.InsuranceFields) (int, error)
		Update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*model.InsuranceRecord, error)
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteAll(ctx context.Context) (int64, error)
	}

	InboundRepository interface {
		List(ctx context.Context, q model.ListQuery) (model.Page[model.InboundRecord], error)
		Get(ctx context.Context, id uuid.UUID) (*model.InboundRecord, error)
		Insert(ctx context.Context, f model.InboundFields) (*model.InboundRecord, error)
		Update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*model.InboundRecord, error)
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteAll(ctx context.Context) (int64, error)
	}

	CallRepository interface {
		List(ctx context.Context, q model.ListQuery) (model.Page[model.Call], error)
		Get(ctx context.Context, id uuid.UUID) (*model.Call, error)
		Insert(ctx context.Context, f model.CallFields) (*model.Call, error)
		Update(ctx context.Context, id uuid.UUID, set []model.Assignment) (*model.Call, error)
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteAll(ctx context.Context) (int64, error)
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		PingContext(ctx context.Context) error
	}
)
