package inbound

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository/memory"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate(context.Context) { c.n++ }

func validInput() model.CreateInboundInput {
	policy := true
	return model.CreateInboundInput{
		AppointmentNumber: "A-100",
		AppointmentDate:   "2024-03-20",
		Type:              model.AppointmentTypeNew,
		DOB:               "1980-01-02",
		Phone:             "555-0100",
		Address:           "1 Main St",
		InsurancePolicy:   &policy,
		InsuranceName:     model.StringPtr("Aetna"),
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateInboundInput)
		want   string
	}{
		{"missing phone", func(in *model.CreateInboundInput) { in.Phone = "" }, "phone"},
		{"missing policy flag", func(in *model.CreateInboundInput) { in.InsurancePolicy = nil }, "insurance_policy"},
		{"bad type", func(in *model.CreateInboundInput) { in.Type = "Walk-in" }, "type"},
		{"bad call status", func(in *model.CreateInboundInput) { in.CallStatus = "done" }, "call_status"},
		{"bad transfer status", func(in *model.CreateInboundInput) { in.CallTransferStatus = "maybe" }, "call_transfer_status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(memory.NewInboundRepository(), 100, nil, nil, nil)
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCreate_AppliesDefaultsAndAllowsMissingName(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(memory.NewInboundRepository(), 100, inv, nil, nil)

	rec, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Nil(t, rec.Name)
	assert.True(t, rec.InsurancePolicy)
	assert.Equal(t, model.CallStatusNotCalled, rec.CallStatus)
	assert.Equal(t, model.TransferStatusNotTransferred, rec.CallTransferStatus)
	assert.Equal(t, 1, inv.n)
}

func TestUpdate(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(memory.NewInboundRepository(), 100, inv, nil, nil)
	ctx := context.Background()
	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	unchanged, err := svc.Update(ctx, rec.ID, model.UpdateInboundInput{})
	require.NoError(t, err)
	assert.Equal(t, rec, unchanged)
	assert.Equal(t, 1, inv.n)

	status := model.CallStatusCompleted
	off := false
	got, err := svc.Update(ctx, rec.ID, model.UpdateInboundInput{CallStatus: &status, InsurancePolicy: &off})
	require.NoError(t, err)
	assert.Equal(t, status, got.CallStatus)
	assert.False(t, got.InsurancePolicy)
	assert.Equal(t, 2, inv.n)

	_, err = svc.Update(ctx, rec.ID, model.UpdateInboundInput{Address: model.StringPtr(" ")})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	bad := model.AppointmentType("Other")
	_, err = svc.Update(ctx, rec.ID, model.UpdateInboundInput{Type: &bad})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDelete(t *testing.T) {
	svc := NewService(memory.NewInboundRepository(), 100, nil, nil, nil)
	ctx := context.Background()
	rec, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.ID))
	_, err = svc.Get(ctx, rec.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, uuid.New()), errors.ErrNotFound))

	_, err = svc.Create(ctx, validInput())
	require.NoError(t, err)
	n, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err := svc.List(ctx, model.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Rows)
}
