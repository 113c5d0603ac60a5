package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/internal/repository"
)

func seedInsurance(t *testing.T, repo repository.InsuranceRepository, n int) {
	t.Helper()
	fs := make([]model.InsuranceFields, n)
	for i := range fs {
		fs[i] = model.InsuranceFields{
			Name:         fmt.Sprintf("Patient %02d", i),
			PhoneNumber:  fmt.Sprintf("555-01%02d", i),
			MemberID:     fmt.Sprintf("M-%02d", i),
			CalledStatus: model.DefaultCalledStatus,
		}
	}
	inserted, err := repo.InsertMany(context.Background(), fs)
	require.NoError(t, err)
	require.Equal(t, n, inserted)
}

func TestInsuranceRepository_ListPaging(t *testing.T) {
	repo := NewInsuranceRepository()
	seedInsurance(t, repo, 23)

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantRows int
	}{
		{"first page", 1, 10, 10},
		{"last partial page", 3, 10, 3},
		{"past the end", 4, 10, 0},
		{"single page", 1, 50, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(context.Background(), model.ListQuery{Page: tt.page, PageSize: tt.pageSize})
			require.NoError(t, err)
			assert.Len(t, page.Rows, tt.wantRows)
			assert.LessOrEqual(t, len(page.Rows), tt.pageSize)
			assert.Equal(t, int64(23), page.Total)
		})
	}
}

func TestInsuranceRepository_ListNewestFirst(t *testing.T) {
	repo := NewInsuranceRepository().(*insuranceRepository)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.t.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	for _, name := range []string{"first", "second", "third"} {
		_, err := repo.Insert(context.Background(), model.InsuranceFields{Name: name, PhoneNumber: "1", MemberID: "M"})
		require.NoError(t, err)
	}

	page, err := repo.List(context.Background(), model.ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Rows, 3)
	assert.Equal(t, "third", page.Rows[0].Name)
	assert.Equal(t, "first", page.Rows[2].Name)
}

func TestInsuranceRepository_ListSearch(t *testing.T) {
	repo := NewInsuranceRepository()
	ctx := context.Background()
	company := "Delta Dental"
	_, err := repo.Insert(ctx, model.InsuranceFields{Name: "Ann", PhoneNumber: "1", MemberID: "X1", InsuranceCompany: &company})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, model.InsuranceFields{Name: "Bob", PhoneNumber: "2", MemberID: "X2"})
	require.NoError(t, err)

	page, err := repo.List(ctx, model.ListQuery{Page: 1, PageSize: 10, SearchTerm: "delta"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Ann", page.Rows[0].Name)
	assert.Equal(t, int64(1), page.Total)

	page, err = repo.List(ctx, model.ListQuery{Page: 1, PageSize: 10, SearchTerm: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestInsuranceRepository_UpdateAssignsTypedColumns(t *testing.T) {
	repo := NewInsuranceRepository()
	ctx := context.Background()
	rec, err := repo.Insert(ctx, model.InsuranceFields{Name: "Ann", PhoneNumber: "1", MemberID: "X1", CalledStatus: model.DefaultCalledStatus})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, rec.ID, []model.Assignment{
		{Column: "called_status", Value: "call succeeded"},
		{Column: "deductible", Value: "50"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.CalledStatusCallSucceeded, updated.CalledStatus)
	require.NotNil(t, updated.Deductible)
	assert.Equal(t, "50", *updated.Deductible)
	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, rec.CreatedAt, updated.CreatedAt)

	_, err = repo.Update(ctx, rec.ID, []model.Assignment{{Column: "id", Value: uuid.New().String()}})
	assert.Error(t, err)
}

func TestInsuranceRepository_NotFound(t *testing.T) {
	repo := NewInsuranceRepository()
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Update(ctx, id, []model.Assignment{{Column: "name", Value: "x"}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), repository.ErrNotFound)
}

func TestInsuranceRepository_DeleteAllThenList(t *testing.T) {
	repo := NewInsuranceRepository()
	seedInsurance(t, repo, 5)

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	page, err := repo.List(context.Background(), model.ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.Rows)
}

func TestInboundRepository_UpdateBoolAndPointer(t *testing.T) {
	repo := NewInboundRepository()
	ctx := context.Background()
	rec, err := repo.Insert(ctx, model.InboundFields{AppointmentNumber: "A-1", Type: model.AppointmentTypeNew})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, rec.ID, []model.Assignment{
		{Column: "insurance_policy", Value: true},
		{Column: "insurance_name", Value: "Aetna"},
		{Column: "type", Value: "Returning"},
	})
	require.NoError(t, err)
	assert.True(t, updated.InsurancePolicy)
	assert.Equal(t, "Aetna", model.Deref(updated.InsuranceName))
	assert.Equal(t, model.AppointmentTypeReturning, updated.Type)
}

func TestCallRepository_Search(t *testing.T) {
	repo := NewCallRepository()
	ctx := context.Background()
	_, err := repo.Insert(ctx, model.CallFields{Pharmacy: "CVS", Drug: "Amoxicillin", PhoneNumber: "555"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, model.CallFields{Pharmacy: "Walgreens", Drug: "Ibuprofen", PhoneNumber: "556"})
	require.NoError(t, err)

	page, err := repo.List(ctx, model.ListQuery{SearchTerm: "amox"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "CVS", page.Rows[0].Pharmacy)
}
