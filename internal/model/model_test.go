package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{}.Normalize(100)
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Zero(t, q.Offset())

	q = ListQuery{Page: 3, PageSize: 500}.Normalize(100)
	assert.Equal(t, 100, q.PageSize)
	assert.Equal(t, 200, q.Offset())

	q = ListQuery{Page: 2, PageSize: 500}.Normalize(0)
	assert.Equal(t, 500, q.PageSize)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(21, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"50", 50, true},
		{"$1,500.50", 1500.5, true},
		{" 100 ", 100, true},
		{"-25", -25, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseMoney(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "1500.5", *NormalizeMoney(StringPtr("$1,500.50")))
	assert.Nil(t, NormalizeMoney(StringPtr("unknown")))
	assert.Nil(t, NormalizeMoney(nil))
}

func TestInsuranceFields_MissingRequiredAndDefaults(t *testing.T) {
	f := InsuranceFields{Name: "  ", PhoneNumber: "555"}
	assert.Equal(t, []string{"name", "member_id"}, f.MissingRequired())

	f.ApplyDefaults()
	assert.Equal(t, CalledStatusNotCalled, f.CalledStatus)

	f.CalledStatus = CalledStatusCallFailed
	f.ApplyDefaults()
	assert.Equal(t, CalledStatusCallFailed, f.CalledStatus)
}

func TestUpdateInsuranceInput_Assignments(t *testing.T) {
	status := CalledStatusCallSucceeded
	u := UpdateInsuranceInput{Deductible: StringPtr("75"), Name: StringPtr("Ann"), CalledStatus: &status}

	assert.Equal(t, []Assignment{
		{Column: "name", Value: "Ann"},
		{Column: "deductible", Value: "75"},
		{Column: "called_status", Value: "call succeeded"},
	}, u.Assignments())
	assert.Empty(t, UpdateInsuranceInput{}.Assignments())

	assert.Equal(t, []string{"phone_number"}, UpdateInsuranceInput{PhoneNumber: StringPtr("")}.BlankRequired())
}

func TestUpdateInsuranceInput_Apply(t *testing.T) {
	r := InsuranceRecord{InsuranceFields: InsuranceFields{Name: "Ann", PhoneNumber: "1", MemberID: "M"}}
	UpdateInsuranceInput{Plan: StringPtr("PPO"), Name: StringPtr("Anne")}.Apply(&r)

	assert.Equal(t, "Anne", r.Name)
	assert.Equal(t, "PPO", Deref(r.Plan))
	assert.Equal(t, "1", r.PhoneNumber)
}

func TestCreateInboundInput(t *testing.T) {
	in := CreateInboundInput{AppointmentNumber: "A-1", AppointmentDate: "2024-03-15", Type: AppointmentTypeNew, DOB: "1990-01-01", Phone: "555", Address: "1 Main St"}
	assert.Equal(t, []string{"insurance_policy"}, in.MissingRequired())

	no := false
	in.InsurancePolicy = &no
	assert.Empty(t, in.MissingRequired())

	f := in.Fields()
	assert.Equal(t, CallStatusNotCalled, f.CallStatus)
	assert.Equal(t, TransferStatusNotTransferred, f.CallTransferStatus)
	assert.False(t, f.InsurancePolicy)
	assert.Nil(t, f.Name)
}

func TestEnums(t *testing.T) {
	assert.True(t, CalledStatus("call failed").Valid())
	assert.False(t, CalledStatus("Called").Valid())
	assert.True(t, AppointmentType("Returning").Valid())
	assert.False(t, AppointmentType("returning").Valid())
	assert.True(t, TransferStatusNotRequired.Valid())
	assert.False(t, CallStatus("").Valid())
	assert.True(t, PharmacyCallStatus("Not Called").Valid())
	assert.True(t, CallOutcome("Successful").Valid())
}

func TestCallFields_Defaults(t *testing.T) {
	f := CallFields{}
	assert.Equal(t, []string{"phonenumber"}, f.MissingRequired())
	f.ApplyDefaults()
	assert.Equal(t, PharmacyCallStatusNotCalled, f.CallStatus)
	assert.Equal(t, CallOutcomeFailed, f.Status)
}
