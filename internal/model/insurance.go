package model

import "strings"

type CalledStatus string

const (
	CalledStatusNotCalled     CalledStatus = "not called"
	CalledStatusCallFailed    CalledStatus = "call failed"
	CalledStatusCallSucceeded CalledStatus = "call succeeded"

	DefaultCalledStatus = CalledStatusNotCalled
)

func (s CalledStatus) Valid() bool {
	switch s {
	case CalledStatusNotCalled, CalledStatusCallFailed, CalledStatusCallSucceeded:
		return true
	}
	return false
}

// InsuranceRecord is a row of insurance_details.
type InsuranceRecord struct {
	Base
	InsuranceFields
}

// InsuranceSearchColumns are matched by the free-text search.
var InsuranceSearchColumns = []string{"name", "phone_number", "member_id", "insurance_company"}

// InsuranceFields is the insurance payload shared by create inputs and CSV rows.
// There is no id or created_at: those belong to the store.
type InsuranceFields struct {
	Name                       string       `db:"name" json:"name"`
	PhoneNumber                string       `db:"phone_number" json:"phone_number"`
	MemberID                   string       `db:"member_id" json:"member_id"`
	AppointmentDate            *string      `db:"appointment_date" json:"appointment_date,omitempty"`
	LastAppointment            *string      `db:"last_appointment" json:"last_appointment,omitempty"`
	InsuranceCompany           *string      `db:"insurance_company" json:"insurance_company,omitempty"`
	DOB                        *string      `db:"dob" json:"dob,omitempty"`
	Subscriber                 *string      `db:"subscriber" json:"subscriber,omitempty"`
	Plan                       *string      `db:"plan" json:"plan,omitempty"`
	EligibilityStatus          *string      `db:"eligibility_status" json:"eligibility_status,omitempty"`
	AnnualMaximum              *string      `db:"annual_maximum" json:"annual_maximum,omitempty"`
	Deductible                 *string      `db:"deductible" json:"deductible,omitempty"`
	Coverage                   *string      `db:"coverage" json:"coverage,omitempty"`
	CoverageStatus             *string      `db:"coverage_status" json:"coverage_status,omitempty"`
	WaitingPeriod              *string      `db:"waiting_period" json:"waiting_period,omitempty"`
	FrequencyLimitations       *string      `db:"frequency_limitations" json:"frequency_limitations,omitempty"`
	FrequencyLimitationsStatus *string      `db:"frequency_limitations_status" json:"frequency_limitations_status,omitempty"`
	DowngradesExclusions       *string      `db:"downgrades_exclusions" json:"downgrades_exclusions,omitempty"`
	PreAuthorization           *string      `db:"pre_authorization" json:"pre_authorization,omitempty"`
	ContactInquiries           *string      `db:"contact_inquiries" json:"contact_inquiries,omitempty"`
	CalledStatus               CalledStatus `db:"called_status" json:"called_status,omitempty"`
	CallTranscript             *string      `db:"call_transcript" json:"call_transcript,omitempty"`
	CallSummary                *string      `db:"call_summary" json:"call_summary,omitempty"`
	CallDuration               *string      `db:"call_duration" json:"call_duration,omitempty"`
	CallRecording              *string      `db:"call_recording" json:"call_recording,omitempty"`
}

// CreateInsuranceInput is the payload of a single create.
type CreateInsuranceInput = InsuranceFields

// ApplyDefaults fills values the store expects on every new insurance row.
// Single create and bulk import both go through here.
func (f *InsuranceFields) ApplyDefaults() {
	if f.CalledStatus == "" {
		f.CalledStatus = DefaultCalledStatus
	}
}

// Record builds the row a store returns for f.
func (f InsuranceFields) Record(base Base) InsuranceRecord {
	return InsuranceRecord{Base: base, InsuranceFields: f}
}

// MissingRequired lists the mandatory fields that are blank.
func (f InsuranceFields) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.PhoneNumber) == "" {
		missing = append(missing, "phone_number")
	}
	if strings.TrimSpace(f.MemberID) == "" {
		missing = append(missing, "member_id")
	}
	return missing
}

// UpdateInsuranceInput is a partial update; nil means leave unchanged.
type UpdateInsuranceInput struct {
	Name                       *string       `json:"name"`
	PhoneNumber                *string       `json:"phone_number"`
	MemberID                   *string       `json:"member_id"`
	AppointmentDate            *string       `json:"appointment_date"`
	LastAppointment            *string       `json:"last_appointment"`
	InsuranceCompany           *string       `json:"insurance_company"`
	DOB                        *string       `json:"dob"`
	Subscriber                 *string       `json:"subscriber"`
	Plan                       *string       `json:"plan"`
	EligibilityStatus          *string       `json:"eligibility_status"`
	AnnualMaximum              *string       `json:"annual_maximum"`
	Deductible                 *string       `json:"deductible"`
	Coverage                   *string       `json:"coverage"`
	CoverageStatus             *string       `json:"coverage_status"`
	WaitingPeriod              *string       `json:"waiting_period"`
	FrequencyLimitations       *string       `json:"frequency_limitations"`
	FrequencyLimitationsStatus *string       `json:"frequency_limitations_status"`
	DowngradesExclusions       *string       `json:"downgrades_exclusions"`
	PreAuthorization           *string       `json:"pre_authorization"`
	ContactInquiries           *string       `json:"contact_inquiries"`
	CalledStatus               *CalledStatus `json:"called_status"`
	CallTranscript             *string       `json:"call_transcript"`
	CallSummary                *string       `json:"call_summary"`
	CallDuration               *string       `json:"call_duration"`
	CallRecording              *string       `json:"call_recording"`
}

// BlankRequired lists mandatory fields that are present but empty.
func (u UpdateInsuranceInput) BlankRequired() []string {
	var blank []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		blank = append(blank, "name")
	}
	if u.PhoneNumber != nil && strings.TrimSpace(*u.PhoneNumber) == "" {
		blank = append(blank, "phone_number")
	}
	if u.MemberID != nil && strings.TrimSpace(*u.MemberID) == "" {
		blank = append(blank, "member_id")
	}
	return blank
}

// Assignments returns the columns to set, in a stable order.
func (u UpdateInsuranceInput) Assignments() []Assignment {
	var out []Assignment
	out = assignString(out, "name", u.Name)
	out = assignString(out, "phone_number", u.PhoneNumber)
	out = assignString(out, "member_id", u.MemberID)
	out = assignString(out, "appointment_date", u.AppointmentDate)
	out = assignString(out, "last_appointment", u.LastAppointment)
	out = assignString(out, "insurance_company", u.InsuranceCompany)
	out = assignString(out, "dob", u.DOB)
	out = assignString(out, "subscriber", u.Subscriber)
	out = assignString(out, "plan", u.Plan)
	out = assignString(out, "eligibility_status", u.EligibilityStatus)
	out = assignString(out, "annual_maximum", u.AnnualMaximum)
	out = assignString(out, "deductible", u.Deductible)
	out = assignString(out, "coverage", u.Coverage)
	out = assignString(out, "coverage_status", u.CoverageStatus)
	out = assignString(out, "waiting_period", u.WaitingPeriod)
	out = assignString(out, "frequency_limitations", u.FrequencyLimitations)
	out = assignString(out, "frequency_limitations_status", u.FrequencyLimitationsStatus)
	out = assignString(out, "downgrades_exclusions", u.DowngradesExclusions)
	out = assignString(out, "pre_authorization", u.PreAuthorization)
	out = assignString(out, "contact_inquiries", u.ContactInquiries)
	if u.CalledStatus != nil {
		out = append(out, Assignment{Column: "called_status", Value: string(*u.CalledStatus)})
	}
	out = assignString(out, "call_transcript", u.CallTranscript)
	out = assignString(out, "call_summary", u.CallSummary)
	out = assignString(out, "call_duration", u.CallDuration)
	out = assignString(out, "call_recording", u.CallRecording)
	return out
}

// Apply writes the present fields onto r.
func (u UpdateInsuranceInput) Apply(r *InsuranceRecord) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setPtr := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}
	set(&r.Name, u.Name)
	set(&r.PhoneNumber, u.PhoneNumber)
	set(&r.MemberID, u.MemberID)
	setPtr(&r.AppointmentDate, u.AppointmentDate)
	setPtr(&r.LastAppointment, u.LastAppointment)
	setPtr(&r.InsuranceCompany, u.InsuranceCompany)
	setPtr(&r.DOB, u.DOB)
	setPtr(&r.Subscriber, u.Subscriber)
	setPtr(&r.Plan, u.Plan)
	setPtr(&r.EligibilityStatus, u.EligibilityStatus)
	setPtr(&r.AnnualMaximum, u.AnnualMaximum)
	setPtr(&r.Deductible, u.Deductible)
	setPtr(&r.Coverage, u.Coverage)
	setPtr(&r.CoverageStatus, u.CoverageStatus)
	setPtr(&r.WaitingPeriod, u.WaitingPeriod)
	setPtr(&r.FrequencyLimitations, u.FrequencyLimitations)
	setPtr(&r.FrequencyLimitationsStatus, u.FrequencyLimitationsStatus)
	setPtr(&r.DowngradesExclusions, u.DowngradesExclusions)
	setPtr(&r.PreAuthorization, u.PreAuthorization)
	setPtr(&r.ContactInquiries, u.ContactInquiries)
	if u.CalledStatus != nil {
		r.CalledStatus = *u.CalledStatus
	}
	setPtr(&r.CallTranscript, u.CallTranscript)
	setPtr(&r.CallSummary, u.CallSummary)
	setPtr(&r.CallDuration, u.CallDuration)
	setPtr(&r.CallRecording, u.CallRecording)
}
