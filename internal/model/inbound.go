package model

import "strings"

type AppointmentType string

const (
	AppointmentTypeNew       AppointmentType = "New"
	AppointmentTypeReturning AppointmentType = "Returning"
)

func (t AppointmentType) Valid() bool {
	return t == AppointmentTypeNew || t == AppointmentTypeReturning
}

type CallStatus string

const (
	CallStatusNotCalled    CallStatus = "not_called"
	CallStatusCompleted    CallStatus = "completed"
	CallStatusAttempted    CallStatus = "attempted"
	CallStatusNotReachable CallStatus = "not_reachable"
	CallStatusCanceled     CallStatus = "canceled"

	DefaultCallStatus = CallStatusNotCalled
)

func (s CallStatus) Valid() bool {
	switch s {
	case CallStatusNotCalled, CallStatusCompleted, CallStatusAttempted, CallStatusNotReachable, CallStatusCanceled:
		return true
	}
	return false
}

type TransferStatus string

const (
	TransferStatusNotTransferred TransferStatus = "not_transferred"
	TransferStatusTransferred    TransferStatus = "transferred"
	TransferStatusNotRequired    TransferStatus = "not_required"
	TransferStatusFailed         TransferStatus = "failed"

	DefaultTransferStatus = TransferStatusNotTransferred
)

func (s TransferStatus) Valid() bool {
	switch s {
	case TransferStatusNotTransferred, TransferStatusTransferred, TransferStatusNotRequired, TransferStatusFailed:
		return true
	}
	return false
}

// InboundSearchColumns are matched by the free-text search.
var InboundSearchColumns = []string{
	"name", "appointment_number", "dob", "phone", "address", "insurance_name", "member_id",
}

// InboundFields is an inbound appointment without its store-assigned fields.
// InsuranceName, MemberID and GroupNumber only mean something when
// InsurancePolicy is true; nothing here enforces that.
type InboundFields struct {
	Name                    *string         `db:"name" json:"name,omitempty"`
	AppointmentNumber       string          `db:"appointment_number" json:"appointment_number"`
	AppointmentDate         string          `db:"appointment_date" json:"appointment_date"`
	PreviousAppointmentDate *string         `db:"previous_appointment_date" json:"previous_appointment_date,omitempty"`
	Type                    AppointmentType `db:"type" json:"type"`
	DOB                     string          `db:"dob" json:"dob"`
	Phone                   string          `db:"phone" json:"phone"`
	Address                 string          `db:"address" json:"address"`
	InsurancePolicy         bool            `db:"insurance_policy" json:"insurance_policy"`
	InsuranceName           *string         `db:"insurance_name" json:"insurance_name,omitempty"`
	MemberID                *string         `db:"member_id" json:"member_id,omitempty"`
	GroupNumber             *string         `db:"group_number" json:"group_number,omitempty"`
	CallStatus              CallStatus      `db:"call_status" json:"call_status"`
	CallTransferStatus      TransferStatus  `db:"call_transfer_status" json:"call_transfer_status"`
	Transcript              *string         `db:"transcript" json:"transcript,omitempty"`
	Summary                 *string         `db:"summary" json:"summary,omitempty"`
}

// InboundRecord is a row of the inbound table.
type InboundRecord struct {
	Base
	InboundFields
}

// CreateInboundInput is the payload of a create. InsurancePolicy is a pointer
// so an omitted flag can be told apart from false.
type CreateInboundInput struct {
	Name                    *string         `json:"name"`
	AppointmentNumber       string          `json:"appointment_number"`
	AppointmentDate         string          `json:"appointment_date"`
	PreviousAppointmentDate *string         `json:"previous_appointment_date"`
	Type                    AppointmentType `json:"type"`
	DOB                     string          `json:"dob"`
	Phone                   string          `json:"phone"`
	Address                 string          `json:"address"`
	InsurancePolicy         *bool           `json:"insurance_policy"`
	InsuranceName           *string         `json:"insurance_name"`
	MemberID                *string         `json:"member_id"`
	GroupNumber             *string         `json:"group_number"`
	CallStatus              CallStatus      `json:"call_status"`
	CallTransferStatus      TransferStatus  `json:"call_transfer_status"`
	Transcript              *string         `json:"transcript"`
	Summary                 *string         `json:"summary"`
}

// MissingRequired lists the mandatory fields that are blank or absent.
func (in CreateInboundInput) MissingRequired() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("appointment_number", in.AppointmentNumber)
	check("appointment_date", in.AppointmentDate)
	check("type", string(in.Type))
	check("dob", in.DOB)
	check("phone", in.Phone)
	check("address", in.Address)
	if in.InsurancePolicy == nil {
		missing = append(missing, "insurance_policy")
	}
	return missing
}

// Fields applies the inbound defaults and returns the row payload.
func (in CreateInboundInput) Fields() InboundFields {
	f := InboundFields{
		Name:                    in.Name,
		AppointmentNumber:       in.AppointmentNumber,
		AppointmentDate:         in.AppointmentDate,
		PreviousAppointmentDate: in.PreviousAppointmentDate,
		Type:                    in.Type,
		DOB:                     in.DOB,
		Phone:                   in.Phone,
		Address:                 in.Address,
		InsuranceName:           in.InsuranceName,
		MemberID:                in.MemberID,
		GroupNumber:             in.GroupNumber,
		CallStatus:              in.CallStatus,
		CallTransferStatus:      in.CallTransferStatus,
		Transcript:              in.Transcript,
		Summary:                 in.Summary,
	}
	if in.InsurancePolicy != nil {
		f.InsurancePolicy = *in.InsurancePolicy
	}
	f.ApplyDefaults()
	return f
}

// ApplyDefaults fills the status defaults of a new inbound row.
func (f *InboundFields) ApplyDefaults() {
	if f.CallStatus == "" {
		f.CallStatus = DefaultCallStatus
	}
	if f.CallTransferStatus == "" {
		f.CallTransferStatus = DefaultTransferStatus
	}
}

// UpdateInboundInput is a partial update; nil means leave unchanged.
type UpdateInboundInput struct {
	Name                    *string          `json:"name"`
	AppointmentNumber       *string          `json:"appointment_number"`
	AppointmentDate         *string          `json:"appointment_date"`
	PreviousAppointmentDate *string          `json:"previous_appointment_date"`
	Type                    *AppointmentType `json:"type"`
	DOB                     *string          `json:"dob"`
	Phone                   *string          `json:"phone"`
	Address                 *string          `json:"address"`
	InsurancePolicy         *bool            `json:"insurance_policy"`
	InsuranceName           *string          `json:"insurance_name"`
	MemberID                *string          `json:"member_id"`
	GroupNumber             *string          `json:"group_number"`
	CallStatus              *CallStatus      `json:"call_status"`
	CallTransferStatus      *TransferStatus  `json:"call_transfer_status"`
	Transcript              *string          `json:"transcript"`
	Summary                 *string          `json:"summary"`
}

// BlankRequired lists mandatory fields that are present but empty.
func (u UpdateInboundInput) BlankRequired() []string {
	var blank []string
	check := func(name string, v *string) {
		if v != nil && strings.TrimSpace(*v) == "" {
			blank = append(blank, name)
		}
	}
	check("appointment_number", u.AppointmentNumber)
	check("appointment_date", u.AppointmentDate)
	check("dob", u.DOB)
	check("phone", u.Phone)
	check("address", u.Address)
	if u.Type != nil && *u.Type == "" {
		blank = append(blank, "type")
	}
	return blank
}

// Assignments returns the columns to set, in a stable order.
func (u UpdateInboundInput) Assignments() []Assignment {
	var out []Assignment
	out = assignString(out, "name", u.Name)
	out = assignString(out, "appointment_number", u.AppointmentNumber)
	out = assignString(out, "appointment_date", u.AppointmentDate)
	out = assignString(out, "previous_appointment_date", u.PreviousAppointmentDate)
	if u.Type != nil {
		out = append(out, Assignment{Column: "type", Value: string(*u.Type)})
	}
	out = assignString(out, "dob", u.DOB)
	out = assignString(out, "phone", u.Phone)
	out = assignString(out, "address", u.Address)
	if u.InsurancePolicy != nil {
		out = append(out, Assignment{Column: "insurance_policy", Value: *u.InsurancePolicy})
	}
	out = assignString(out, "insurance_name", u.InsuranceName)
	out = assignString(out, "member_id", u.MemberID)
	out = assignString(out, "group_number", u.GroupNumber)
	if u.CallStatus != nil {
		out = append(out, Assignment{Column: "call_status", Value: string(*u.CallStatus)})
	}
	if u.CallTransferStatus != nil {
		out = append(out, Assignment{Column: "call_transfer_status", Value: string(*u.CallTransferStatus)})
	}
	out = assignString(out, "transcript", u.Transcript)
	out = assignString(out, "summary", u.Summary)
	return out
}

// Apply writes the present fields onto r.
func (u UpdateInboundInput) Apply(r *InboundRecord) {
	if u.Name != nil {
		r.Name = StringPtr(*u.Name)
	}
	if u.AppointmentNumber != nil {
		r.AppointmentNumber = *u.AppointmentNumber
	}
	if u.AppointmentDate != nil {
		r.AppointmentDate = *u.AppointmentDate
	}
	if u.PreviousAppointmentDate != nil {
		r.PreviousAppointmentDate = StringPtr(*u.PreviousAppointmentDate)
	}
	if u.Type != nil {
		r.Type = *u.Type
	}
	if u.DOB != nil {
		r.DOB = *u.DOB
	}
	if u.Phone != nil {
		r.Phone = *u.Phone
	}
	if u.Address != nil {
		r.Address = *u.Address
	}
	if u.InsurancePolicy != nil {
		r.InsurancePolicy = *u.InsurancePolicy
	}
	if u.InsuranceName != nil {
		r.InsuranceName = StringPtr(*u.InsuranceName)
	}
	if u.MemberID != nil {
		r.MemberID = StringPtr(*u.MemberID)
	}
	if u.GroupNumber != nil {
		r.GroupNumber = StringPtr(*u.GroupNumber)
	}
	if u.CallStatus != nil {
		r.CallStatus = *u.CallStatus
	}
	if u.CallTransferStatus != nil {
		r.CallTransferStatus = *u.CallTransferStatus
	}
	if u.Transcript != nil {
		r.Transcript = StringPtr(*u.Transcript)
	}
	if u.Summary != nil {
		r.Summary = StringPtr(*u.Summary)
	}
}
