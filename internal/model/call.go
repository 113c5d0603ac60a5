package model

import "strings"

type PharmacyCallStatus string

const (
	PharmacyCallStatusCalled    PharmacyCallStatus = "Called"
	PharmacyCallStatusNotCalled PharmacyCallStatus = "Not Called"

	DefaultPharmacyCallStatus = PharmacyCallStatusNotCalled
)

func (s PharmacyCallStatus) Valid() bool {
	return s == PharmacyCallStatusCalled || s == PharmacyCallStatusNotCalled
}

type CallOutcome string

const (
	CallOutcomeSuccessful CallOutcome = "Successful"
	CallOutcomeFailed     CallOutcome = "Failed"

	DefaultCallOutcome = CallOutcomeFailed
)

func (o CallOutcome) Valid() bool {
	return o == CallOutcomeSuccessful || o == CallOutcomeFailed
}

// CallSearchColumns are matched by the free-text search.
var CallSearchColumns = []string{"pharmacy", "drug", "phonenumber"}

// CallFields is a pharmacy call task without its store-assigned fields.
type CallFields struct {
	Pharmacy       string             `db:"pharmacy" json:"pharmacy"`
	Drug           string             `db:"drug" json:"drug"`
	SpecialRequest string             `db:"special_request" json:"special_request"`
	PhoneNumber    string             `db:"phonenumber" json:"phonenumber"`
	CallStatus     PharmacyCallStatus `db:"call_status" json:"call_status"`
	Status         CallOutcome        `db:"status" json:"status"`
	Response       *string            `db:"response" json:"response,omitempty"`
	DeliveryTime   *string            `db:"delivery_time" json:"delivery_time,omitempty"`
	Summary        *string            `db:"summary" json:"summary,omitempty"`
	Transcript     *string            `db:"transcript" json:"transcript,omitempty"`
	CallRecording  *string            `db:"call_recording" json:"call_recording,omitempty"`
}

// Call is a row of the calls table.
type Call struct {
	Base
	CallFields
}

type CreateCallInput = CallFields

// ApplyDefaults fills the status defaults of a new call task.
func (f *CallFields) ApplyDefaults() {
	if f.CallStatus == "" {
		f.CallStatus = DefaultPharmacyCallStatus
	}
	if f.Status == "" {
		f.Status = DefaultCallOutcome
	}
}

func (f CallFields) MissingRequired() []string {
	if strings.TrimSpace(f.PhoneNumber) == "" {
		return []string{"phonenumber"}
	}
	return nil
}

// UpdateCallInput is a partial update; nil means leave unchanged.
type UpdateCallInput struct {
	Pharmacy       *string             `json:"pharmacy"`
	Drug           *string             `json:"drug"`
	SpecialRequest *string             `json:"special_request"`
	PhoneNumber    *string             `json:"phonenumber"`
	CallStatus     *PharmacyCallStatus `json:"call_status"`
	Status         *CallOutcome        `json:"status"`
	Response       *string             `json:"response"`
	DeliveryTime   *string             `json:"delivery_time"`
	Summary        *string             `json:"summary"`
	Transcript     *string             `json:"transcript"`
	CallRecording  *string             `json:"call_recording"`
}

func (u UpdateCallInput) BlankRequired() []string {
	if u.PhoneNumber != nil && strings.TrimSpace(*u.PhoneNumber) == "" {
		return []string{"phonenumber"}
	}
	return nil
}

func (u UpdateCallInput) Assignments() []Assignment {
	var out []Assignment
	out = assignString(out, "pharmacy", u.Pharmacy)
	out = assignString(out, "drug", u.Drug)
	out = assignString(out, "special_request", u.SpecialRequest)
	out = assignString(out, "phonenumber", u.PhoneNumber)
	if u.CallStatus != nil {
		out = append(out, Assignment{Column: "call_status", Value: string(*u.CallStatus)})
	}
	if u.Status != nil {
		out = append(out, Assignment{Column: "status", Value: string(*u.Status)})
	}
	out = assignString(out, "response", u.Response)
	out = assignString(out, "delivery_time", u.DeliveryTime)
	out = assignString(out, "summary", u.Summary)
	out = assignString(out, "transcript", u.Transcript)
	out = assignString(out, "call_recording", u.CallRecording)
	return out
}

func (u UpdateCallInput) Apply(c *Call) {
	if u.Pharmacy != nil {
		c.Pharmacy = *u.Pharmacy
	}
	if u.Drug != nil {
		c.Drug = *u.Drug
	}
	if u.SpecialRequest != nil {
		c.SpecialRequest = *u.SpecialRequest
	}
	if u.PhoneNumber != nil {
		c.PhoneNumber = *u.PhoneNumber
	}
	if u.CallStatus != nil {
		c.CallStatus = *u.CallStatus
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.Response != nil {
		c.Response = StringPtr(*u.Response)
	}
	if u.DeliveryTime != nil {
		c.DeliveryTime = StringPtr(*u.DeliveryTime)
	}
	if u.Summary != nil {
		c.Summary = StringPtr(*u.Summary)
	}
	if u.Transcript != nil {
		c.Transcript = StringPtr(*u.Transcript)
	}
	if u.CallRecording != nil {
		c.CallRecording = StringPtr(*u.CallRecording)
	}
}
