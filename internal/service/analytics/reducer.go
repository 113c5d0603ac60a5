package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/pkg/dateutil"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
)

const (
	Unknown      = "Unknown"
	MonthLabel   = "Jan 2006"
	TopCompanies = 8
)

// Window is the look-back range of the monthly histogram.
type Window string

const (
	Window30Days  Window = "30days"
	Window90Days  Window = "90days"
	Window6Months Window = "6months"
	Window1Year   Window = "1year"

	DefaultWindow = Window90Days
)

var windowMonths = map[Window]int{
	Window30Days:  1,
	Window90Days:  3,
	Window6Months: 6,
	Window1Year:   12,
}

func (w Window) Months() int {
	return windowMonths[w]
}

// ParseWindow accepts one of the four window names; empty means the default.
func ParseWindow(s string) (Window, error) {
	if s == "" {
		return DefaultWindow, nil
	}
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := windowMonths[w]; !ok {
		return "", errors.NewValidation(fmt.Sprintf("range must be one of [30days 90days 6months 1year], got %q", s))
	}
	return w, nil
}

type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type MonthBucket struct {
	Month     string `json:"month"`
	Count     int    `json:"count"`
	PastCount int    `json:"past_count"`
}

type DeductiblePoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type Summary struct {
	TotalRecords          int     `json:"total_records"`
	ScheduledAppointments int     `json:"scheduled_appointments"`
	ActiveInsurance       int     `json:"active_insurance"`
	AverageDeductible     float64 `json:"average_deductible"`
	CallsNeeded           int     `json:"calls_needed"`
}

// KeyFunc picks the grouping value of a record.
type KeyFunc func(r *model.InsuranceRecord) string

func orUnknown(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return Unknown
	}
	return *s
}

func CompanyKey(r *model.InsuranceRecord) string        { return orUnknown(r.InsuranceCompany) }
func EligibilityKey(r *model.InsuranceRecord) string    { return orUnknown(r.EligibilityStatus) }
func CoverageStatusKey(r *model.InsuranceRecord) string { return orUnknown(r.CoverageStatus) }

func CalledStatusKey(r *model.InsuranceRecord) string {
	if r.CalledStatus == "" {
		return string(model.DefaultCalledStatus)
	}
	return string(r.CalledStatus)
}

// Distribution counts records per key, largest first with ties by name,
// keeping at most topN buckets when topN > 0.
func Distribution(records []model.InsuranceRecord, key KeyFunc, topN int) []Bucket {
	counts := make(map[string]int)
	for i := range records {
		counts[key(&records[i])]++
	}

	out := make([]Bucket, 0, len(counts))
	for name, n := range counts {
		out = append(out, Bucket{Name: name, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// MonthlyHistogram buckets appointment_date (count) and last_appointment
// (past_count) into the calendar months whose first day falls inside
// [now - window, now]. The window starts at midnight, so the result does not
// depend on the time of day.
func MonthlyHistogram(records []model.InsuranceRecord, w Window, now time.Time) []MonthBucket {
	start := dateutil.StartOfDay(subMonths(now, w.Months()))

	buckets := []MonthBucket{}
	index := make(map[string]int)
	for m := dateutil.StartOfMonth(start); !m.After(now); m = m.AddDate(0, 1, 0) {
		if m.Before(start) {
			continue
		}
		label := m.Format(MonthLabel)
		index[label] = len(buckets)
		buckets = append(buckets, MonthBucket{Month: label})
	}

	bucketOf := func(s *string) (int, bool) {
		t, ok := parseIn(s, now.Location())
		if !ok || t.Before(start) || t.After(now) {
			return 0, false
		}
		i, ok := index[t.Format(MonthLabel)]
		return i, ok
	}
	for i := range records {
		if b, ok := bucketOf(records[i].AppointmentDate); ok {
			buckets[b].Count++
		}
		if b, ok := bucketOf(records[i].LastAppointment); ok {
			buckets[b].PastCount++
		}
	}
	return buckets
}

// Summarize computes the headline numbers. Deductibles that are absent or
// not numeric are left out of the average.
func Summarize(records []model.InsuranceRecord, now time.Time) Summary {
	s := Summary{TotalRecords: len(records)}
	today := dateutil.StartOfDay(now)

	var sum float64
	var n int
	for i := range records {
		r := &records[i]
		if t, ok := parseIn(r.AppointmentDate, now.Location()); ok && !t.Before(today) {
			s.ScheduledAppointments++
		}
		if model.Deref(r.EligibilityStatus) == "Active" {
			s.ActiveInsurance++
		}
		if r.Deductible != nil {
			if v, ok := model.ParseMoney(*r.Deductible); ok {
				sum += v
				n++
			}
		}
		if CalledStatusKey(r) == string(model.CalledStatusNotCalled) {
			s.CallsNeeded++
		}
	}
	if n > 0 {
		s.AverageDeductible = sum / float64(n)
	}
	return s
}

// Deductibles lists each parseable deductible with its company, smallest first.
func Deductibles(records []model.InsuranceRecord) []DeductiblePoint {
	out := []DeductiblePoint{}
	for i := range records {
		if records[i].Deductible == nil {
			continue
		}
		v, ok := model.ParseMoney(*records[i].Deductible)
		if !ok {
			continue
		}
		out = append(out, DeductiblePoint{Name: CompanyKey(&records[i]), Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// parseIn reads a stored date as wall-clock time in loc.
func parseIn(s *string, loc *time.Location) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, ok := dateutil.Parse(*s)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), true
}

// subMonths steps back n calendar months, clamping the day to the target
// month's length.
func subMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
