// Package importer turns an uploaded CSV of insurance rows into one bulk
// create.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx/reflectx"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/pkg/dateutil"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
	"github.com/jwalitptl/insurance-crm/pkg/logger"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

const DefaultMaxBytes int64 = 10 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BulkCreator receives the surviving rows in a single call.
type BulkCreator interface {
	BulkCreate(ctx context.Context, in []model.CreateInsuranceInput) (int, error)
}

// Result reports what an import did.
type Result struct {
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
}

type Importer struct {
	creator  BulkCreator
	maxBytes int64
	metrics  *metrics.Metrics
	log      *logger.Logger
	fields   map[string]*reflectx.FieldInfo
	running  atomic.Bool
	now      func() time.Time
}

func NewImporter(creator BulkCreator, maxBytes int64, m *metrics.Metrics, log *logger.Logger) *Importer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	tm := reflectx.NewMapper("db").TypeMap(reflect.TypeOf(model.InsuranceFields{}))
	return &Importer{
		creator:  creator,
		maxBytes: maxBytes,
		metrics:  m,
		log:      log.With("importer"),
		fields:   tm.Names,
		now:      time.Now,
	}
}

// Import parses r and submits every valid row. Only one import runs at a
// time; a second caller gets a conflict instead of waiting.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	if !im.running.CompareAndSwap(false, true) {
		return nil, errors.NewConflict("an import is already in progress")
	}
	defer im.running.Store(false)

	res, err := im.run(ctx, r)
	if res != nil {
		im.metrics.ObserveImport(res.Imported, res.Skipped, err)
	} else {
		im.metrics.ObserveImport(0, 0, err)
	}
	if err != nil {
		return nil, err
	}

	im.log.Info("csv import finished", "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

func (im *Importer) run(ctx context.Context, r io.Reader) (*Result, error) {
	header, records, err := im.read(r)
	if err != nil {
		return nil, err
	}

	today := dateutil.Today(im.now())
	inputs := make([]model.CreateInsuranceInput, 0, len(records))
	skipped := 0
	for _, rec := range records {
		in, ok := im.toInput(header, rec, today)
		if !ok {
			skipped++
			continue
		}
		inputs = append(inputs, in)
	}

	res := &Result{Skipped: skipped, Total: len(records)}
	if len(inputs) == 0 {
		return res, errors.NewEmptyResult("no valid records to import")
	}

	if _, err := im.creator.BulkCreate(ctx, inputs); err != nil {
		return res, err
	}

	res.Imported = len(inputs)
	res.Message = fmt.Sprintf("Successfully imported %d records", res.Imported)
	return res, nil
}

// read returns the normalized header and every non-blank data row.
func (im *Importer) read(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, im.maxBytes+1))
	if err != nil {
		return nil, nil, errors.NewParse("failed to read upload", err)
	}
	if int64(len(data)) > im.maxBytes {
		return nil, nil, errors.NewParse(fmt.Sprintf("file exceeds %d bytes", im.maxBytes), nil)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	raw, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.NewParse("file is empty or has no header row", nil)
	}
	if err != nil {
		return nil, nil, errors.NewParse(fmt.Sprintf("failed to parse CSV: %v", err), err)
	}
	header := make([]string, len(raw))
	for i, h := range raw {
		header[i] = NormalizeHeader(h)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.NewParse(fmt.Sprintf("failed to parse CSV: %v", err), err)
		}
		if blank(rec) {
			continue
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// toInput maps a row onto the insurance payload. False means a mandatory
// column is empty.
func (im *Importer) toInput(header, rec []string, today string) (model.CreateInsuranceInput, bool) {
	var in model.CreateInsuranceInput
	v := reflect.ValueOf(&in).Elem()

	for i, col := range header {
		if i >= len(rec) || col == "called_status" {
			continue
		}
		fi, ok := im.fields[col]
		if !ok {
			continue
		}
		val := strings.TrimSpace(rec[i])
		if val == "" {
			continue
		}
		f := v.FieldByIndex(fi.Index)
		switch {
		case f.Kind() == reflect.String:
			if f.Len() == 0 {
				f.SetString(val)
			}
		case f.Type() == reflect.TypeOf((*string)(nil)):
			if f.IsNil() {
				f.Set(reflect.ValueOf(model.StringPtr(val)))
			}
		}
	}

	if len(in.MissingRequired()) > 0 {
		return in, false
	}

	in.DOB = dateOrToday(in.DOB, today)
	in.AppointmentDate = dateOrToday(in.AppointmentDate, today)
	if in.LastAppointment != nil {
		s, _ := dateutil.Normalize(*in.LastAppointment)
		in.LastAppointment = &s
	}
	in.AnnualMaximum = model.NormalizeMoney(in.AnnualMaximum)
	in.Deductible = model.NormalizeMoney(in.Deductible)
	in.ApplyDefaults()
	return in, true
}

func dateOrToday(s *string, today string) *string {
	if s == nil {
		return model.StringPtr(today)
	}
	out, _ := dateutil.Normalize(*s)
	return &out
}

// NormalizeHeader trims, lower-cases and joins inner whitespace with "_".
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
