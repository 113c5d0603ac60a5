package importer

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/insurance-crm/internal/model"
	"github.com/jwalitptl/insurance-crm/pkg/errors"
)

type captureCreator struct {
	mu      sync.Mutex
	calls   int
	rows    []model.CreateInsuranceInput
	err     error
	entered chan struct{}
	release chan struct{}
}

func (c *captureCreator) BulkCreate(_ context.Context, in []model.CreateInsuranceInput) (int, error) {
	if c.entered != nil {
		c.entered <- struct{}{}
		<-c.release
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	c.rows = append(c.rows, in...)
	return len(in), nil
}

func newTestImporter(c BulkCreator) *Importer {
	im := NewImporter(c, 0, nil, nil)
	im.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return im
}

func TestImport_DropsRowsMissingMandatoryFields(t *testing.T) {
	csv := "name,phone_number,member_id\n" +
		"Ann,555-0001,M1\n" +
		"Bob,555-0002,\n" +
		"Cid,555-0003,M3\n" +
		"Dee,555-0004,   \n" +
		"Eve,555-0005,M5\n"
	c := &captureCreator{}

	res, err := newTestImporter(c).Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, c.calls)
	assert.Len(t, c.rows, 3)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, "Successfully imported 3 records", res.Message)
}

func TestImport_NoValidRows(t *testing.T) {
	csv := "name,phone_number,member_id\n,555-0001,M1\nBob,,M2\n"
	c := &captureCreator{}

	res, err := newTestImporter(c).Import(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrEmptyResult))
	assert.Equal(t, "no valid records to import", errors.DisplayMessage(err))
	assert.Zero(t, c.calls)
}

func TestImport_HeaderOnly(t *testing.T) {
	c := &captureCreator{}
	_, err := newTestImporter(c).Import(context.Background(), strings.NewReader("name,phone_number,member_id\n"))
	assert.True(t, errors.Is(err, errors.ErrEmptyResult))
	assert.Zero(t, c.calls)
}

func TestImport_ParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"bad quoting", "name,phone_number,member_id\n\"Ann\"x,555,M1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &captureCreator{}
			_, err := newTestImporter(c).Import(context.Background(), strings.NewReader(tt.input))
			assert.True(t, errors.Is(err, errors.ErrParse))
			assert.Zero(t, c.calls)
		})
	}
}

func TestImport_TooLarge(t *testing.T) {
	c := &captureCreator{}
	im := NewImporter(c, 16, nil, nil)
	_, err := im.Import(context.Background(), strings.NewReader("name,phone_number,member_id\nAnn,555,M1\n"))
	assert.True(t, errors.Is(err, errors.ErrParse))
	assert.Zero(t, c.calls)
}

func TestImport_NormalizesHeadersAndValues(t *testing.T) {
	csv := "\xEF\xBB\xBF Name , Phone  Number,MEMBER ID,DOB,Appointment Date,Last Appointment,Annual Maximum,Deductible,Called Status,Favourite Colour\n" +
		"\n" +
		"Ann,555-0001,M1,03/04/1980,,soon,\"$1,500.00\",abc,call succeeded,blue\n" +
		"Bob,555-0002,M2\n"
	c := &captureCreator{}

	res, err := newTestImporter(c).Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, c.rows, 2)

	ann := c.rows[0]
	assert.Equal(t, "Ann", ann.Name)
	assert.Equal(t, "1980-03-04", model.Deref(ann.DOB))
	assert.Equal(t, "2024-03-15", model.Deref(ann.AppointmentDate))
	assert.Equal(t, "soon", model.Deref(ann.LastAppointment))
	assert.Equal(t, "1500", model.Deref(ann.AnnualMaximum))
	assert.Nil(t, ann.Deductible)
	assert.Equal(t, model.DefaultCalledStatus, ann.CalledStatus)

	bob := c.rows[1]
	assert.Equal(t, "2024-03-15", model.Deref(bob.DOB))
	assert.Nil(t, bob.LastAppointment)
	assert.Nil(t, bob.AnnualMaximum)
}

func TestImport_StoreFailureSurfaces(t *testing.T) {
	c := &captureCreator{err: errors.NewBackend(stderrors.New("pq: relation \"insurance_details\" does not exist"))}

	res, err := newTestImporter(c).Import(context.Background(), strings.NewReader("name,phone_number,member_id\nAnn,555,M1\n"))
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, errors.ErrBackend))
	assert.Equal(t, `pq: relation "insurance_details" does not exist`, errors.DisplayMessage(err))
}

func TestImport_ConcurrentImportConflicts(t *testing.T) {
	c := &captureCreator{entered: make(chan struct{}), release: make(chan struct{})}
	im := newTestImporter(c)
	body := "name,phone_number,member_id\nAnn,555,M1\n"

	done := make(chan error, 1)
	go func() {
		_, err := im.Import(context.Background(), strings.NewReader(body))
		done <- err
	}()
	<-c.entered

	_, err := im.Import(context.Background(), strings.NewReader(body))
	assert.True(t, errors.Is(err, errors.ErrConflict))

	close(c.release)
	require.NoError(t, <-done)

	c.entered = nil
	_, err = im.Import(context.Background(), strings.NewReader(body))
	assert.NoError(t, err)
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "phone_number", NormalizeHeader("  Phone\tNumber "))
	assert.Equal(t, "member_id", NormalizeHeader("MEMBER_ID"))
}
