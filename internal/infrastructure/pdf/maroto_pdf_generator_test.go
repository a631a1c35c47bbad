package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

var ts = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func isPDF(t *testing.T, b []byte) {
	t.Helper()
	require.NotEmpty(t, b)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "no empieza con %%PDF")
}

func TestCertificate(t *testing.T) {
	b, err := NewMarotoPDFGenerator().Certificate(ports.CertificateData{
		CertificateID: "2aVv1h3k0eZf7pKx",
		HolderName:    "Ana Smith",
		CourseTitle:   "Moving and Handling",
		Category:      "Mandatory",
		DurationMin:   90,
		CompletedAt:   ts,
	})
	require.NoError(t, err)
	isPDF(t, b)
}

func TestShiftReport(t *testing.T) {
	s := &entity.Shift{
		Title: "Night", Location: entity.ShiftLocation{Name: "Ward 3"},
		StartTime: ts, EndTime: ts.Add(8 * time.Hour),
		PayRate: decimal.NewFromInt(20), Status: "completed",
	}
	g := NewMarotoPDFGenerator()

	b, err := g.ShiftReport(ports.ShiftReportData{
		From: ts, To: ts.AddDate(0, 0, 7),
		Rows:       []ports.ShiftReportRow{{Shift: s, AssigneeName: "Ana Smith"}},
		TotalHours: s.Hours(), TotalPay: s.TotalPay(), Generated: ts,
	})
	require.NoError(t, err)
	isPDF(t, b)

	empty, err := g.ShiftReport(ports.ShiftReportData{From: ts, To: ts, Generated: ts})
	require.NoError(t, err)
	isPDF(t, empty)
}

func TestProfileExport(t *testing.T) {
	end := ts.AddDate(-1, 0, 0)
	u := &entity.User{
		FirstName: "Ana", LastName: "Smith", Email: "ana@example.com", JobRole: "Support Worker",
		Address:     entity.Address{Street: "1 High St", Postcode: "SW1A 1AA", Country: "UK"},
		BankDetails: &entity.BankDetails{BankName: "Barclays", AccountNumber: "12345678", SortCode: "00-00-00"},
		WorkHistory: []entity.WorkHistoryEntry{{Employer: "NHS", Position: "HCA", StartDate: ts.AddDate(-3, 0, 0), EndDate: &end}},
		Trainings:   []entity.TrainingRecord{{Name: "Fire Safety", Passed: true, DatePassed: &ts}},
		References:  []entity.Reference{{Name: "Bob", Company: "NHS"}},
	}

	b, err := NewMarotoPDFGenerator().ProfileExport(u, ts)
	require.NoError(t, err)
	isPDF(t, b)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 min", formatDuration(45))
	assert.Equal(t, "2 h", formatDuration(120))
	assert.Equal(t, "1 h 30 min", formatDuration(90))
	assert.Equal(t, "-", formatDuration(0))
}
