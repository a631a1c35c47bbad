// Package pdf genera los documentos PDF de la plataforma con Maroto v2:
//
//	Certificate   certificado de curso completado (A4 apaisado, QR con el id)
//	ShiftReport   informe de turnos de un periodo (tabla + totales)
//	ProfileExport ficha del profesional (datos, historial, formación)
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
	"github.com/whizkidefos/employee-management-api/pkg/money"
)

const brand = "Employee Management"

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 184}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ ports.PDFRenderer = (*MarotoPDFGenerator)(nil)

type MarotoPDFGenerator struct{}

func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

func newDoc(title string, landscape bool) core.Maroto {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(brand, true)
	if landscape {
		b = b.WithOrientation(orientation.Horizontal)
	}
	return maroto.New(b.Build())
}

func render(m core.Maroto, what string) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar %s: %w", what, err)
	}
	return doc.GetBytes(), nil
}

// Certificate certificado de finalización.
func (g *MarotoPDFGenerator) Certificate(d ports.CertificateData) ([]byte, error) {
	m := newDoc("Certificate of Completion", true)
	center := func(s string, size float64, style fontstyle.Type, top float64, c *props.Color) core.Row {
		return row.New(size + top + 2).Add(col.New(12).Add(text.New(s, props.Text{
			Size: size, Style: style, Align: align.Center, Top: top, Color: c,
		})))
	}

	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 1.2}))
	m.AddRows(
		center(brand, 12, fontstyle.Bold, 6, colorPrimary),
		center("CERTIFICATE OF COMPLETION", 24, fontstyle.Bold, 8, nil),
		center("This is to certify that", 11, fontstyle.Italic, 6, colorGray),
		center(d.HolderName, 22, fontstyle.Bold, 4, colorPrimary),
		center("has successfully completed the course", 11, fontstyle.Italic, 4, colorGray),
		center(d.CourseTitle, 18, fontstyle.Bold, 4, nil),
	)
	details := fmt.Sprintf("Category: %s   |   Duration: %s   |   Completed: %s",
		nonEmpty(d.Category, "General"), formatDuration(d.DurationMin), d.CompletedAt.Format("02 January 2006"))
	m.AddRows(center(details, 9, fontstyle.Normal, 6, colorGray))

	m.AddRows(row.New(36).Add(
		col.New(9).Add(
			text.New("Certificate ID", props.Text{Size: 8, Top: 14, Color: colorGray}),
			text.New(d.CertificateID, props.Text{Size: 10, Style: fontstyle.Bold, Top: 19}),
		),
		col.New(3).Add(code.NewQr(d.CertificateID, props.Rect{Percent: 90, Center: true})),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 1.2}))
	return render(m, "certificado")
}

// ShiftReport tabla de turnos con horas y pago.
func (g *MarotoPDFGenerator) ShiftReport(d ports.ShiftReportData) ([]byte, error) {
	m := newDoc("Shift Report", false)

	m.AddRows(row.New(18).Add(
		col.New(8).Add(
			text.New(brand, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Shift report", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%s - %s", d.From.Format("02/01/2006"), d.To.Format("02/01/2006")), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2,
			}),
			text.New("Generated "+d.Generated.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(shiftHeaderRow())
	if len(d.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New("No shifts in this period.", props.Text{
			Size: 9, Align: align.Center, Top: 3, Color: colorGray,
		}))))
	}
	for _, r := range d.Rows {
		m.AddRows(shiftRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Total hours:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1}),
			text.New("Total pay:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 7, Color: colorPrimary}),
		),
		col.New(3).Add(
			text.New(d.TotalHours.StringFixed(2), props.Text{Size: 9, Align: align.Right, Top: 1}),
			text.New(money.FormatGBP(d.TotalPay), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7, Color: colorPrimary}),
		),
	))
	return render(m, "informe de turnos")
}

func shiftHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Date", 2, align.Left),
		h("Shift", 3, align.Left),
		h("Location", 2, align.Left),
		h("Assignee", 2, align.Left),
		h("Status", 1, align.Center),
		h("Hours", 1, align.Right),
		h("Pay", 1, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func shiftRow(r ports.ShiftReportRow) core.Row {
	s := r.Shift
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(s.StartTime.Format("02/01 15:04"), 2, align.Left),
		cell(s.Title, 3, align.Left),
		cell(s.Location.Name, 2, align.Left),
		cell(nonEmpty(r.AssigneeName, "-"), 2, align.Left),
		cell(s.Status, 1, align.Center),
		cell(s.Hours().StringFixed(2), 1, align.Right),
		cell(money.FormatGBP(s.TotalPay()), 1, align.Right),
	)
}

// ProfileExport ficha del profesional. Los datos bancarios salen enmascarados.
func (g *MarotoPDFGenerator) ProfileExport(u *entity.User, generated time.Time) ([]byte, error) {
	m := newDoc("Profile "+u.FullName(), false)

	m.AddRows(row.New(18).Add(
		col.New(8).Add(
			text.New(u.FullName(), props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(u.JobRole, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(brand, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2}),
			text.New("Exported "+generated.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(section("Personal details"))
	m.AddRows(
		field("Email", u.Email),
		field("Phone", u.PhoneNumber),
		field("Username", u.Username),
		field("Nationality", u.Nationality),
		field("Right to work", yesNo(u.RightToWork)),
		field("Enhanced DBS", yesNo(u.EnhancedDBS.Has)),
		field("Address", formatAddress(u.Address)),
	)
	if u.DateOfBirth != nil {
		m.AddRows(field("Date of birth", u.DateOfBirth.Format("02/01/2006")))
	}
	if u.BankDetails != nil {
		m.AddRows(field("Bank", u.BankDetails.BankName+" ****"+lastN(u.BankDetails.AccountNumber, 4)))
	}

	if len(u.WorkHistory) > 0 {
		m.AddRows(section("Work history"))
		for _, w := range u.WorkHistory {
			end := "present"
			if w.EndDate != nil {
				end = w.EndDate.Format("01/2006")
			}
			m.AddRows(field(w.StartDate.Format("01/2006")+" - "+end, w.Position+", "+w.Employer))
		}
	}
	if len(u.Trainings) > 0 {
		m.AddRows(section("Training"))
		for _, t := range u.Trainings {
			when := ""
			if t.DatePassed != nil {
				when = t.DatePassed.Format("02/01/2006")
			}
			m.AddRows(field(nonEmpty(when, "-"), t.Name+" ("+passed(t.Passed)+")"))
		}
	}
	if len(u.References) > 0 {
		m.AddRows(section("References"))
		for _, r := range u.References {
			m.AddRows(field(r.Name, strings.Join(nonBlank(r.Position, r.Company, r.Email), ", ")))
		}
	}
	return render(m, "perfil")
}

func section(title string) core.Row {
	return row.New(10).Add(col.New(12).Add(text.New(strings.ToUpper(title), props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 4,
	})))
}

func field(label, value string) core.Row {
	return row.New(6).Add(
		col.New(4).Add(text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1})),
		col.New(8).Add(text.New(nonEmpty(value, "-"), props.Text{Size: 9, Top: 1})),
	)
}

func formatAddress(a entity.Address) string {
	return strings.Join(nonBlank(a.Street, a.Postcode, a.Country), ", ")
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func passed(b bool) string {
	if b {
		return "passed"
	}
	return "pending"
}
