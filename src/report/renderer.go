// Package report renders the yearly tax and approval reports as PDF.
package report

import (
	"bytes"
	"fmt"

	"diary-app/src/domain"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 15.0
	rowHeight    = 7.0
	bottomMargin = 18.0
)

type rgb struct{ r, g, b int }

var (
	colorTitle    = rgb{44, 62, 80}
	colorTaxHead  = rgb{52, 152, 219}
	colorApprHead = rgb{46, 204, 113}
	colorPanel    = rgb{248, 249, 250}
	colorDone     = rgb{39, 174, 96}
	colorPending  = rgb{231, 76, 60}
)

type column struct {
	title string
	width float64
	align string
}

type cell struct {
	text  string
	color *rgb
}

// Renderer builds A4 reports with the PDF core fonts.
// Text outside cp1252 is replaced because core fonts carry no other glyphs.
type Renderer struct {
	creator string
}

// NewRenderer creates a report renderer
func NewRenderer() *Renderer {
	return &Renderer{creator: "diary-app"}
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *Renderer) newDocument(title string, generated domain.Date) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator(r.creator, true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	d.textColor(colorTitle)
	pdf.CellFormat(0, 12, d.tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Generated: "+generated.String(), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	return d
}

func (d *document) textColor(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

// panel draws a shaded block of label/value lines
func (d *document) panel(heading string, lines [][2]string) {
	pdf := d.pdf
	height := 10 + float64(len(lines))*6 + 2
	d.ensureSpace(height)

	x, y := pdf.GetX(), pdf.GetY()
	w, _ := pdf.GetPageSize()
	pdf.SetFillColor(colorPanel.r, colorPanel.g, colorPanel.b)
	pdf.Rect(x, y, w-2*pageMargin, height, "F")

	pdf.SetXY(x+4, y+2)
	pdf.SetFont("Helvetica", "B", 12)
	d.textColor(colorTitle)
	pdf.CellFormat(0, 7, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, line := range lines {
		pdf.SetX(x + 4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, d.tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.SetXY(x, y+height+4)
}

func (d *document) ensureSpace(height float64) {
	_, h := d.pdf.GetPageSize()
	if d.pdf.GetY()+height > h-bottomMargin {
		d.pdf.AddPage()
	}
}

func (d *document) tableHeader(cols []column, head rgb) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(head.r, head.g, head.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(221, 221, 221)
	for _, c := range cols {
		pdf.CellFormat(c.width, rowHeight+1, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
}

// table draws the rows, repeating the header on every new page
func (d *document) table(heading string, cols []column, head rgb, rows [][]cell) {
	pdf := d.pdf
	d.ensureSpace(10 + 2*rowHeight)
	pdf.SetFont("Helvetica", "B", 12)
	d.textColor(colorTitle)
	pdf.CellFormat(0, 9, heading, "", 1, "L", false, 0, "")

	d.tableHeader(cols, head)
	_, pageHeight := pdf.GetPageSize()
	for _, row := range rows {
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			d.tableHeader(cols, head)
		}
		for i, c := range cols {
			if row[i].color != nil {
				d.textColor(*row[i].color)
			}
			pdf.CellFormat(c.width, rowHeight, d.fit(row[i].text, c.width), "1", 0, c.align, false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// fit truncates text that would overflow a cell
func (d *document) fit(text string, width float64) string {
	s := d.tr(text)
	limit := width - 3
	if d.pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && d.pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func status(done bool, yes, no string) cell {
	if done {
		return cell{text: yes, color: &colorDone}
	}
	return cell{text: no, color: &colorPending}
}

func dateOr(d *domain.Date, fallback string) string {
	if d == nil || *d == "" {
		return fallback
	}
	return d.String()
}

func taxLines(s TaxSummary) [][2]string {
	return [][2]string{
		{"Total tax:", FormatAmount(s.Total)},
		{"Paid:", FormatAmount(s.Paid)},
		{"Unpaid:", FormatAmount(s.Unpaid)},
	}
}

func approvalLines(s ApprovalSummary) [][2]string {
	return [][2]string{
		{"Total amount:", FormatAmount(s.Total)},
		{"Transactions:", fmt.Sprintf("%d", s.Count)},
		{"Invoices issued:", fmt.Sprintf("%d", s.Issued)},
	}
}

var taxColumns = []column{
	{title: "Tax type", width: 50, align: "L"},
	{title: "Amount", width: 40, align: "R"},
	{title: "Status", width: 25, align: "C"},
	{title: "Due date", width: 32.5, align: "C"},
	{title: "Paid date", width: 32.5, align: "C"},
}

var approvalColumns = []column{
	{title: "Client", width: 70, align: "L"},
	{title: "Amount", width: 40, align: "R"},
	{title: "Date", width: 35, align: "C"},
	{title: "Tax invoice", width: 35, align: "C"},
}

func taxRows(taxes []domain.Tax) [][]cell {
	rows := make([][]cell, 0, len(taxes))
	for _, t := range taxes {
		rows = append(rows, []cell{
			{text: t.TaxType},
			{text: FormatAmount(t.TaxAmount)},
			status(t.IsPaid, "Paid", "Unpaid"),
			{text: dateOr(t.DueDate, "Not set")},
			{text: dateOr(t.PaidDate, "-")},
		})
	}
	return rows
}

func approvalRows(approvals []domain.Approval) [][]cell {
	rows := make([][]cell, 0, len(approvals))
	for _, a := range approvals {
		rows = append(rows, []cell{
			{text: a.ClientName},
			{text: FormatAmount(a.TransactionAmount)},
			{text: a.TransactionDate.String()},
			status(a.TaxInvoiceIssued, "Issued", "Not issued"),
		})
	}
	return rows
}

// Tax renders the yearly tax report
func (r *Renderer) Tax(taxes []domain.Tax, year int, generated domain.Date) ([]byte, error) {
	d := r.newDocument(fmt.Sprintf("%d Tax Report", year), generated)
	d.panel("Tax summary", taxLines(SummarizeTaxes(taxes)))
	d.table("Tax details", taxColumns, colorTaxHead, taxRows(taxes))
	return d.bytes()
}

// Approval renders the yearly approval report
func (r *Renderer) Approval(approvals []domain.Approval, year int, generated domain.Date) ([]byte, error) {
	d := r.newDocument(fmt.Sprintf("%d Approval Report", year), generated)
	d.panel("Approval summary", approvalLines(SummarizeApprovals(approvals)))
	d.table("Approval details", approvalColumns, colorApprHead, approvalRows(approvals))
	return d.bytes()
}

// Combined renders both summaries followed by the non-empty detail tables
func (r *Renderer) Combined(taxes []domain.Tax, approvals []domain.Approval, year int, generated domain.Date) ([]byte, error) {
	d := r.newDocument(fmt.Sprintf("%d Business Summary Report", year), generated)
	d.panel("Taxes", taxLines(SummarizeTaxes(taxes)))
	d.panel("Approvals", approvalLines(SummarizeApprovals(approvals)))
	if len(taxes) > 0 {
		d.table("Tax details", taxColumns, colorTaxHead, taxRows(taxes))
	}
	if len(approvals) > 0 {
		d.table("Approval details", approvalColumns, colorApprHead, approvalRows(approvals))
	}
	return d.bytes()
}
