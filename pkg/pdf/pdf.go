// Package pdf renders letters of intent and prospectus summaries.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth   = 215.9 // US Letter, mm
	marginSide  = 20.0
	contentWide = pageWidth - 2*marginSide
	lineHeight  = 6.0
)

// Party is who the document is from
type Party struct {
	Name    string
	Email   string
	Entity  string
	Address string
}

// LOI is everything printed on a letter of intent
type LOI struct {
	ID              string
	Issuer          string
	Investor        Party
	ProspectusTitle string
	Amount          int64
	Status          string
	SignatureName   string
	SignedAt        time.Time
	Notes           string
	CountersignedBy string
	CountersignedAt *time.Time
	GeneratedAt     time.Time
}

// Prospectus is the printable summary of an offering
type Prospectus struct {
	Issuer            string
	Title             string
	Summary           string
	Location          string
	AssetClass        string
	TargetRaise       int64
	MinimumInvestment int64
	ProjectedIRR      float64
	HoldPeriodYears   int
	Status            string
	Highlights        []string
	Paragraphs        []string
	GeneratedAt       time.Time
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title, issuer string, generatedAt time.Time) *document {
	p := fpdf.New("P", "mm", "Letter", "")
	p.SetMargins(marginSide, 20, marginSide)
	p.SetAutoPageBreak(true, 20)
	p.SetTitle(title, true)
	p.SetAuthor(issuer, true)
	p.SetCreationDate(generatedAt)

	d := &document{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
	p.SetFooterFunc(func() {
		p.SetY(-15)
		p.SetFont("Helvetica", "I", 8)
		p.SetTextColor(120, 120, 120)
		p.CellFormat(0, 10, d.tr(fmt.Sprintf("%s | Page %d", issuer, p.PageNo())), "", 0, "C", false, 0, "")
	})
	p.AddPage()
	return d
}

func (d *document) heading(text string) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.SetTextColor(20, 40, 70)
	d.pdf.MultiCell(contentWide, 9, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
}

func (d *document) section(text string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.SetTextColor(20, 40, 70)
	d.pdf.CellFormat(contentWide, lineHeight+1, d.tr(text), "B", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) paragraph(text string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.MultiCell(contentWide, lineHeight-1, d.tr(text), "", "L", false)
	d.pdf.Ln(1)
}

func (d *document) field(label, value string) {
	if value == "" {
		return
	}
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetTextColor(80, 80, 80)
	d.pdf.CellFormat(55, lineHeight, d.tr(label), "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.MultiCell(contentWide-55, lineHeight, d.tr(value), "", "L", false)
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// RenderLOI writes a letter of intent
func RenderLOI(w io.Writer, loi LOI) error {
	d := newDocument("Letter of Intent: "+loi.ProspectusTitle, loi.Issuer, loi.GeneratedAt)

	d.heading("Letter of Intent")
	d.paragraph(fmt.Sprintf("Reference %s", loi.ID))

	d.section("Offering")
	d.field("Prospectus", loi.ProspectusTitle)
	d.field("Indicated amount", FormatUSD(loi.Amount))
	d.field("Status", capitalize(loi.Status))

	d.section("Investor")
	d.field("Name", loi.Investor.Name)
	d.field("Entity", loi.Investor.Entity)
	d.field("Email", loi.Investor.Email)
	d.field("Address", loi.Investor.Address)

	d.section("Statement of intent")
	d.paragraph(fmt.Sprintf(
		"The undersigned indicates a non-binding intent to invest %s in %s, subject to final offering documents, "+
			"subscription agreement and verification of accredited investor status.",
		FormatUSD(loi.Amount), loi.ProspectusTitle))
	if loi.Notes != "" {
		d.paragraph("Notes: " + loi.Notes)
	}

	d.section("Signatures")
	d.field("Investor signature", "/s/ "+loi.SignatureName)
	d.field("Signed", loi.SignedAt.UTC().Format("January 2, 2006 15:04 MST"))
	if loi.CountersignedAt != nil {
		d.field("Countersigned by", "/s/ "+loi.CountersignedBy+", for "+loi.Issuer)
		d.field("Countersigned", loi.CountersignedAt.UTC().Format("January 2, 2006 15:04 MST"))
	} else {
		d.field("Countersignature", "Pending")
	}

	return d.output(w)
}

// RenderProspectus writes a prospectus summary
func RenderProspectus(w io.Writer, p Prospectus) error {
	d := newDocument(p.Title, p.Issuer, p.GeneratedAt)

	d.heading(p.Title)
	if p.Summary != "" {
		d.paragraph(p.Summary)
	}

	d.section("Key terms")
	d.field("Location", p.Location)
	d.field("Asset class", p.AssetClass)
	if p.TargetRaise > 0 {
		d.field("Target raise", FormatUSD(p.TargetRaise))
	}
	if p.MinimumInvestment > 0 {
		d.field("Minimum investment", FormatUSD(p.MinimumInvestment))
	}
	if p.ProjectedIRR > 0 {
		d.field("Projected IRR", fmt.Sprintf("%.1f%%", p.ProjectedIRR))
	}
	if p.HoldPeriodYears > 0 {
		d.field("Hold period", fmt.Sprintf("%d years", p.HoldPeriodYears))
	}
	d.field("Status", p.Status)

	if len(p.Highlights) > 0 {
		d.section("Highlights")
		for _, h := range p.Highlights {
			d.paragraph("- " + h)
		}
	}

	if len(p.Paragraphs) > 0 {
		d.section("Details")
		for _, para := range p.Paragraphs {
			d.paragraph(para)
		}
	}

	d.section("Disclaimer")
	d.paragraph("This summary is for information only and is not an offer to sell or a solicitation of an offer to buy " +
		"any security. Offers are made only through definitive offering documents to verified accredited investors.")

	return d.output(w)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatUSD renders whole dollars with thousands separators
func FormatUSD(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// PlainText flattens portable-text blocks into paragraphs
func PlainText(blocks []any) []string {
	var out []string
	for _, raw := range blocks {
		block, ok := raw.(map[string]interface{})
		if !ok || block["_type"] != "block" {
			continue
		}
		children, _ := block["children"].([]interface{})
		var b strings.Builder
		for _, c := range children {
			span, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			if text, ok := span["text"].(string); ok {
				b.WriteString(text)
			}
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			out = append(out, text)
		}
	}
	return out
}
