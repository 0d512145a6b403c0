package ficha

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// column widths as fractions of the content width
var (
	infoColumns  = [4]float64{0.14, 0.36, 0.14, 0.36}
	tableColumns = [4]float64{0.30, 0.15, 0.35, 0.20}
)

type renderer struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	sheet *Sheet
}

// Render draws the sheet as an A4 PDF and writes it to w.
func Render(w io.Writer, s *Sheet) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(Margin, continuationTop, Margin)
	pdf.SetTitle(s.Title+" - "+s.StudioName, true)
	pdf.SetCreator(s.StudioName, true)
	pdf.SetCreationDate(s.GeneratedAt)
	pdf.SetModificationDate(s.GeneratedAt)
	pdf.SetCatalogSort(true)

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), sheet: s}

	pdf.SetFont(fontFamily, "", 8)
	layout := Compute(s, func(text string) float64 {
		return pdf.GetStringWidth(r.tr(text))
	})

	for _, page := range layout.Pages {
		pdf.AddPage()
		for _, b := range page.Blocks {
			switch b.Kind {
			case BlockHeader:
				r.header()
			case BlockInfo:
				r.info(b.Y)
			case BlockSection:
				r.section(s.Sections[b.Section], b.Y)
			case BlockSummary:
				r.summary(b.Y)
			case BlockNotes:
				r.notes(b)
			}
		}
		r.footer(page.Number)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render measurement sheet: %w", err)
	}
	return pdf.Output(w)
}

func (r *renderer) fill(c RGB)  { r.pdf.SetFillColor(c.R, c.G, c.B) }
func (r *renderer) draw(c RGB)  { r.pdf.SetDrawColor(c.R, c.G, c.B) }
func (r *renderer) color(c RGB) { r.pdf.SetTextColor(c.R, c.G, c.B) }

func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont(fontFamily, style, size)
}

func (r *renderer) text(x, y float64, s string) {
	r.pdf.Text(x, y, r.tr(s))
}

func (r *renderer) textRight(xRight, y float64, s string) {
	t := r.tr(s)
	r.pdf.Text(xRight-r.pdf.GetStringWidth(t), y, t)
}

func (r *renderer) textCenter(x, y float64, s string) {
	t := r.tr(s)
	r.pdf.Text(x-r.pdf.GetStringWidth(t)/2, y, t)
}

// fit shortens s with an ellipsis until it fits in width.
func (r *renderer) fit(s string, width float64) string {
	t := r.tr(s)
	if r.pdf.GetStringWidth(t) <= width {
		return t
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		t = r.tr(string(runes) + "...")
		if r.pdf.GetStringWidth(t) <= width {
			return t
		}
	}
	return ""
}

func (r *renderer) header() {
	r.fill(colorOlive)
	r.pdf.Rect(0, 0, PageWidth, headerHeight, "F")

	r.color(colorWhite)
	r.font("B", 16)
	r.text(Margin, 12, r.sheet.StudioName)
	r.font("", 9)
	r.text(Margin, 19, r.sheet.Title)
	r.font("", 8)
	r.textRight(PageWidth-Margin, 19, r.sheet.GeneratedAt.Format("2 January 2006"))

	r.fill(colorGold)
	r.pdf.Rect(0, headerHeight, PageWidth, accentHeight, "F")
}

func (r *renderer) info(y float64) {
	widths := columnWidths(infoColumns)
	for i, row := range r.sheet.Info {
		filled := i%2 == 0
		r.fill(colorPaper)
		x := Margin
		cells := [4]string{row.Left.Label, row.Left.Value, row.Right.Label, row.Right.Value}
		for col, value := range cells {
			if col%2 == 0 {
				r.font("B", 8.5)
				r.color(colorDark)
			} else {
				r.font("", 8.5)
				r.color(colorGray)
			}
			r.pdf.SetXY(x, y)
			r.pdf.CellFormat(widths[col], infoRowH, r.fit(value, widths[col]-3), "", 0, "L", filled, 0, "")
			x += widths[col]
		}
		y += infoRowH
	}
}

func (r *renderer) section(s Section, y float64) {
	r.fill(s.Accent)
	r.pdf.RoundedRect(Margin, y, ContentWidth, sectionBarH, 1.5, "1234", "F")
	r.color(colorWhite)
	r.font("B", 9)
	r.text(Margin+3, y+4.2, s.Heading())
	y += sectionBarH + sectionBarGap

	widths := columnWidths(tableColumns)
	r.draw(colorLight)
	r.pdf.SetLineWidth(0.2)

	r.fill(s.Accent)
	r.color(colorWhite)
	r.font("B", 7.5)
	x := Margin
	for col, title := range [4]string{"Measurement", "Value", "Measurement", "Value"} {
		align := "L"
		if col%2 == 1 {
			align = "C"
		}
		r.pdf.SetXY(x, y)
		r.pdf.CellFormat(widths[col], tableHeadH, r.tr(title), "1", 0, align, true, 0, "")
		x += widths[col]
	}
	y += tableHeadH

	for i, row := range s.Rows {
		r.fill(s.Stripe)
		striped := i%2 == 1
		x = Margin
		cells := [4]string{row.Left.Label, row.Left.Value, row.Right.Label, row.Right.Value}
		for col, value := range cells {
			align := "L"
			if col%2 == 1 {
				align = "C"
				r.font("B", 8)
				r.color(colorDark)
			} else {
				r.font("", 8)
				r.color(colorGray)
			}
			r.pdf.SetXY(x, y)
			r.pdf.CellFormat(widths[col], tableRowH, r.fit(value, widths[col]-4), "1", 0, align, striped, 0, "")
			x += widths[col]
		}
		y += tableRowH
	}
}

func (r *renderer) summary(y float64) {
	r.fill(colorBand)
	r.draw(colorLight)
	r.pdf.SetLineWidth(0.3)
	r.pdf.RoundedRect(Margin, y, ContentWidth, summaryH, 2, "1234", "FD")

	r.color(colorOlive)
	r.font("B", 7.5)
	items := r.sheet.Summary.Items
	spacing := ContentWidth / float64(len(items)+1)
	for i, item := range items {
		r.textCenter(Margin+spacing*float64(i+1), y+5.2, item)
	}
}

func (r *renderer) notes(b Block) {
	r.color(colorDark)
	r.font("B", 8.5)
	r.text(Margin, b.Y, "Technical notes")

	boxY := b.Y + notesTitleGap
	boxH := b.Height - notesTitleGap
	r.fill(colorPaper)
	r.draw(colorLight)
	r.pdf.SetLineWidth(0.3)
	r.pdf.RoundedRect(Margin, boxY, ContentWidth, boxH, 2, "1234", "FD")

	r.color(colorGray)
	r.font("", 8)
	for i, line := range b.Lines {
		r.text(Margin+notesTextInset, boxY+5+float64(i)*noteLineH, line)
	}
}

func (r *renderer) footer(page int) {
	y := FooterY()
	r.draw(colorLight)
	r.pdf.SetLineWidth(0.3)
	r.pdf.Line(Margin, y-3, PageWidth-Margin, y-3)

	r.color(colorGray)
	r.font("", 7)
	r.text(Margin, y, r.sheet.FooterText)
	r.textRight(PageWidth-Margin, y, fmt.Sprintf("Page %d", page))
	if r.sheet.Contact != "" {
		r.textCenter(PageWidth/2, y+4, r.sheet.Contact)
	}
}

func columnWidths(fractions [4]float64) [4]float64 {
	var w [4]float64
	for i, f := range fractions {
		w[i] = ContentWidth * f
	}
	return w
}
