// Package ficha builds the printable measurement sheet for one measurement
// record: the data assembly, the page layout and the PDF rendering.
package ficha

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/modamedidas-api/models"
)

// DefaultStudioName is printed when the designer has not set a studio name.
const DefaultStudioName = "Atelier Elizabeth"

// Placeholder marks a value that was not recorded.
const Placeholder = "—"

// RGB is a fill or text color.
type RGB struct{ R, G, B int }

var (
	colorOlive = RGB{138, 125, 60}
	colorGold  = RGB{201, 122, 30}
	colorBlue  = RGB{59, 130, 246}
	colorGreen = RGB{34, 150, 80}
	colorDark  = RGB{31, 41, 55}
	colorGray  = RGB{107, 114, 128}
	colorLight = RGB{219, 210, 176}
	colorPaper = RGB{250, 249, 245}
	colorBand  = RGB{247, 246, 240}
	colorWhite = RGB{255, 255, 255}
)

// sectionStyles gives every measurement group its number, accent and zebra fill.
var sectionStyles = map[string]struct {
	number int
	accent RGB
	stripe RGB
}{
	"upper": {1, colorOlive, RGB{250, 249, 242}},
	"arms":  {2, colorBlue, RGB{239, 246, 255}},
	"pants": {3, colorGreen, RGB{240, 253, 244}},
	"lower": {4, colorGold, RGB{255, 247, 237}},
}

var fitLabels = map[string]string{
	models.FitTight:   "Tight",
	models.FitRegular: "Regular",
	models.FitLoose:   "Loose",
}

var genderLabels = map[string]string{
	models.GenderFemale: "Female",
	models.GenderMale:   "Male",
	models.GenderOther:  "Other",
}

// Studio is the branding printed in the header and footer.
type Studio struct {
	Name     string
	Phone    string
	Email    string
	Website  string
	WhatsApp string
}

// StudioFromDesigner reads the branding from a designer account.
func StudioFromDesigner(u *models.User) Studio {
	if u == nil {
		return Studio{}
	}
	return Studio{
		Name:     u.StudioName,
		Phone:    u.Phone,
		Email:    u.Email,
		Website:  u.Website,
		WhatsApp: u.WhatsApp,
	}
}

// Contact joins the non-empty contact fields into one line.
func (s Studio) Contact() string {
	var parts []string
	for _, p := range []string{s.Phone, s.Email, s.Website} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if w := strings.TrimSpace(s.WhatsApp); w != "" && w != strings.TrimSpace(s.Phone) {
		parts = append(parts, "WhatsApp "+w)
	}
	return strings.Join(parts, " · ")
}

// Cell is a label/value pair of the client block or a section table.
type Cell struct {
	Label string
	Value string
}

// InfoRow is one line of the client block: left client field, right session field.
type InfoRow struct {
	Left  Cell
	Right Cell
}

// Row is one table line holding two measurements.
type Row struct {
	Left  Cell
	Right Cell
}

// Section is a visible measurement group.
type Section struct {
	Key    string
	Number int
	Title  string
	Accent RGB
	Stripe RGB
	Rows   []Row
	Filled int
}

// Heading is the text of the section bar.
func (s Section) Heading() string {
	return fmt.Sprintf("%d. %s", s.Number, s.Title)
}

// Summary is the completeness band under the sections.
type Summary struct {
	Filled int
	Total  int
	Items  []string
}

// Sheet is everything a measurement sheet shows, independent of page geometry.
type Sheet struct {
	StudioName  string
	Title       string
	GeneratedAt time.Time
	Info        []InfoRow
	Sections    []Section
	Summary     Summary
	Notes       string
	FooterText  string
	Contact     string
	Filename    string
}

// Build assembles the sheet for one client and measurement record.
func Build(client *models.Client, measure *models.Measure, studio Studio, now time.Time) *Sheet {
	name := strings.TrimSpace(studio.Name)
	if name == "" {
		name = DefaultStudioName
	}

	s := &Sheet{
		StudioName:  name,
		Title:       "Technical measurement sheet",
		GeneratedAt: now,
		Info:        infoRows(client, measure),
		Notes:       strings.TrimSpace(measure.TechnicalNotes),
		FooterText:  fmt.Sprintf("%s © %d — Confidential measurement sheet", name, now.Year()),
		Contact:     studio.Contact(),
		Filename:    Filename(client.Name, now),
	}

	for _, g := range measure.Groups() {
		if g.Filled() == 0 {
			continue
		}
		style := sectionStyles[g.Key]
		s.Sections = append(s.Sections, Section{
			Key:    g.Key,
			Number: style.number,
			Title:  g.Title,
			Accent: style.accent,
			Stripe: style.stripe,
			Rows:   packRows(g.Fields),
			Filled: g.Filled(),
		})
	}

	s.Summary = summarize(measure)
	return s
}

func infoRows(client *models.Client, measure *models.Measure) []InfoRow {
	left := []Cell{
		{"Name", orPlaceholder(client.Name)},
		{"Phone", orPlaceholder(client.Phone)},
		{"Email", orPlaceholder(client.Email)},
	}

	var right []Cell
	if v := fitLabel(measure.FitType); v != "" {
		right = append(right, Cell{"Fit", v})
	}
	if measure.SuggestedSize != "" {
		right = append(right, Cell{"Size", measure.SuggestedSize})
	}
	if v := strings.TrimSpace(measure.FabricType); v != "" {
		right = append(right, Cell{"Fabric", v})
	}
	if v := strings.TrimSpace(measure.Label); v != "" {
		right = append(right, Cell{"Session", v})
	}
	if v := genderLabels[client.Gender]; v != "" {
		right = append(right, Cell{"Gender", v})
	}

	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	rows := make([]InfoRow, n)
	for i := range rows {
		if i < len(left) {
			rows[i].Left = left[i]
		}
		if i < len(right) {
			rows[i].Right = right[i]
		}
	}
	return rows
}

// packRows places the fields two per row, keeping absent ones as placeholders.
func packRows(fields []models.MeasureField) []Row {
	rows := make([]Row, 0, (len(fields)+1)/2)
	for i := 0; i < len(fields); i += 2 {
		row := Row{Left: Cell{fields[i].Label, FormatValue(fields[i].Value)}}
		if i+1 < len(fields) {
			row.Right = Cell{fields[i+1].Label, FormatValue(fields[i+1].Value)}
		}
		rows = append(rows, row)
	}
	return rows
}

func summarize(measure *models.Measure) Summary {
	sum := Summary{Filled: measure.FilledCount(), Total: models.TotalMeasureFields}
	sum.Items = append(sum.Items, fmt.Sprintf("Measurements: %d/%d", sum.Filled, sum.Total))
	if v := fitLabel(measure.FitType); v != "" {
		sum.Items = append(sum.Items, "Fit: "+v)
	}
	if measure.SuggestedSize != "" {
		sum.Items = append(sum.Items, "Size: "+measure.SuggestedSize)
	}
	if v := strings.TrimSpace(measure.FabricType); v != "" {
		sum.Items = append(sum.Items, "Fabric: "+v)
	}
	return sum
}

// FormatValue renders a measurement in centimeters or the placeholder.
func FormatValue(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " cm"
}

func fitLabel(fit string) string {
	if l, ok := fitLabels[fit]; ok {
		return l
	}
	return strings.TrimSpace(fit)
}

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Placeholder
	}
	return s
}

// Filename derives the download name from the client name and the date,
// e.g. ficha-ana-lopez-14102026.pdf.
func Filename(clientName string, at time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(clientName), "-"))
	if slug == "" {
		slug = "client"
	}
	return fmt.Sprintf("ficha-%s-%s.pdf", slug, at.Format("02012006"))
}
