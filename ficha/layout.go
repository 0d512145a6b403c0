package ficha

import "math"

// Page geometry in millimeters (A4 portrait).
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 14.0

	footerZone      = 18.0
	continuationTop = 15.0

	headerHeight = 28.0
	accentHeight = 2.0
	infoTop      = 36.0
	infoRowH     = 7.0
	infoGap      = 4.0

	sectionBarH   = 6.0
	sectionBarGap = 2.0
	tableHeadH    = 8.0
	tableRowH     = 7.2
	sectionGap    = 3.0

	summaryH      = 8.0
	summaryNeed   = 10.0
	summaryPullUp = 4.0

	notesNeed      = 22.0
	notesTitleGap  = 4.0
	noteLineH      = 4.0
	notesPadding   = 6.0
	notesMinH      = 12.0
	notesMaxH      = 40.0
	notesTextInset = 4.0
	MaxNoteLines   = 7
)

// ContentWidth is the printable width between the side margins.
const ContentWidth = PageWidth - 2*Margin

// TextMeasurer returns the printed width of s in millimeters in the notes font.
type TextMeasurer func(s string) float64

// BlockKind identifies what a placed block draws.
type BlockKind int

const (
	BlockHeader BlockKind = iota
	BlockInfo
	BlockSection
	BlockSummary
	BlockNotes
)

// Block is one element placed on a page at a vertical offset.
type Block struct {
	Kind    BlockKind
	Y       float64
	Height  float64
	Section int      // index into Sheet.Sections for BlockSection
	Lines   []string // wrapped note lines actually drawn for BlockNotes
}

// Page is one physical page of the sheet.
type Page struct {
	Number int
	Blocks []Block
}

// Layout is the paginated placement of a sheet.
type Layout struct {
	Pages []Page
}

// SectionHeight is the vertical space a section occupies, bar included.
func SectionHeight(s Section) float64 {
	return sectionBarH + sectionBarGap + tableHeadH + float64(len(s.Rows))*tableRowH
}

// NotesBoxHeight sizes the notes box for n wrapped lines.
func NotesBoxHeight(n int) float64 {
	return math.Max(notesMinH, math.Min(float64(n)*noteLineH+notesPadding, notesMaxH))
}

type cursor struct {
	pages []Page
	y     float64
	fresh bool // nothing placed on the current continuation page yet
}

func (c *cursor) current() *Page {
	return &c.pages[len(c.pages)-1]
}

func (c *cursor) newPage() {
	c.pages = append(c.pages, Page{Number: len(c.pages) + 1})
	c.y = continuationTop
	c.fresh = true
}

// ensure starts a new page unless needed millimeters fit above the footer.
// It reports whether a page break happened. A block taller than a whole page
// is placed at the top of a fresh page rather than pushed on forever.
func (c *cursor) ensure(needed float64) bool {
	if c.y <= PageHeight-needed-footerZone || c.fresh {
		return false
	}
	c.newPage()
	return true
}

func (c *cursor) place(b Block) {
	p := c.current()
	p.Blocks = append(p.Blocks, b)
	c.fresh = false
}

// Compute paginates the sheet. Sections are never split: one that does not fit
// in the space left moves whole to the next page.
func Compute(s *Sheet, measure TextMeasurer) Layout {
	c := &cursor{pages: []Page{{Number: 1}}}

	c.place(Block{Kind: BlockHeader, Y: 0, Height: headerHeight + accentHeight})

	c.y = infoTop
	infoH := float64(len(s.Info)) * infoRowH
	c.place(Block{Kind: BlockInfo, Y: c.y, Height: infoH})
	c.y += infoH + infoGap

	for i, sec := range s.Sections {
		h := SectionHeight(sec)
		c.ensure(h)
		c.place(Block{Kind: BlockSection, Y: c.y, Height: h, Section: i})
		c.y += h + sectionGap
	}

	if !c.ensure(summaryNeed) && !c.fresh {
		c.y -= summaryPullUp
	}
	c.place(Block{Kind: BlockSummary, Y: c.y, Height: summaryH})
	c.y += summaryH + sectionGap

	if s.Notes != "" {
		lines := WrapText(s.Notes, ContentWidth-2*notesTextInset, measure)
		boxH := NotesBoxHeight(len(lines))
		c.ensure(math.Max(notesNeed, notesTitleGap+boxH))
		drawn := lines
		if len(drawn) > MaxNoteLines {
			drawn = drawn[:MaxNoteLines]
		}
		c.place(Block{Kind: BlockNotes, Y: c.y, Height: notesTitleGap + boxH, Lines: drawn})
		c.y += notesTitleGap + boxH
	}

	return Layout{Pages: c.pages}
}

// FooterY is the baseline of the footer text on every page.
func FooterY() float64 {
	return PageHeight - 10
}
