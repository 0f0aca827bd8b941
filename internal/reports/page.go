package reports

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/JaimeStill/scorecard/internal/batches"
	"github.com/JaimeStill/scorecard/internal/records"
	"github.com/JaimeStill/scorecard/internal/status"
)

// Page size in pixels, A4 at 150 DPI.
const (
	PageWidth  = 1240
	PageHeight = 1754
)

const (
	margin     = 80
	lineHeight = 30
	textScale  = 2
)

var (
	ink   = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	muted = color.NRGBA{R: 0x6b, G: 0x6b, B: 0x6b, A: 0xff}
	rule  = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// table columns: header, x offset, max characters
var columns = []struct {
	title string
	x     int
	width int
}{
	{"Objective", 0, 22},
	{"Measure", 300, 22},
	{"Target", 600, 10},
	{"Actual", 740, 10},
	{"Owner", 880, 12},
}

// Pages draws the report pages for one perspective of a batch. The first page
// carries the heading, status chart, and legend; records that do not fit below
// the chart continue on further pages under a repeated table header.
func Pages(s batches.Summary, p records.Perspective, entries []batches.Entry, counts status.Counts) []*image.NRGBA {
	page, y := firstPage(s, p, counts)
	pages := []*image.NRGBA{page}

	if len(entries) == 0 {
		label(page, margin, y, "No records", 1, muted)
		return pages
	}

	for _, e := range entries {
		if y > PageHeight-margin-lineHeight {
			page, y = continuationPage(s, p, len(pages)+1)
			pages = append(pages, page)
		}
		tableRow(page, y, e)
		y += lineHeight
	}

	return pages
}

func firstPage(s batches.Summary, p records.Perspective, counts status.Counts) (*image.NRGBA, int) {
	page := imaging.New(PageWidth, PageHeight, color.White)

	y := margin
	label(page, margin, y, fmt.Sprintf("%s - %s", s.BatchName, p.Label()), 3, ink)
	y += 3*lineHeight/2 + 20
	label(page, margin, y, batchLine(s), 1, muted)
	y += lineHeight + 20

	chart := Pie(counts, DefaultChartSize)
	page = imaging.Paste(page, chart, image.Pt(margin, y))

	ly := y + 40
	for _, st := range status.Ordered {
		swatch(page, margin+DefaultChartSize+60, ly, 24, st.Color())
		label(page, margin+DefaultChartSize+100, ly, fmt.Sprintf("%s: %d", st.Label(), counts.Get(st)), textScale, ink)
		ly += lineHeight + 20
	}
	label(page, margin+DefaultChartSize+60, ly+10, fmt.Sprintf("Total: %d", counts.Total()), textScale, ink)

	y += DefaultChartSize + 50
	return page, tableHeader(page, y)
}

func continuationPage(s batches.Summary, p records.Perspective, n int) (*image.NRGBA, int) {
	page := imaging.New(PageWidth, PageHeight, color.White)

	y := margin
	label(page, margin, y, fmt.Sprintf("%s - %s (page %d)", s.BatchName, p.Label(), n), textScale, ink)
	y += textScale*lineHeight/2 + 20
	label(page, margin, y, batchLine(s), 1, muted)
	y += lineHeight + 20

	return page, tableHeader(page, y)
}

func batchLine(s batches.Summary) string {
	return fmt.Sprintf("Batch %s  uploaded %s", s.BatchID, s.UploadedAt.Format("2006-01-02 15:04"))
}

// tableHeader draws the column titles at y and returns the first row position.
func tableHeader(page *image.NRGBA, y int) int {
	for _, c := range columns {
		label(page, margin+c.x, y, c.title, 1, muted)
	}
	label(page, margin+1000, y, "Status", 1, muted)
	y += lineHeight
	hline(page, y-8)
	return y
}

func tableRow(page *image.NRGBA, y int, e batches.Entry) {
	owner := ""
	if e.Owner != nil {
		owner = *e.Owner
	}
	cells := []string{e.Objective, e.Measure, e.Target, e.Actual, owner}
	for j, c := range columns {
		label(page, margin+c.x, y, truncate(cells[j], c.width), 1, ink)
	}

	swatch(page, margin+1000, y, 14, e.Status.Color())
	label(page, margin+1024, y, e.Status.Label(), 1, ink)
}

// label draws s with its top-left corner at (x, y), enlarged by scale.
// The bitmap face is small, so text is rendered at 1x and scaled up.
func label(dst *image.NRGBA, x, y int, s string, scale int, c color.Color) {
	s = asciiFold(s)
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	if width == 0 {
		return
	}
	height := face.Metrics().Height.Ceil()

	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	var glyphs image.Image = src
	if scale > 1 {
		glyphs = imaging.Resize(src, width*scale, height*scale, imaging.NearestNeighbor)
	}

	r := glyphs.Bounds().Add(image.Pt(x, y))
	draw.Draw(dst, r, glyphs, glyphs.Bounds().Min, draw.Over)
}

func swatch(dst *image.NRGBA, x, y, size int, c color.Color) {
	draw.Draw(dst, image.Rect(x, y, x+size, y+size), image.NewUniform(c), image.Point{}, draw.Src)
}

func hline(dst *image.NRGBA, y int) {
	for x := margin; x < PageWidth-margin; x++ {
		dst.SetNRGBA(x, y, rule)
	}
}

var punctuation = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "-", "\u2026", "...", "\u00a0", " ",
)

// asciiFold maps s onto the printable ASCII the bitmap face covers.
// Accented letters lose their marks; runes with no ASCII form become '?'.
func asciiFold(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	s = punctuation.Replace(s)
	if folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))), s); err == nil {
		s = folded
	}

	return strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf || (r < ' ' && r != '\t') {
			return '?'
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
