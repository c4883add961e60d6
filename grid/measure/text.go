package measure

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/element"
)

// TextMeasurer lays cell text out in terminal cells. A row is as tall as
// its tallest cell once the cell text is wrapped to the column width.
type TextMeasurer struct {
	Columns    *column.Set
	LineHeight float64

	// Rows never shrink below MinLines or grow beyond MaxLines. Zero
	// MaxLines means no limit.
	MinLines int
	MaxLines int

	HeaderLines  int
	FooterLines  int
	DetailsLines int
}

var _ Measurer = (*TextMeasurer)(nil)

func (m *TextMeasurer) lineHeight() float64 {
	if m.LineHeight <= 0 {
		return 1
	}
	return m.LineHeight
}

func (m *TextMeasurer) Measure(e element.Element) float64 {
	switch e := e.(type) {
	case *element.GroupHeader:
		return float64(max(m.HeaderLines, 1)) * m.lineHeight()
	case *element.GroupFooter:
		return float64(max(m.FooterLines, 1)) * m.lineHeight()
	case *element.Row:
		return float64(m.rowLines(e)) * m.lineHeight()
	default:
		return m.lineHeight()
	}
}

func (m *TextMeasurer) MeasureDetails(*element.Row) float64 {
	return float64(m.DetailsLines) * m.lineHeight()
}

func (m *TextMeasurer) rowLines(r *element.Row) int {
	lines := max(m.MinLines, 1)
	for i, cell := range r.Cells {
		if cell == nil || cell.Content == nil {
			continue
		}
		width := 0
		if m.Columns != nil && i < m.Columns.Count() {
			width = m.Columns.At(i).Width
		}
		lines = max(lines, LineCount(fmt.Sprint(cell.Content), width))
	}
	if m.MaxLines > 0 {
		lines = min(lines, m.MaxLines)
	}
	return lines
}

// LineCount returns the number of lines s takes when wrapped at width
// terminal cells. Explicit newlines always break. Zero width never wraps.
func LineCount(s string, width int) int {
	return len(Wrap(s, width))
}

// Wrap breaks s into lines of at most width terminal cells. Lines break
// between words; a word wider than a line is split between runes. Runs of
// spaces collapse to one.
func Wrap(s string, width int) []string {
	s = norm.NFC.String(s)
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if width <= 0 {
			lines = append(lines, para)
			continue
		}
		lines = wrapParagraph(lines, para, width)
	}
	return lines
}

func wrapParagraph(lines []string, para string, width int) []string {
	var b strings.Builder
	col := 0
	flush := func() {
		lines = append(lines, b.String())
		b.Reset()
		col = 0
	}
	for _, word := range strings.Fields(para) {
		w := runewidth.StringWidth(word)
		if col > 0 && col+1+w <= width {
			b.WriteByte(' ')
			b.WriteString(word)
			col += 1 + w
			continue
		}
		if col > 0 {
			flush()
		}
		if w <= width {
			b.WriteString(word)
			col = w
			continue
		}
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if col+rw > width && col > 0 {
				flush()
			}
			b.WriteRune(r)
			col += rw
		}
	}
	flush()
	return lines
}

// Fit truncates s to width terminal cells, marking cut text with tail.
func Fit(s string, width int, tail string) string {
	s = norm.NFC.String(s)
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, tail)
}
