package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/hnimtadd/gridvirt"
	"github.com/hnimtadd/gridvirt/grid/column"
	"github.com/hnimtadd/gridvirt/grid/element"
	"github.com/hnimtadd/gridvirt/grid/measure"
)

// wheelLines is how far one mouse wheel notch scrolls.
const wheelLines = 3

var (
	styleHeader   = tcell.StyleDefault.Bold(true).Reverse(true)
	styleGroup    = tcell.StyleDefault.Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleStatus   = tcell.StyleDefault.Dim(true)
)

var keys = map[tcell.Key]gridvirt.Key{
	tcell.KeyUp:     gridvirt.KeyUp,
	tcell.KeyDown:   gridvirt.KeyDown,
	tcell.KeyPgUp:   gridvirt.KeyPageUp,
	tcell.KeyPgDn:   gridvirt.KeyPageDown,
	tcell.KeyHome:   gridvirt.KeyHome,
	tcell.KeyEnd:    gridvirt.KeyEnd,
	tcell.KeyLeft:   gridvirt.KeyLeft,
	tcell.KeyRight:  gridvirt.KeyRight,
	tcell.KeyEnter:  gridvirt.KeyEnter,
	tcell.KeyEscape: gridvirt.KeyEscape,
	tcell.KeyTab:    gridvirt.KeyToggleGroup,
}

// app draws a grid on a terminal screen. Row heights are in lines; the
// first screen line holds the column headers and the last one the status.
type app struct {
	screen  tcell.Screen
	grid    *gridvirt.Grid
	columns []column.Column
}

func newApp(screen tcell.Screen, grid *gridvirt.Grid, columns []column.Column) *app {
	return &app{screen: screen, grid: grid, columns: columns}
}

// run polls events until the user quits or the screen is finalized.
func (a *app) run() {
	a.resize()
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if quit := a.handle(ev); quit {
			return
		}
		a.grid.Flush()
		a.draw()
	}
}

func (a *app) resize() {
	w, h := a.screen.Size()
	a.grid.Resize(float64(max(h-2, 0)), w)
}

// handle applies one event and reports whether the app should exit.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.resize()
		a.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return true
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			a.grid.HandleKey(gridvirt.KeySpace)
			return false
		}
		if k, ok := keys[ev.Key()]; ok {
			a.grid.HandleKey(k)
		}
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			a.grid.Scroll(-wheelLines)
		case ev.Buttons()&tcell.WheelDown != 0:
			a.grid.Scroll(wheelLines)
		}
	}
	return false
}

func (a *app) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()
	if h < 2 {
		a.screen.Show()
		return
	}
	c := a.grid.Controller()
	left := c.Columns().HorizontalOffset()

	a.fill(0, w, styleHeader)
	for i, col := range a.columns {
		a.text(c.Columns().Left(i)-left, 0, col.Width, col.Header, styleHeader)
	}

	viewport := h - 2
	current := c.CurrentSlot()
	for top, e := range a.grid.Visible() {
		y := int(top) + 1
		switch e := e.(type) {
		case *element.GroupHeader:
			if y >= 1 && y <= viewport {
				marker := "▾"
				if !e.Group.IsExpanded {
					marker = "▸"
				}
				label := fmt.Sprintf("%s%s %v (%d)", strings.Repeat("  ", e.Level), marker, e.Group.Key, e.Group.Count)
				a.text(0, y, w, label, styleGroup)
			}
		case *element.GroupFooter:
			if y >= 1 && y <= viewport {
				a.text(0, y, w, fmt.Sprintf("%s  %d rows", strings.Repeat("  ", e.Level), e.Group.Count), styleStatus)
			}
		case *element.Row:
			style := tcell.StyleDefault
			if e.IsSelected {
				style = styleSelected
			}
			if e.Slot() == current {
				style = style.Underline(true)
			}
			a.row(e, y, int(e.Height()), viewport, left, style)
		}
	}

	a.fill(h-1, w, styleStatus)
	a.text(0, h-1, w, a.grid.Snapshot().String(), styleStatus)
	a.screen.Show()
}

// row draws the wrapped cells of r from screen line y, clipped to lines
// [1, viewport].
func (a *app) row(r *element.Row, y, lines, viewport, left int, style tcell.Style) {
	c := a.grid.Controller()
	for i, cell := range r.Cells {
		if cell == nil || i >= len(a.columns) {
			continue
		}
		width := a.columns[i].Width
		var content string
		switch {
		case r.IsPlaceholder:
			if i == 0 {
				content = "+"
			}
		case cell.Content != nil:
			content = fmt.Sprint(cell.Content)
		}
		for k, line := range measure.Wrap(content, width) {
			if k >= lines {
				break
			}
			if ly := y + k; ly >= 1 && ly <= viewport {
				a.text(c.Columns().Left(i)-left, ly, width, line, style)
			}
		}
	}
}

func (a *app) fill(y, w int, style tcell.Style) {
	for x := range w {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
}

// text writes s from x, clipped to width cells and to the screen.
func (a *app) text(x, y, width int, s string, style tcell.Style) {
	w, _ := a.screen.Size()
	s = measure.Fit(s, width, "…")
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if x >= 0 && x+rw <= w {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x += rw
	}
}
