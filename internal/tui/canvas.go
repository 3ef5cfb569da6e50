package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/folio/internal/tui/frame"
)

// paint selects the style a canvas cell is rendered with.
type paint int

const (
	paintBlank paint = iota
	paintCard
	paintSelected
	paintFocused
	paintCaption
	paintBadge
)

type cell struct {
	r rune
	p paint
}

// canvas is a character grid the cards are drawn onto before styling.
type canvas struct {
	width int
	rows  [][]cell
}

func newCanvas(width, height int) *canvas {
	rows := make([][]cell, height)
	for y := range rows {
		rows[y] = make([]cell, width)
		for x := range rows[y] {
			rows[y][x] = cell{r: ' '}
		}
	}
	return &canvas{width: width, rows: rows}
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if y < 0 || y >= len(c.rows) || x < 0 || x >= c.width {
		return
	}
	c.rows[y][x] = cell{r: r, p: p}
}

// box draws a border around rect and clears its inside.
func (c *canvas) box(rect frame.Rect, b lipgloss.Border, p paint) {
	right, bottom := rect.X+rect.W-1, rect.Y+rect.H-1

	for y := rect.Y + 1; y < bottom; y++ {
		for x := rect.X + 1; x < right; x++ {
			c.set(x, y, ' ', paintBlank)
		}
	}
	for x := rect.X + 1; x < right; x++ {
		c.set(x, rect.Y, first(b.Top), p)
		c.set(x, bottom, first(b.Bottom), p)
	}
	for y := rect.Y + 1; y < bottom; y++ {
		c.set(rect.X, y, first(b.Left), p)
		c.set(right, y, first(b.Right), p)
	}
	c.set(rect.X, rect.Y, first(b.TopLeft), p)
	c.set(right, rect.Y, first(b.TopRight), p)
	c.set(rect.X, bottom, first(b.BottomLeft), p)
	c.set(right, bottom, first(b.BottomRight), p)
}

// text writes s starting at (x, y). Callers truncate beforehand.
func (c *canvas) text(x, y int, s string, p paint) {
	for _, r := range s {
		c.set(x, y, r, p)
		x++
	}
}

// lines renders rows [from, to) with one style per run of equal paint.
func (c *canvas) lines(from, to int, styles map[paint]lipgloss.Style) []string {
	from = max(from, 0)
	to = min(to, len(c.rows))

	out := make([]string, 0, max(to-from, 0))
	for y := from; y < to; y++ {
		var b, run strings.Builder
		current := paintBlank
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if style, ok := styles[current]; ok {
				b.WriteString(style.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range c.rows[y] {
			if cl.p != current {
				flush()
				current = cl.p
			}
			run.WriteRune(cl.r)
		}
		flush()
		out = append(out, b.String())
	}
	return out
}

func first(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
