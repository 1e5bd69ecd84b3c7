package ui

// Mouse selection over the chat history.
//
// Mouse events reach the chat in panel coordinates (0,0 is the top-left
// corner of the chat panel border). Selection positions are stored in
// viewport coordinates: one column in from the border and below the
// border plus the thread header. Columns are terminal cells, not bytes,
// so wide characters and ANSI styling never skew the copied text.

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// SelectionCopiedMsg carries text the user selected in the history. The
// terminal clipboard is set through OSC 52 already; the receiver writes
// the native clipboard.
type SelectionCopiedMsg struct {
	Text string
}

// SelectionFlashTickMsg ends the copy highlight.
type SelectionFlashTickMsg time.Time

const (
	doubleClickThreshold = 500 * time.Millisecond
	clickTolerance       = 2 // cells
)

// TextSelection tracks a mouse selection in the chat viewport.
type TextSelection struct {
	StartCol, StartLine int
	EndCol, EndLine     int
	Active              bool // Mouse button is down

	lastClickTime time.Time
	lastClickX    int
	lastClickY    int
	clickCount    int

	// FlashFrame is -1 when idle and 0 while the copy highlight shows
	FlashFrame int
}

// NewTextSelection returns an empty selection.
func NewTextSelection() *TextSelection {
	return &TextSelection{FlashFrame: -1}
}

// HasSelection reports whether at least one cell is selected.
func (s *TextSelection) HasSelection() bool {
	return s.StartLine != s.EndLine || s.StartCol != s.EndCol
}

// Clear drops the selection.
func (s *TextSelection) Clear() {
	s.StartCol, s.StartLine = 0, 0
	s.EndCol, s.EndLine = 0, 0
	s.Active = false
	s.FlashFrame = -1
}

// area returns the selection with start before end in reading order.
func (s *TextSelection) area() (startCol, startLine, endCol, endLine int) {
	startCol, startLine, endCol, endLine = s.StartCol, s.StartLine, s.EndCol, s.EndLine
	if startLine > endLine || (startLine == endLine && startCol > endCol) {
		startCol, endCol = endCol, startCol
		startLine, endLine = endLine, startLine
	}
	return
}

// SelectionFlashTick returns a command that ends the copy highlight.
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(t time.Time) tea.Msg {
		return SelectionFlashTickMsg(t)
	})
}

// viewportPos converts panel coordinates to a viewport cell. ok is false
// when the point is outside the history.
func (c *Chat) viewportPos(x, y int) (col, line int, ok bool) {
	col = x - 1
	line = y - 1 - ChatHeaderHeight
	ok = col >= 0 && col < c.viewport.Width() && line >= 0 && line < c.viewport.Height()
	return
}

// clampedPos is viewportPos pinned to the history so a drag can leave it.
func (c *Chat) clampedPos(x, y int) (col, line int) {
	col, line, _ = c.viewportPos(x, y)
	col = min(max(col, 0), c.viewport.Width())
	line = min(max(line, 0), max(c.viewport.Height()-1, 0))
	return col, line
}

// StartSelection anchors a new selection at the given viewport cell.
func (c *Chat) StartSelection(col, line int) {
	c.selection.StartCol, c.selection.StartLine = col, line
	c.selection.EndCol, c.selection.EndLine = col, line
	c.selection.Active = true
	c.selection.FlashFrame = -1
}

// EndSelection moves the free end of a selection being dragged.
func (c *Chat) EndSelection(col, line int) {
	if !c.selection.Active {
		return
	}
	c.selection.EndCol, c.selection.EndLine = col, line
}

// SelectionStop ends the drag and keeps the selection.
func (c *Chat) SelectionStop() {
	c.selection.Active = false
}

// SelectionClear removes any selection.
func (c *Chat) SelectionClear() {
	c.selection.Clear()
}

// HasTextSelection reports whether part of the history is selected.
func (c *Chat) HasTextSelection() bool {
	return c.selection.HasSelection()
}

// handleMouseClick starts a selection on a single click, selects and
// copies a word on a double click and a paragraph on a triple click.
func (c *Chat) handleMouseClick(x, y int) tea.Cmd {
	col, line, ok := c.viewportPos(x, y)
	if !ok {
		c.SelectionClear()
		return nil
	}

	s := c.selection
	now := c.now()
	if now.Sub(s.lastClickTime) <= doubleClickThreshold &&
		abs(col-s.lastClickX) <= clickTolerance &&
		abs(line-s.lastClickY) <= clickTolerance {
		s.clickCount++
	} else {
		s.clickCount = 1
	}
	s.lastClickTime = now
	s.lastClickX, s.lastClickY = col, line

	switch s.clickCount {
	case 1:
		c.StartSelection(col, line)
	case 2:
		c.SelectWord(col, line)
		return c.CopySelectedText()
	default:
		c.SelectParagraph(line)
		s.clickCount = 0
		return c.CopySelectedText()
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// visibleLines returns the history as shown, without styling.
func (c *Chat) visibleLines() []string {
	lines := strings.Split(c.viewport.View(), "\n")
	for i, l := range lines {
		lines[i] = ansi.Strip(l)
	}
	return lines
}

// SelectWord selects the word under the given cell.
func (c *Chat) SelectWord(col, line int) {
	lines := c.visibleLines()
	if line < 0 || line >= len(lines) {
		return
	}
	start, end := wordBounds(lines[line], col)
	if start == end {
		return
	}
	c.selection.StartCol, c.selection.StartLine = start, line
	c.selection.EndCol, c.selection.EndLine = end, line
	c.selection.Active = false
}

// wordBounds returns the cell range of the word segment containing col.
func wordBounds(line string, col int) (start, end int) {
	gr := uniseg.NewGraphemes(line)
	segStart, pos := 0, 0
	for gr.Next() {
		pos += gr.Width()
		if gr.IsWordBoundary() {
			if col >= segStart && col < pos {
				return segStart, pos
			}
			segStart = pos
		}
	}
	return col, col
}

// SelectParagraph selects the run of non-blank lines around line.
func (c *Chat) SelectParagraph(line int) {
	lines := c.visibleLines()
	if line < 0 || line >= len(lines) || strings.TrimSpace(lines[line]) == "" {
		return
	}

	startLine, endLine := line, line
	for startLine > 0 && strings.TrimSpace(lines[startLine-1]) != "" {
		startLine--
	}
	for endLine < len(lines)-1 && strings.TrimSpace(lines[endLine+1]) != "" {
		endLine++
	}

	c.selection.StartCol, c.selection.StartLine = 0, startLine
	c.selection.EndCol, c.selection.EndLine = ansi.StringWidth(strings.TrimRight(lines[endLine], " ")), endLine
	c.selection.Active = false
}

// GetSelectedText returns the selected text with trailing padding removed
// from each line.
func (c *Chat) GetSelectedText() string {
	if !c.HasTextSelection() {
		return ""
	}

	lines := c.visibleLines()
	startCol, startLine, endCol, endLine := c.selection.area()

	var out []string
	for y := startLine; y <= endLine && y < len(lines); y++ {
		left, right := 0, ansi.StringWidth(lines[y])
		if y == startLine {
			left = startCol
		}
		if y == endLine {
			right = min(endCol, right)
		}
		if left >= right {
			out = append(out, "")
			continue
		}
		out = append(out, strings.TrimRight(ansi.Cut(lines[y], left, right), " "))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// CopySelectedText puts the selection on the terminal clipboard, reports it
// with a SelectionCopiedMsg and flashes the highlight.
func (c *Chat) CopySelectedText() tea.Cmd {
	text := c.GetSelectedText()
	if text == "" {
		return nil
	}
	c.selection.FlashFrame = 0
	return tea.Batch(
		tea.SetClipboard(text),
		func() tea.Msg { return SelectionCopiedMsg{Text: text} },
		SelectionFlashTick(),
	)
}

// selectionView paints the selection over the rendered viewport.
func (c *Chat) selectionView(view string) string {
	if !c.HasTextSelection() {
		return view
	}
	width, height := c.viewport.Width(), c.viewport.Height()
	if width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	style := TextSelectionStyle
	if c.selection.FlashFrame == 0 {
		style = TextSelectionFlashStyle
	}
	var bg, fg color.Color = style.GetBackground(), style.GetForeground()

	startCol, startLine, endCol, endLine := c.selection.area()
	for y := startLine; y <= endLine && y < height; y++ {
		xStart, xEnd := 0, width
		if y == startLine {
			xStart = startCol
		}
		if y == endLine {
			xEnd = endCol
		}
		for x := xStart; x < xEnd && x < width; x++ {
			cell := scr.CellAt(x, y)
			if cell == nil {
				continue
			}
			cell = cell.Clone()
			cell.Style.Bg = bg
			cell.Style.Fg = fg
			scr.SetCell(x, y, cell)
		}
	}
	return scr.Render()
}
