package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/ui/style"
	"github.com/sadopc/pathlen/internal/util"
)

// ResultsView renders the scrollable list of matched paths.
type ResultsView struct {
	Theme  style.Theme
	Layout style.Layout
	Items  []pathlength.PathInfo
	Cursor int
	Offset int
	// Longest scales the length bars; the longest path fills its bar.
	Longest int
}

// Render renders the visible window of results.
func (rv *ResultsView) Render() string {
	width := rv.Layout.ContentWidth()
	contentHeight := rv.Layout.ContentHeight()

	if len(rv.Items) == 0 {
		empty := lipgloss.NewStyle().Foreground(rv.Theme.TextMuted).Render("  (no matching paths)")
		lines := []string{style.FullWidth(empty, width)}
		for len(lines) < contentHeight {
			lines = append(lines, strings.Repeat(" ", width))
		}
		return strings.Join(lines, "\n")
	}

	barWidth := rv.Layout.BarWidth()
	pathWidth := rv.Layout.PathWidth()

	start := rv.Offset
	end := start + contentHeight
	if end > len(rv.Items) {
		end = len(rv.Items)
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, rv.renderRow(rv.Items[i], i == rv.Cursor, barWidth, pathWidth, width))
	}

	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

func (rv *ResultsView) renderRow(item pathlength.PathInfo, selected bool, barWidth, pathWidth, totalWidth int) string {
	ratio := util.Ratio(item.Length, rv.Longest)

	indicator := "  "
	if selected {
		indicator = rv.Theme.CursorIndicator.Render(" >")
	}

	lengthStyled := rv.Theme.LengthText.
		Width(7).
		Foreground(rv.Theme.GradientColor(ratio)).
		Render(fmt.Sprintf("%d", item.Length))

	bar := rv.Theme.BarGradient(barWidth, ratio)
	path := rv.Theme.PathText.Render(util.TruncatePath(item.Path, pathWidth))

	row := fmt.Sprintf("%s%s [%s] %s", indicator, lengthStyled, bar, path)
	row = style.FullWidth(row, totalWidth)

	if selected {
		return rv.Theme.SelectedRow.Width(totalWidth).Render(row)
	}
	return row
}

// EnsureVisible adjusts offset to keep cursor visible.
func (rv *ResultsView) EnsureVisible() {
	contentHeight := rv.Layout.ContentHeight()
	if rv.Cursor < rv.Offset {
		rv.Offset = rv.Cursor
	}
	if rv.Cursor >= rv.Offset+contentHeight {
		rv.Offset = rv.Cursor - contentHeight + 1
	}
	if rv.Offset < 0 {
		rv.Offset = 0
	}
}
