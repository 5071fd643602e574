package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/ui/style"
	"github.com/sadopc/pathlen/internal/util"
)

// RenderHeader renders the top header bar: title, search root and counts.
func RenderHeader(theme style.Theme, root string, summary pathlength.Summary, unit pathlength.LengthUnit, width int) string {
	if width < 10 {
		return ""
	}

	titleStyled := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(" pathlen")

	stats := fmt.Sprintf("%s paths  longest %d %s ",
		util.FormatCount(int64(summary.Count)),
		summary.Longest,
		unit,
	)
	statsStyled := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(stats)

	titleW := lipgloss.Width(titleStyled)
	statsW := lipgloss.Width(statsStyled)

	// Root gets whatever space remains
	rootMaxW := width - titleW - statsW - 3 // 3 for "  " separator + safety
	rootStr := root
	if rootMaxW > 5 {
		rootStr = util.TruncatePath(rootStr, rootMaxW)
	} else {
		rootStr = ""
	}

	rootStyled := lipgloss.NewStyle().Foreground(theme.TextPrimary).Render("  " + rootStr)
	rootW := lipgloss.Width(rootStyled)

	gap := width - titleW - rootW - statsW
	if gap < 1 {
		gap = 1
	}

	line := titleStyled + rootStyled + strings.Repeat(" ", gap) + statsStyled
	return theme.HeaderStyle.Width(width).Render(line)
}
