package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/report"
	"github.com/sadopc/pathlen/internal/ui/style"
)

// StatusInfo holds the current state for the status bar.
type StatusInfo struct {
	Summary   pathlength.Summary
	Cursor    int
	Cancelled bool
	Message   string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(theme style.Theme, info StatusInfo, width int) string {
	if info.Message != "" {
		msgLine := " " + theme.WarningText.Render(info.Message)
		return theme.StatusBarStyle.Width(width).Render(msgLine)
	}

	var parts []string
	if info.Summary.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", info.Cursor+1, info.Summary.Count))
		parts = append(parts, fmt.Sprintf("shortest %d", info.Summary.Shortest))
		parts = append(parts, fmt.Sprintf("longest %d", info.Summary.Longest))
	} else {
		parts = append(parts, "no matching paths")
	}
	if info.Cancelled {
		parts = append(parts, theme.WarningText.Render("search cancelled"))
	}

	left := " " + strings.Join(parts, " | ")

	hints := []struct{ key, desc string }{
		{"?", "help"},
		{"E", "csv"},
		{"J", "json"},
		{"q", "quit"},
	}

	var rightParts []string
	for _, h := range hints {
		k := theme.HelpKey.Render(h.key)
		d := theme.HelpDesc.Render(" " + h.desc)
		rightParts = append(rightParts, k+d)
	}
	right := strings.Join(rightParts, "  ") + " "

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := width - leftW - rightW
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right
	return theme.StatusBarStyle.Width(width).Render(line)
}

// SortInfo describes the active ordering and filter for the sort bar.
type SortInfo struct {
	Sorted bool
	Config report.SortConfig
	Min    int
	Max    int
	Unit   pathlength.LengthUnit
}

// RenderSortBar renders the row showing the sort order and length filter.
func RenderSortBar(theme style.Theme, info SortInfo, width int) string {
	labels := []struct {
		name  string
		field report.SortField
	}{
		{"l Length", report.SortByLength},
		{"p Path", report.SortByPath},
	}

	var tabs []string
	for _, l := range labels {
		label := " " + l.name
		if info.Sorted && info.Config.Field == l.field {
			if info.Config.Order == report.SortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
			tabs = append(tabs, theme.SortActiveStyle.Render(label+" "))
			continue
		}
		tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextMuted).Padding(0, 1).Render(label+" "))
	}
	left := " " + strings.Join(tabs, " ")

	filter := lipgloss.NewStyle().
		Foreground(theme.TextMuted).
		Render("Filter: " + boundsLabel(info.Min, info.Max) + " " + info.Unit.String() + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(filter)
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + filter
	return theme.SortBarStyle.Width(width).Render(line)
}

func boundsLabel(minLen, maxLen int) string {
	lo, hi := "*", "*"
	if minLen >= 0 {
		lo = fmt.Sprintf("%d", minLen)
	}
	if maxLen >= 0 {
		hi = fmt.Sprintf("%d", maxLen)
	}
	return lo + ".." + hi
}
