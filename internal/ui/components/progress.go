package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pathlen/internal/search"
	"github.com/sadopc/pathlen/internal/ui/style"
	"github.com/sadopc/pathlen/internal/util"
)

// RenderSearchProgress renders the search progress overlay. spinner is the
// current spinner frame.
func RenderSearchProgress(theme style.Theme, spinner string, root string, progress search.Progress, width, height int) string {
	boxWidth := 50
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	var lines []string

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		Render("Searching...")
	lines = append(lines, "  "+spinner+" "+title)

	if root != "" && boxWidth > 12 {
		rootLine := util.TruncatePath(root, boxWidth-8)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  "+rootLine))
	}
	lines = append(lines, "")

	statStyle := lipgloss.NewStyle().Foreground(theme.TextSecondary)
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Visited: %s", util.FormatCount(progress.Visited))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Dirs:    %s", util.FormatCount(progress.DirsListed))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Matched: %s", util.FormatCount(progress.Matched))))
	lines = append(lines, statStyle.Render(fmt.Sprintf("  Speed:   %s items/s", util.FormatCount(int64(progress.ItemsPerSecond())))))

	if progress.Skipped > 0 {
		lines = append(lines, theme.ErrorText.Render(fmt.Sprintf("  Skipped: %d unreadable", progress.Skipped)))
	}

	lines = append(lines, "")

	elapsed := "  Elapsed: " + util.FormatElapsed(progress.Duration)
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render(elapsed))
	lines = append(lines, theme.HelpDesc.Render("  esc/q to stop and keep partial results"))

	content := strings.Join(lines, "\n")

	box := theme.ModalStyle.
		Width(max(boxWidth, 0)).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
