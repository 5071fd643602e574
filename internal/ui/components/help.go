package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pathlen/internal/ui/style"
)

// HelpSection is a titled group of bindings in the help overlay.
type HelpSection struct {
	Name     string
	Bindings []key.Binding
}

// RenderHelp renders the help overlay centered in width x height.
func RenderHelp(theme style.Theme, sections []HelpSection, width, height int) string {
	boxWidth := min(60, width-4)

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	keyStyle := theme.HelpKey.Width(14)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextSecondary)

	lines := []string{theme.ModalTitle.Render("  pathlen - Keyboard Shortcuts"), ""}
	for _, sec := range sections {
		lines = append(lines, sectionStyle.Render("  "+sec.Name))
		for _, b := range sec.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, keyStyle.Render("    "+h.Key)+" "+descStyle.Render(h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, theme.HelpDesc.Render("  Press ? or Esc to close"))

	box := theme.ModalStyle.
		Width(max(boxWidth, 0)).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
