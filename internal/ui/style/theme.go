package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colors and styles of the viewer.
type Theme struct {
	Primary       lipgloss.Color
	Accent        lipgloss.Color
	Error         lipgloss.Color
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Length bars blend from GradientStart (short) to GradientEnd (long).
	GradientStart lipgloss.Color
	GradientEnd   lipgloss.Color

	HeaderStyle     lipgloss.Style
	SortBarStyle    lipgloss.Style
	SortActiveStyle lipgloss.Style
	StatusBarStyle  lipgloss.Style
	SelectedRow     lipgloss.Style
	CursorIndicator lipgloss.Style
	PathText        lipgloss.Style
	LengthText      lipgloss.Style
	ErrorText       lipgloss.Style
	WarningText     lipgloss.Style
	HelpKey         lipgloss.Style
	HelpDesc        lipgloss.Style
	ModalStyle      lipgloss.Style
	ModalTitle      lipgloss.Style
	SpinnerStyle    lipgloss.Style
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	var (
		teal     = lipgloss.Color("#00D4AA")
		red      = lipgloss.Color("#E06C75")
		yellow   = lipgloss.Color("#E5C07B")
		bgMedium = lipgloss.Color("#282A36")
		bgLight  = lipgloss.Color("#313244")
	)

	t := Theme{
		Primary:       lipgloss.Color("#7B2FBE"),
		Accent:        lipgloss.Color("#61AFEF"),
		Error:         red,
		TextPrimary:   lipgloss.Color("#CDD6F4"),
		TextSecondary: lipgloss.Color("#BAC2DE"),
		TextMuted:     lipgloss.Color("#6C7086"),
		GradientStart: teal,
		GradientEnd:   red,
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	t.HeaderStyle = fg(t.TextPrimary).Bold(true).Background(bgMedium)
	t.SortBarStyle = fg(t.TextSecondary).Background(bgLight)
	t.SortActiveStyle = fg(t.TextPrimary).Bold(true).Background(t.Primary).Padding(0, 1)
	t.StatusBarStyle = fg(t.TextSecondary).Background(bgMedium)
	t.SelectedRow = fg(lipgloss.Color("#FFFFFF")).Bold(true).Background(lipgloss.Color("#4A4A6A"))
	t.CursorIndicator = fg(t.Primary).Bold(true)
	t.PathText = fg(t.TextSecondary)
	t.LengthText = fg(t.TextMuted).Align(lipgloss.Right)
	t.ErrorText = fg(t.Error)
	t.WarningText = fg(yellow).Bold(true)
	t.HelpKey = fg(t.Primary).Bold(true)
	t.HelpDesc = fg(t.TextMuted)
	t.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Background(bgMedium)
	t.ModalTitle = fg(t.TextPrimary).Bold(true).Padding(0, 0, 1, 0)
	t.SpinnerStyle = fg(teal)

	return t
}

// GradientColor returns the gradient color at ratio, clamped to [0,1].
func (t Theme) GradientColor(ratio float64) lipgloss.Color {
	switch {
	case ratio <= 0:
		return t.GradientStart
	case ratio >= 1:
		return t.GradientEnd
	}
	from, to := t.gradientEnds()
	return lipgloss.Color(from.BlendLab(to, ratio).Hex())
}

// BarGradient renders a bar of width cells, filled to ratio. Each filled
// cell takes the gradient color of its position, so longer paths reach
// further into the warm end.
func (t Theme) BarGradient(width int, ratio float64) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(ratio*float64(width)), 0), width)

	from, to := t.gradientEnds()
	span := float64(max(width-1, 1))

	var b strings.Builder
	for i := range filled {
		c := lipgloss.Color(from.BlendLab(to, float64(i)/span).Hex())
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("━"))
	}
	if rest := width - filled; rest > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(strings.Repeat("─", rest)))
	}
	return b.String()
}

func (t Theme) gradientEnds() (colorful.Color, colorful.Color) {
	from, _ := colorful.Hex(string(t.GradientStart))
	to, _ := colorful.Hex(string(t.GradientEnd))
	return from, to
}
