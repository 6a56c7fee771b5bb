package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used for rendered Markdown.
type Theme struct {
	Name string

	H1, H2, H3 lipgloss.Style
	Strong     lipgloss.Style
	Emphasis   lipgloss.Style
	Strike     lipgloss.Style
	Code       lipgloss.Style
	CodeBlock  lipgloss.Style
	Quote      lipgloss.Style
	Bullet     lipgloss.Style
	Rule       lipgloss.Style
	Link       lipgloss.Style
	Diagram    lipgloss.Style
	DiagramTag lipgloss.Style
	Muted      lipgloss.Style
}

// DarkTheme suits dark terminal backgrounds.
func DarkTheme() Theme {
	return Theme{
		Name:       "dark",
		H1:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A5B4FC")).Underline(true),
		H2:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C7D2FE")),
		H3:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0E7FF")),
		Strong:     lipgloss.NewStyle().Bold(true),
		Emphasis:   lipgloss.NewStyle().Italic(true),
		Strike:     lipgloss.NewStyle().Strikethrough(true),
		Code:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FCA5A5")),
		CodeBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB")).Background(lipgloss.Color("#1F2937")).Padding(0, 1),
		Quote:      lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true),
		Bullet:     lipgloss.NewStyle().Foreground(lipgloss.Color("#818CF8")).Bold(true),
		Rule:       lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")),
		Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA")).Underline(true),
		Diagram:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#34D399")).Padding(0, 1),
		DiagramTag: lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// LightTheme suits light terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Name:       "light",
		H1:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3730A3")).Underline(true),
		H2:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4338CA")),
		H3:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F46E5")),
		Strong:     lipgloss.NewStyle().Bold(true),
		Emphasis:   lipgloss.NewStyle().Italic(true),
		Strike:     lipgloss.NewStyle().Strikethrough(true),
		Code:       lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C")),
		CodeBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")).Background(lipgloss.Color("#F3F4F6")).Padding(0, 1),
		Quote:      lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563")).Italic(true),
		Bullet:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4F46E5")).Bold(true),
		Rule:       lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")),
		Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("#1D4ED8")).Underline(true),
		Diagram:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#059669")).Padding(0, 1),
		DiagramTag: lipgloss.NewStyle().Foreground(lipgloss.Color("#059669")).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// ThemeNamed returns the light theme for "light" and the dark theme otherwise.
func ThemeNamed(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}
