package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/studyshift/internal/acquire"
	"github.com/csheth/studyshift/internal/export"
	"github.com/csheth/studyshift/internal/styles"
)

func (m *model) View() string {
	switch m.stage {
	case stageCompose, stageFilePrompt:
		return m.viewCompose()
	case stageConverting:
		return m.viewConverting()
	case stageOutput, stageExportPrompt:
		return m.viewOutput()
	default:
		return ""
	}
}

func (m *model) viewCompose() string {
	parts := []string{
		m.heroView(),
		m.styleCardsView(),
		m.editorPanel(),
	}
	if m.stage == stageFilePrompt {
		parts = append(parts, m.filePromptView())
	}
	parts = append(parts, m.noticeView(), m.footerView())
	return joinNonEmpty(parts)
}

func (m *model) viewConverting() string {
	style, _ := styles.Lookup(m.style)
	body := fmt.Sprintf("%s %s", m.spinner.View(), m.infoMessage)
	return joinNonEmpty([]string{
		m.heroView(),
		lipgloss.NewStyle().Foreground(styleColor(style)).Bold(true).Render(style.Glyph + " " + style.Label),
		body,
		m.footerView(),
	})
}

func (m *model) viewOutput() string {
	m.refreshViewportIfDirty()
	parts := []string{m.outputHeader(), m.viewport.View()}
	if m.stage == stageExportPrompt {
		parts = append(parts, m.exportPromptView())
	}
	parts = append(parts, m.noticeView(), m.footerView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	if m.layout.showLogo {
		return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		heroTitleStyle.Render("StudyShift"),
		taglineStyle.Render("  "+heroTagline),
	)
}

func (m *model) styleCardsView() string {
	cards := make([]string, 0, len(styles.All()))
	for _, s := range styles.All() {
		card := cardStyle
		label := s.Glyph + " " + s.Label
		if s.ID == m.style {
			card = card.BorderForeground(styleColor(s)).Bold(true).Foreground(styleColor(s))
			label = "▸ " + label
		}
		cards = append(cards, card.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > m.layout.contentWidth {
		// Too narrow for the card row; fall back to one line.
		style, _ := styles.Lookup(m.style)
		return sectionHeaderStyle.Render("Style: ") +
			lipgloss.NewStyle().Foreground(styleColor(style)).Bold(true).Render(style.Glyph+" "+style.Label) +
			helperStyle.Render("  (Tab to change)")
	}
	return row
}

func (m *model) editorPanel() string {
	header := []string{sectionHeaderStyle.Render("Study Material")}
	header = append(header, helperStyle.Render(fmt.Sprintf("%d chars", len([]rune(m.snapshot.Text)))))
	if m.snapshot.FileName != "" {
		header = append(header, badgeStyle.Render("▤ "+previewText(m.snapshot.FileName, 32)))
	}
	switch m.snapshot.Status {
	case acquire.Listening:
		header = append(header, listeningStyle.Render("● Listening"))
	case acquire.ReadingFile:
		header = append(header, helperStyle.Render(m.spinner.View()+" Reading file…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(header, "  "),
		panelStyle.Render(m.editor.View()),
	)
}

func (m *model) filePromptView() string {
	return panelStyle.Render(joinNonEmpty([]string{
		sectionHeaderStyle.Render("Open File"),
		m.fileInput.View(),
		helperStyle.Render("Enter to load • Esc to cancel"),
	}))
}

func (m *model) exportPromptView() string {
	formats := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		label := strings.ToUpper(string(f))
		if f == m.exportFormat {
			formats = append(formats, keyStyle.Render(label))
		} else {
			formats = append(formats, keyDescStyle.Render(" "+label+" "))
		}
	}
	name := export.FileName(m.exportInput.Value(), m.exportFormat)
	return panelStyle.Render(joinNonEmpty([]string{
		sectionHeaderStyle.Render("Export"),
		m.exportInput.View(),
		"Format " + strings.Join(formats, " "),
		helperStyle.Render("Saves " + name + " • Tab format • Enter save • Esc cancel"),
	}))
}

func (m *model) outputHeader() string {
	if m.outcome == nil {
		return ""
	}
	style := m.outcome.Style
	title := lipgloss.NewStyle().Foreground(styleColor(style)).Bold(true).Render(style.Glyph + " " + style.Label)
	if m.config.Model != "" {
		title += helperStyle.Render("  " + m.config.Model)
	}
	return title
}

func (m *model) noticeView() string {
	var parts []string
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if len(m.activeJobs) > 0 && m.stage != stageConverting {
			message = m.spinner.View() + " " + message
		}
		parts = append(parts, helperStyle.Render(message))
	}
	return strings.Join(parts, "\n")
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyHints() []keyHint {
	switch m.stage {
	case stageOutput:
		hints := []keyHint{
			{"↑/↓", "Scroll"},
			{"r", "Regenerate"},
			{"c", "Copy"},
			{"e", "Export"},
		}
		if m.hasAnswerKey() {
			if m.revealed {
				hints = append(hints, keyHint{"a", "Hide answers"})
			} else {
				hints = append(hints, keyHint{"a", "Show answers"})
			}
		}
		return append(hints, keyHint{"t", "Theme"}, keyHint{"b", "Edit input"}, keyHint{"Ctrl+C", "Quit"})
	case stageConverting:
		return []keyHint{{"Ctrl+C", "Quit"}}
	case stageExportPrompt, stageFilePrompt:
		return nil
	default:
		hints := []keyHint{
			{"Ctrl+S", "Convert"},
			{"Tab", "Style"},
			{"Ctrl+O", "Open file"},
			{"Ctrl+R", "Voice"},
			{"Ctrl+X", "Clear"},
			{"Ctrl+T", "Theme"},
		}
		if m.outcome != nil {
			hints = append(hints, keyHint{"Esc", "Last result"})
		}
		return append(hints, keyHint{"Ctrl+C", "Quit"})
	}
}

func (m *model) footerView() string {
	var cells []string
	for _, hint := range m.keyHints() {
		cells = append(cells, keyStyle.Render(hint.Key)+keyDescStyle.Render(" "+hint.Description+" "))
	}
	legend := strings.Join(cells, " ")
	return joinNonEmpty([]string{legend, m.statusBarView()})
}

func (m *model) statusBarView() string {
	stats := []string{
		strings.ToUpper(m.stage.String()),
		"Input " + m.snapshot.Status.String(),
		"Theme " + m.themeName,
	}
	if m.config.Converter.Processing() {
		stats = append(stats, "Generating…")
	}
	if n := len(m.activeJobs); n > 0 {
		stats = append(stats, fmt.Sprintf("%d job(s)", n))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width += 1
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			if y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}

	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y][x] = cell{r: r, style: logoFaceStyle}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
