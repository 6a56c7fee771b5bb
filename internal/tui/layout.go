package tui

import "strings"

type pageLayout struct {
	windowWidth  int
	windowHeight int
	contentWidth int
	editorHeight int
	outputHeight int
	showLogo     bool
}

const (
	composeChrome = 16
	outputChrome  = 10
	minEditor     = 4
	minOutput     = 6
)

func newPageLayout() pageLayout {
	return pageLayout{
		contentWidth: 80,
		editorHeight: 10,
		outputHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.contentWidth = innerWidth
	l.showLogo = width >= logoWidth()+viewportHorizontalPadding && height >= 32

	editor := height - composeChrome
	if l.showLogo {
		editor -= len(logoArtLines) + 1
	}
	if editor < minEditor {
		editor = minEditor
	}
	l.editorHeight = editor

	output := height - outputChrome
	if output < minOutput {
		output = minOutput
	}
	l.outputHeight = output
}

func logoWidth() int {
	width := 0
	for _, line := range logoArtLines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	// renderLogo adds a drop shadow column and one cell of padding per side.
	return width + 3
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
