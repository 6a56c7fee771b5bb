package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/csheth/studyshift/internal/acquire"
	"github.com/csheth/studyshift/internal/convert"
	"github.com/csheth/studyshift/internal/export"
	"github.com/csheth/studyshift/internal/render"
	"github.com/csheth/studyshift/internal/styles"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Acquire   *acquire.Unit
	Converter *convert.Orchestrator
	Exporter  *export.Exporter
	Clipboard export.Clipboard
	// Theme is "dark" or "light".
	Theme  string
	Style  styles.ID
	Model  string
	Logger *zap.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Acquire == nil {
		config.Acquire = acquire.New(acquire.Options{Logger: config.Logger})
	}
	if config.Converter == nil {
		config.Converter = convert.New(nil, convert.WithLogger(config.Logger))
	}
	if config.Exporter == nil {
		config.Exporter = &export.Exporter{Dir: ".", Logger: config.Logger}
	}
	if !config.Style.Valid() {
		config.Style = styles.Visual
	}

	editor := textarea.New()
	editor.Placeholder = editorPlaceholder
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.Focus()

	fileInput := textinput.New()
	fileInput.Placeholder = filePromptPlaceholder
	fileInput.CharLimit = 512
	fileInput.Width = 60

	exportInput := textinput.New()
	exportInput.Placeholder = exportPromptPlaceholder
	exportInput.CharLimit = 120
	exportInput.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:       config,
		logger:       config.Logger.Named("tui"),
		jobs:         newJobBus(config.Logger),
		stage:        stageCompose,
		editor:       editor,
		fileInput:    fileInput,
		exportInput:  exportInput,
		exportFormat: export.Markdown,
		spinner:      spin,
		viewport:     vp,
		layout:       newPageLayout(),
		style:        config.Style,
		activeJobs:   map[string]jobSnapshot{},
		infoMessage:  "Add study material, pick a style with Tab, then press Ctrl+S.",
	}
	m.setTheme(config.Theme)
	m.syncFromUnit()
	m.applyLayout()
	return m
}

type model struct {
	config Config
	logger *zap.Logger
	jobs   *jobBus
	stage  stage

	editor      textarea.Model
	fileInput   textinput.Model
	exportInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	layout      pageLayout

	style        styles.ID
	themeName    string
	renderer     *render.Renderer
	snapshot     acquire.Snapshot
	outcome      *convert.Outcome
	revealed     bool
	exportFormat export.Format
	activeJobs   map[string]jobSnapshot
	// extracting is set from dispatch of an extract job until its result.
	extracting bool

	viewportDirty bool
	infoMessage   string
	errorMessage  string
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.config.Acquire))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		return m, nil
	case acquisitionChangedMsg:
		m.syncFromUnit()
		return m, waitForChange(m.config.Acquire)
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case extractResultMsg:
		m.handleExtractResult(msg)
		return m, nil
	case conversionResultMsg:
		m.handleConversionResult(msg)
		return m, nil
	case exportResultMsg:
		m.handleExportResult(msg)
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Copy failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "Copied Markdown to the clipboard."
		return m, nil
	case tea.MouseMsg:
		if m.stage == stageOutput {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageCompose:
		return m.handleComposeKey(key)
	case stageFilePrompt:
		return m.handleFilePromptKey(key)
	case stageConverting:
		// Input is frozen while a request is in flight.
		return m, nil
	case stageOutput:
		return m.handleOutputKey(key)
	case stageExportPrompt:
		return m.handleExportPromptKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleComposeKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.readingFile() {
		switch key.String() {
		case "tab", "shift+tab", "ctrl+t":
		default:
			m.infoMessage = "Reading file… the editor unlocks when it finishes."
			return m, nil
		}
	}
	switch key.String() {
	case "ctrl+s":
		return m, m.startConversion()
	case "tab":
		m.selectStyle(m.style.Next())
		return m, nil
	case "shift+tab":
		m.selectStyle(m.style.Prev())
		return m, nil
	case "ctrl+o":
		m.stage = stageFilePrompt
		m.editor.Blur()
		m.fileInput.SetValue("")
		m.errorMessage = ""
		return m, m.fileInput.Focus()
	case "ctrl+r":
		return m, m.toggleVoice()
	case "ctrl+x":
		m.config.Acquire.Clear()
		m.editor.Reset()
		m.syncFromUnit()
		m.errorMessage = ""
		m.infoMessage = "Study material cleared."
		return m, nil
	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	case "esc":
		if m.outcome != nil {
			m.showOutput()
		}
		return m, nil
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(key)
	if after := m.editor.Value(); after != before {
		text, _ := spliceEdit(m.config.Acquire.Text(), before, after)
		m.config.Acquire.SetText(text)
		m.snapshot.Text = text
	}
	return m, cmd
}

func (m *model) handleFilePromptKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.backToCompose()
		return m, nil
	case tea.KeyEnter:
		path := expandHome(strings.TrimSpace(m.fileInput.Value()))
		if path == "" {
			m.errorMessage = "Enter a file path or press Esc to cancel."
			return m, nil
		}
		m.backToCompose()
		file := acquire.FileFromPath(path)
		if !acquire.Supported(file) {
			err := m.config.Acquire.ExtractFile(context.Background(), file)
			m.errorMessage = acquire.Message(err)
			return m, nil
		}
		m.infoMessage = fmt.Sprintf("Reading %s…", file.Name)
		m.extracting = true
		return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindExtract, extractFileJob(m.config.Acquire, file)))
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(key)
	return m, cmd
}

func (m *model) handleOutputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "b":
		m.backToCompose()
		return m, nil
	case "r":
		return m, m.startRegenerate()
	case "c":
		if md := m.successMarkdown(); md != "" {
			return m, m.jobs.Start(jobKindCopy, copyJob(m.config.Clipboard, md))
		}
		return m, nil
	case "e":
		if m.successMarkdown() == "" {
			return m, nil
		}
		m.stage = stageExportPrompt
		m.exportInput.SetValue(export.DefaultBaseName(m.outcome.Style))
		m.exportInput.CursorEnd()
		m.errorMessage = ""
		return m, m.exportInput.Focus()
	case "a":
		if m.hasAnswerKey() {
			m.revealed = !m.revealed
			m.markViewportDirty()
		}
		return m, nil
	case "ctrl+t", "t":
		m.toggleTheme()
		return m, nil
	case "g", "home":
		m.viewport.GotoTop()
		return m, nil
	case "G", "end":
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *model) handleExportPromptKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.exportInput.Blur()
		m.stage = stageOutput
		return m, nil
	case tea.KeyTab:
		m.exportFormat = m.exportFormat.Next()
		return m, nil
	case tea.KeyEnter:
		md := m.successMarkdown()
		if md == "" {
			m.stage = stageOutput
			return m, nil
		}
		doc := export.Document{
			Markdown: md,
			Style:    m.outcome.Style,
			BaseName: strings.TrimSpace(m.exportInput.Value()),
		}
		format := m.exportFormat
		m.exportInput.Blur()
		m.stage = stageOutput
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Exporting %s…", strings.ToUpper(string(format)))
		return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindExport, exportJob(m.config.Exporter, doc, format)))
	}
	var cmd tea.Cmd
	m.exportInput, cmd = m.exportInput.Update(key)
	return m, cmd
}

func (m *model) startConversion() tea.Cmd {
	content := m.config.Acquire.Text()
	if strings.TrimSpace(content) == "" {
		m.infoMessage = "Add some study material before converting."
		return nil
	}
	if m.config.Converter.Processing() {
		return nil
	}
	style, _ := styles.Lookup(m.style)
	m.enterConverting(fmt.Sprintf("Converting to %s…", style.Label))
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindConvert, convertJob(m.config.Converter, content, m.style)))
}

func (m *model) startRegenerate() tea.Cmd {
	last, ok := m.config.Converter.LastRequest()
	if !ok || m.config.Converter.Processing() {
		return nil
	}
	m.enterConverting(fmt.Sprintf("Regenerating %s…", last.Style.Label))
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindRegenerate, regenerateJob(m.config.Converter)))
}

func (m *model) enterConverting(message string) {
	m.stage = stageConverting
	m.editor.Blur()
	m.errorMessage = ""
	m.infoMessage = message
}

func (m *model) toggleVoice() tea.Cmd {
	listening, err := m.config.Acquire.ToggleVoice(context.Background())
	if err != nil {
		m.errorMessage = acquire.Message(err)
		return nil
	}
	m.errorMessage = ""
	if listening {
		m.infoMessage = "Listening… press Ctrl+R to stop."
	} else {
		m.infoMessage = "Stopped listening."
	}
	m.syncFromUnit()
	return nil
}

func (m *model) handleExtractResult(msg extractResultMsg) {
	m.extracting = false
	m.syncFromUnit()
	if msg.err != nil {
		m.errorMessage = acquire.Message(msg.err)
		m.infoMessage = ""
		return
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Loaded %s (%d characters).", msg.name, len([]rune(m.snapshot.Text)))
}

func (m *model) handleConversionResult(msg conversionResultMsg) {
	if !msg.dispatched {
		if m.outcome != nil {
			m.showOutput()
		} else {
			m.backToCompose()
		}
		return
	}
	out := msg.outcome
	m.outcome = &out
	m.revealed = false
	m.style = out.Style.ID
	m.showOutput()
	m.viewport.GotoTop()
	if out.Failure != nil {
		m.errorMessage = out.Failure.Message
		m.infoMessage = "Press r to retry or b to edit the input."
		return
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("%s ready in %s.", out.Style.Label, out.Duration.Round(100*time.Millisecond))
}

func (m *model) handleExportResult(msg exportResultMsg) {
	if msg.err != nil {
		m.errorMessage = fmt.Sprintf("Export failed: %v", msg.err)
		m.infoMessage = ""
		return
	}
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Saved %s", msg.path)
}

func (m *model) showOutput() {
	m.stage = stageOutput
	m.editor.Blur()
	m.markViewportDirty()
}

func (m *model) backToCompose() {
	m.stage = stageCompose
	m.fileInput.Blur()
	m.exportInput.Blur()
	m.editor.Focus()
}

func (m *model) selectStyle(id styles.ID) {
	m.style = id
	style, _ := styles.Lookup(id)
	m.infoMessage = fmt.Sprintf("%s %s: %s", style.Glyph, style.Label, style.Description)
}

func (m *model) toggleTheme() {
	if m.themeName == "light" {
		m.setTheme("dark")
	} else {
		m.setTheme("light")
	}
	m.infoMessage = fmt.Sprintf("Switched to the %s theme.", m.themeName)
}

func (m *model) setTheme(name string) {
	if name != "light" {
		name = "dark"
	}
	m.themeName = name
	m.renderer = render.New(render.WithTheme(render.ThemeNamed(name)))
	m.markViewportDirty()
}

// syncFromUnit copies the acquisition state into the view and the editor.
func (m *model) syncFromUnit() {
	m.snapshot = m.config.Acquire.Snapshot()
	shown := editorText(m.snapshot.Text)
	current := m.editor.Value()
	switch {
	case current == shown:
	case current != "" && strings.HasPrefix(shown, current) && m.appendToEditor(shown[len(current):]):
	default:
		m.editor.SetValue(shown)
	}
}

// appendToEditor adds text at the end of the editor and puts the cursor back
// where it was. It reports false, before inserting anything, when the cursor
// cannot be walked to the last line.
func (m *model) appendToEditor(text string) bool {
	row := m.editor.Line()
	info := m.editor.LineInfo()
	col := info.StartColumn + info.ColumnOffset

	steps := m.editor.Length() + m.editor.LineCount()
	for i := 0; i < steps && m.editor.Line() < m.editor.LineCount()-1; i++ {
		m.editor.CursorDown()
	}
	if m.editor.Line() != m.editor.LineCount()-1 {
		return false
	}
	m.editor.CursorEnd()
	m.editor.InsertString(text)

	steps = m.editor.Length() + m.editor.LineCount()
	for i := 0; i < steps && m.editor.Line() > row; i++ {
		m.editor.CursorUp()
	}
	m.editor.SetCursor(col)
	return true
}

func (m *model) readingFile() bool {
	return m.extracting || m.snapshot.Status == acquire.ReadingFile
}

func (m *model) busy() bool {
	return m.stage == stageConverting || m.readingFile() || len(m.activeJobs) > 0
}

func (m *model) shutdown() {
	if m.config.Acquire.Listening() {
		_, _ = m.config.Acquire.ToggleVoice(context.Background())
	}
}

func (m *model) successMarkdown() string {
	if m.outcome == nil || !m.outcome.Succeeded() {
		return ""
	}
	return m.outcome.Markdown
}

func (m *model) hasAnswerKey() bool {
	md := m.successMarkdown()
	if md == "" {
		return false
	}
	_, _, ok := render.SplitAnswerKey(md)
	return ok
}

func (m *model) applyLayout() {
	m.editor.SetWidth(m.layout.contentWidth - 4)
	m.editor.SetHeight(m.layout.editorHeight)
	m.viewport.Width = m.layout.contentWidth
	m.viewport.Height = m.layout.outputHeight
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	m.viewport.SetContent(m.outputContent())
}

func (m *model) outputContent() string {
	if m.outcome == nil {
		return ""
	}
	width := m.viewport.Width - 2
	if f := m.outcome.Failure; f != nil {
		lines := []string{errorStyle.Render("Conversion failed: " + f.Message)}
		if f.Detail != "" && f.Detail != f.Message {
			lines = append(lines, helperStyle.Render(previewText(f.Detail, 400)))
		}
		return strings.Join(lines, "\n\n")
	}
	md := m.outcome.Markdown
	body, answers, ok := render.SplitAnswerKey(md)
	if !ok {
		return m.renderer.Render(md, width)
	}
	parts := []string{m.renderer.Render(body, width)}
	if m.revealed {
		parts = append(parts, m.renderer.Render(answers, width))
	} else {
		parts = append(parts, answersFoldStyle.Render("▸ Answers hidden. Press a to reveal."))
	}
	return strings.Join(parts, "\n\n")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

var styleColors = map[string]lipgloss.Color{
	"blue":    lipgloss.Color("#3B82F6"),
	"purple":  lipgloss.Color("#A855F7"),
	"emerald": lipgloss.Color("#10B981"),
	"amber":   lipgloss.Color("#F59E0B"),
	"rose":    lipgloss.Color("#F43F5E"),
}

func styleColor(s styles.Style) lipgloss.Color {
	if c, ok := styleColors[s.Color]; ok {
		return c
	}
	return lipgloss.Color("81")
}

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	answersFoldStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#F43F5E"))

	heroAccentColor        = lipgloss.Color("#818CF8")
	heroEmberColor         = lipgloss.Color("#1E1B4B")
	heroTextColor          = lipgloss.Color("#E0E7FF")
	heroSecondaryTextColor = lipgloss.Color("#A5B4FC")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a5b4fc")).Padding(0, 1)
	badgeStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#fde68a")).Padding(0, 1)
	listeningStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#dc2626")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4b5563")).Padding(0, 1)
	panelStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0b0a1f"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"███████╗ ████████╗ ██╗   ██╗ ██████╗  ██╗   ██╗ ███████╗ ██╗  ██╗ ██╗ ███████╗ ████████╗ ",
		"██╔════╝ ╚══██╔══╝ ██║   ██║ ██╔══██╗ ╚██╗ ██╔╝ ██╔════╝ ██║  ██║ ██║ ██╔════╝ ╚══██╔══╝ ",
		"███████╗    ██║    ██║   ██║ ██║  ██║  ╚████╔╝  ███████╗ ███████║ ██║ █████╗      ██║    ",
		"╚════██║    ██║    ██║   ██║ ██║  ██║   ╚██╔╝   ╚════██║ ██╔══██║ ██║ ██╔══╝      ██║    ",
		"███████║    ██║    ╚██████╔╝ ██████╔╝    ██║    ███████║ ██║  ██║ ██║ ██║         ██║    ",
		"╚══════╝    ╚═╝     ╚═════╝  ╚═════╝     ╚═╝    ╚══════╝ ╚═╝  ╚═╝ ╚═╝ ╚═╝         ╚═╝    ",
	}
)
