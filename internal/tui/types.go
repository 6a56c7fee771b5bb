package tui

import (
	"github.com/csheth/studyshift/internal/convert"
	"github.com/csheth/studyshift/internal/export"
)

type stage int

const (
	stageCompose stage = iota
	stageFilePrompt
	stageConverting
	stageOutput
	stageExportPrompt
)

func (s stage) String() string {
	switch s {
	case stageCompose:
		return "compose"
	case stageFilePrompt:
		return "file"
	case stageConverting:
		return "converting"
	case stageOutput:
		return "output"
	case stageExportPrompt:
		return "export"
	default:
		return "unknown"
	}
}

const heroTagline = "Turn any study material into the way you learn best."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	editorPlaceholder         = "Paste or type your study material here, open a file with Ctrl+O, or dictate with Ctrl+R…"
	filePromptPlaceholder     = "Path to a .txt, .md or .pdf file"
	exportPromptPlaceholder   = "File name"
)

// acquisitionChangedMsg fires whenever the acquisition unit changed from a
// background producer.
type acquisitionChangedMsg struct{}

type extractResultMsg struct {
	name string
	err  error
}

type conversionResultMsg struct {
	outcome    convert.Outcome
	dispatched bool
}

type exportResultMsg struct {
	path   string
	format export.Format
	err    error
}

type copyResultMsg struct {
	err error
}
