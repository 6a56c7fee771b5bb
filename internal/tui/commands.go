package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/studyshift/internal/acquire"
	"github.com/csheth/studyshift/internal/convert"
	"github.com/csheth/studyshift/internal/export"
	"github.com/csheth/studyshift/internal/styles"
)

const exportTimeout = time.Minute

func extractFileJob(unit *acquire.Unit, file acquire.File) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		err := unit.ExtractFile(ctx, file)
		return extractResultMsg{name: file.Name, err: err}, err
	}
}

func convertJob(orch *convert.Orchestrator, content string, id styles.ID) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		out, dispatched := orch.Convert(ctx, content, id)
		return conversionResultMsg{outcome: out, dispatched: dispatched}, outcomeErr(out)
	}
}

func regenerateJob(orch *convert.Orchestrator) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		out, dispatched := orch.Regenerate(ctx)
		return conversionResultMsg{outcome: out, dispatched: dispatched}, outcomeErr(out)
	}
}

func exportJob(exp *export.Exporter, doc export.Document, format export.Format) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, exportTimeout)
		defer cancel()
		path, err := exp.Export(ctx, doc, format)
		return exportResultMsg{path: path, format: format, err: err}, err
	}
}

func copyJob(cb export.Clipboard, markdown string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		err := export.Copy(cb, markdown)
		return copyResultMsg{err: err}, err
	}
}

// waitForChange blocks until a background producer touches the unit.
func waitForChange(unit *acquire.Unit) tea.Cmd {
	return func() tea.Msg {
		<-unit.Changed()
		return acquisitionChangedMsg{}
	}
}

func outcomeErr(out convert.Outcome) error {
	if out.Failure != nil {
		return out.Failure
	}
	return nil
}
