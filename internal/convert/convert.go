// Package convert turns study material into a styled Markdown explanation by
// dispatching one generation request at a time.
package convert

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/studyshift/internal/llm"
	"github.com/csheth/studyshift/internal/styles"
)

// NoContentPlaceholder is the Success text used when the service returns
// nothing without an abnormal finish reason.
const NoContentPlaceholder = "No content generated. Please try again."

// Request is an immutable snapshot taken when a conversion is triggered.
type Request struct {
	ID      string
	Content string
	Style   styles.Style
}

// Failure describes a failed conversion.
type Failure struct {
	Kind    Kind
	Message string
	// Detail is the raw error text or finish reason behind Message.
	Detail string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Outcome is the result of exactly one Request: Markdown on success, or a
// Failure.
type Outcome struct {
	RequestID string
	Style     styles.Style
	Markdown  string
	Failure   *Failure
	Started   time.Time
	Duration  time.Duration
}

func (o Outcome) Succeeded() bool { return o.Failure == nil }

// Orchestrator owns the processing flag, the last request and the current
// outcome. It is safe for concurrent use.
type Orchestrator struct {
	gen    llm.Generator
	model  string
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	processing bool
	last       *Request
	current    *Outcome
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithModel overrides the generator's default model.
func WithModel(model string) Option {
	return func(o *Orchestrator) { o.model = model }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func New(gen llm.Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{gen: gen, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.Named("convert")
	return o
}

// Processing reports whether a request is in flight.
func (o *Orchestrator) Processing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing
}

// Current returns the most recent outcome, if any.
func (o *Orchestrator) Current() (Outcome, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return Outcome{}, false
	}
	return *o.current, true
}

// LastRequest returns the request Regenerate would replay.
func (o *Orchestrator) LastRequest() (Request, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return Request{}, false
	}
	return *o.last, true
}

// Convert dispatches content in the given style and blocks until the outcome
// is known. It returns dispatched=false without side effects when the content
// is blank, the style is unknown or another request is in flight.
func (o *Orchestrator) Convert(ctx context.Context, content string, id styles.ID) (Outcome, bool) {
	if strings.TrimSpace(content) == "" {
		return Outcome{}, false
	}
	style, ok := styles.Lookup(id)
	if !ok {
		return Outcome{}, false
	}
	return o.dispatch(ctx, Request{ID: uuid.NewString(), Content: content, Style: style})
}

// Regenerate replays the last request with a fresh ID. It is a no-op when no
// request has been made yet or one is in flight.
func (o *Orchestrator) Regenerate(ctx context.Context) (Outcome, bool) {
	o.mu.Lock()
	last := o.last
	o.mu.Unlock()
	if last == nil {
		return Outcome{}, false
	}
	req := *last
	req.ID = uuid.NewString()
	return o.dispatch(ctx, req)
}

func (o *Orchestrator) dispatch(ctx context.Context, req Request) (out Outcome, dispatched bool) {
	o.mu.Lock()
	if o.processing {
		o.mu.Unlock()
		return Outcome{}, false
	}
	o.processing = true
	o.last = &req
	o.mu.Unlock()

	started := o.now()
	out = Outcome{RequestID: req.ID, Style: req.Style, Started: started}
	defer func() {
		if r := recover(); r != nil {
			out.Markdown = ""
			out.Failure = &Failure{Kind: UnknownError, Message: fmt.Sprint(r), Detail: fmt.Sprint(r)}
		}
		out.Duration = o.now().Sub(started)
		o.finish(out)
		dispatched = true
	}()

	o.logger.Info("conversion dispatched",
		zap.String("request", req.ID),
		zap.String("style", string(req.Style.ID)),
		zap.Int("chars", len(req.Content)))

	out.Markdown, out.Failure = o.generate(ctx, req)
	return out, true
}

func (o *Orchestrator) finish(out Outcome) {
	o.mu.Lock()
	o.current = &out
	o.processing = false
	o.mu.Unlock()

	fields := []zap.Field{
		zap.String("request", out.RequestID),
		zap.Duration("duration", out.Duration),
	}
	if out.Failure != nil {
		o.logger.Warn("conversion failed", append(fields,
			zap.String("kind", string(out.Failure.Kind)),
			zap.String("detail", out.Failure.Detail))...)
		return
	}
	o.logger.Info("conversion finished", append(fields, zap.Int("markdown_chars", len(out.Markdown)))...)
}

func (o *Orchestrator) generate(ctx context.Context, req Request) (string, *Failure) {
	if o.gen == nil {
		return "", classified("no text generation service configured")
	}
	model := o.model
	if model == "" {
		model = o.gen.Model()
	}
	resp, err := o.gen.Generate(ctx, llm.Request{
		Model:             model,
		Prompt:            BuildPrompt(req.Content, req.Style),
		SystemInstruction: SystemInstruction,
		Temperature:       Temperature,
	})
	if err != nil {
		return "", classified(err.Error())
	}
	if resp.Text != "" {
		return resp.Text, nil
	}
	if len(resp.Candidates) > 0 {
		if reason := resp.Candidates[0].FinishReason; reason != "" && reason != llm.FinishStop {
			return "", &Failure{Kind: ContentBlocked, Message: UserMessage(ContentBlocked), Detail: reason}
		}
	}
	return NoContentPlaceholder, nil
}

func classified(raw string) *Failure {
	kind, msg := Classify(raw)
	return &Failure{Kind: kind, Message: msg, Detail: raw}
}
