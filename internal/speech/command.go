package speech

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CommandRecognizer runs an external dictation helper. The helper writes one
// transcription per line to stdout, either as JSON
// ({"text":"...","final":true} or {"error":"..."}) or as plain text, which
// counts as a final result. The literal argument "{locale}" is replaced with
// the requested locale; the locale is also exported as SPEECH_LOCALE.
type CommandRecognizer struct {
	Command string
	Args    []string
	Env     []string

	lookPath func(string) (string, error)
}

// NewCommandRecognizer builds a recognizer around a shell-style command line.
func NewCommandRecognizer(commandLine string) *CommandRecognizer {
	fields := strings.Fields(commandLine)
	r := &CommandRecognizer{}
	if len(fields) > 0 {
		r.Command = fields[0]
		r.Args = fields[1:]
	}
	return r
}

func (r *CommandRecognizer) Available() error {
	if r == nil || strings.TrimSpace(r.Command) == "" {
		return fmt.Errorf("%w: no dictation command configured", ErrUnavailable)
	}
	look := r.lookPath
	if look == nil {
		look = exec.LookPath
	}
	if _, err := look(r.Command); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *CommandRecognizer) Start(ctx context.Context, locale string) (Session, error) {
	if err := r.Available(); err != nil {
		return nil, err
	}
	if locale == "" {
		locale = DefaultLocale
	}
	args := make([]string, len(r.Args))
	for i, arg := range r.Args {
		args[i] = strings.ReplaceAll(arg, "{locale}", locale)
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Env = append(append(os.Environ(), r.Env...), "SPEECH_LOCALE="+locale)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start dictation command: %w", err)
	}

	s := &commandSession{
		cancel:  cancel,
		results: make(chan Result),
		done:    make(chan struct{}),
	}
	go s.pump(ctx, cmd, stdout, &stderr)
	return s, nil
}

type commandSession struct {
	cancel   context.CancelFunc
	results  chan Result
	done     chan struct{}
	stopOnce sync.Once
}

func (s *commandSession) Results() <-chan Result {
	return s.results
}

func (s *commandSession) Stop() error {
	s.stopOnce.Do(s.cancel)
	<-s.done
	return nil
}

type helperLine struct {
	Text  string `json:"text"`
	Final *bool  `json:"final"`
	Error string `json:"error"`
}

func (s *commandSession) pump(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, stderr *bytes.Buffer) {
	defer close(s.done)
	defer close(s.results)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		res, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		select {
		case s.results <- res:
		case <-ctx.Done():
			_ = cmd.Wait()
			return
		}
	}

	err := cmd.Wait()
	if ctx.Err() != nil || err == nil {
		return
	}
	msg := strings.TrimSpace(stderr.String())
	if msg != "" {
		err = fmt.Errorf("dictation command exited: %w (%s)", err, msg)
	} else {
		err = fmt.Errorf("dictation command exited: %w", err)
	}
	select {
	case s.results <- Result{Err: err}:
	case <-ctx.Done():
	}
}

func parseLine(line string) (Result, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}, false
	}
	if !strings.HasPrefix(line, "{") {
		return Result{Text: line, Final: true}, true
	}
	var parsed helperLine
	if err := json.Unmarshal([]byte(line), &parsed); err != nil {
		return Result{Text: line, Final: true}, true
	}
	if parsed.Error != "" {
		return Result{Err: fmt.Errorf("recognizer: %s", parsed.Error)}, true
	}
	final := true
	if parsed.Final != nil {
		final = *parsed.Final
	}
	return Result{Text: parsed.Text, Final: final}, true
}
