// Package tuitest drives terminal programs through a pseudo terminal and
// records what they draw.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 32
	defaultTimeout = 5 * time.Second
)

// Step is one scripted interaction. Delay runs first, then Until is awaited,
// then Input is written. Any of the three may be empty.
type Step struct {
	Delay time.Duration
	Until string
	Input []byte
}

// Wait pauses the script.
func Wait(d time.Duration) Step { return Step{Delay: d} }

// WaitFor blocks the script until the screen has shown text.
func WaitFor(text string) Step { return Step{Until: text} }

// Type writes s as if typed.
func Type(s string) Step { return Step{Input: []byte(s)} }

// Press writes a key sequence such as KeyCtrlS.
func Press(key []byte) Step { return Step{Input: key} }

// Config configures how the harness spawns and drives the program. Env
// entries override inherited variables of the same name.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run starts the command inside a PTY, plays the steps and records every
// byte the program writes until it exits.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	s, err := startSession(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer s.close()

	start := time.Now()
	if err := s.play(ctx, cfg.Steps); err != nil {
		return nil, err
	}
	if err := s.wait(ctx, cfg); err != nil {
		return nil, err
	}
	s.close()
	<-s.drained

	raw := s.snapshot()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

// session is one running program and the output captured from it.
type session struct {
	cmd  *exec.Cmd
	ptmx *os.File

	mu  sync.Mutex
	out bytes.Buffer

	// wrote is pinged after every chunk; drained closes when the PTY is done.
	wrote     chan struct{}
	drained   chan struct{}
	closeOnce sync.Once
}

func startSession(ctx context.Context, cfg Config) (*session, error) {
	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	s := &session{
		cmd:     cmd,
		ptmx:    ptmx,
		wrote:   make(chan struct{}, 1),
		drained: make(chan struct{}),
	}
	go s.pump()
	return s, nil
}

func (s *session) pump() {
	defer close(s.drained)
	responder := newTerminalResponder(s.ptmx)
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			responder.Process(chunk)
			s.mu.Lock()
			s.out.Write(chunk)
			s.mu.Unlock()
			select {
			case s.wrote <- struct{}{}:
			default:
			}
		}
		if err != nil {
			// EOF, a closed PTY or EIO after exit all end the capture.
			return
		}
	}
}

func (s *session) snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.out.Bytes()...)
}

func (s *session) close() {
	s.closeOnce.Do(func() { _ = s.ptmx.Close() })
}

func (s *session) play(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: step %d: context cancelled before script finished: %w", i, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.Until != "" {
			if err := s.waitFor(ctx, step.Until); err != nil {
				return fmt.Errorf("tuitest: step %d: %w", i, err)
			}
		}
		if len(step.Input) > 0 {
			if _, err := s.ptmx.Write(step.Input); err != nil {
				return fmt.Errorf("tuitest: step %d: write input: %w", i, err)
			}
		}
	}
	return nil
}

func (s *session) waitFor(ctx context.Context, text string) error {
	for {
		if strings.Contains(plainText(s.snapshot()), text) {
			return nil
		}
		select {
		case <-s.wrote:
		case <-s.drained:
			if strings.Contains(plainText(s.snapshot()), text) {
				return nil
			}
			return fmt.Errorf("program exited before showing %q", text)
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", text, ctx.Err())
		}
	}
}

func (s *session) wait(ctx context.Context, cfg Config) error {
	exited := make(chan error, 1)
	go func() { exited <- s.cmd.Wait() }()

	select {
	case err := <-exited:
		if err == nil || exitAllowed(err, cfg) {
			return nil
		}
		return fmt.Errorf("tuitest: program exited with error: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
}

func exitAllowed(err error, cfg Config) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range cfg.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

func buildEnv(extra []string) []string {
	overridden := map[string]bool{}
	for _, entry := range extra {
		if key, _, ok := strings.Cut(entry, "="); ok {
			overridden[key] = true
		}
	}
	var env []string
	for _, entry := range os.Environ() {
		key, _, _ := strings.Cut(entry, "=")
		if !overridden[key] {
			env = append(env, entry)
		}
	}
	env = append(env, extra...)
	if !overridden["TERM"] {
		env = append(env, "TERM=xterm-256color")
	}
	return env
}

// ctrl returns the control byte for a letter, e.g. ctrl('s') is 0x13.
func ctrl(letter byte) []byte { return []byte{letter & 0x1f} }

var (
	KeyEnter = []byte{'\r'}
	KeyEsc   = []byte{27}
	KeyTab   = []byte{'\t'}
	KeyCtrlC = ctrl('c')
	KeyCtrlO = ctrl('o')
	KeyCtrlR = ctrl('r')
	KeyCtrlS = ctrl('s')
	KeyCtrlT = ctrl('t')
	KeyCtrlX = ctrl('x')
)
