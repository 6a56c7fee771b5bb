package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/csheth/studyshift/internal/llm"
)

type ollamaStub struct {
	mu       sync.Mutex
	requests []map[string]any
	reply    string
}

func (s *ollamaStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/generate" {
		http.NotFound(w, r)
		return
	}
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	s.mu.Lock()
	s.requests = append(s.requests, body)
	s.mu.Unlock()
	_ = json.NewEncoder(w).Encode(map[string]any{
		"response":    s.reply,
		"done":        true,
		"done_reason": "stop",
	})
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("STUDYSHIFT_LOG_FILE", filepath.Join(dir, "studyshift.log"))
	chdir(t, dir)
	return dir
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func execute(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(stdin)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range append([]*cobra.Command{cmd}, cmd.Commands()...) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func TestStylesCommandListsCatalog(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, strings.NewReader(""), "styles")
	if err != nil {
		t.Fatalf("styles: %v", err)
	}
	for _, want := range []string{"visual", "story", "flowchart", "analogy", "practice", "Practice-Based"} {
		if !strings.Contains(out, want) {
			t.Fatalf("styles output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertPrintsMarkdown(t *testing.T) {
	isolate(t)
	stub := &ollamaStub{reply: "## Quiz\n\n1. Question?\n\n### Answers\n\n1. Yes"}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	out, status, err := execute(t, strings.NewReader(""),
		"convert", "--provider", "ollama", "--endpoint", srv.URL, "--model", "tiny",
		"--style", "practice", "--text", "The mitochondria is the powerhouse of the cell.")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(status, "with Ollama (tiny)…") {
		t.Fatalf("status line should name the generator once:\n%s", status)
	}
	if !strings.Contains(out, "### Answers") {
		t.Fatalf("stdout missing markdown:\n%s", out)
	}
	if len(stub.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(stub.requests))
	}
	req := stub.requests[0]
	if req["model"] != "tiny" {
		t.Fatalf("model = %v", req["model"])
	}
	prompt, _ := req["prompt"].(string)
	if !strings.Contains(prompt, "Selected Learning Style: Practice-Based") || !strings.Contains(prompt, "powerhouse") {
		t.Fatalf("unexpected prompt:\n%s", prompt)
	}
	if system, _ := req["system"].(string); system == "" {
		t.Fatal("system instruction missing")
	}
}

func TestConvertReadsStdinAndExports(t *testing.T) {
	dir := isolate(t)
	stub := &ollamaStub{reply: "# Story\n\nOnce upon a time."}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	target := filepath.Join(dir, "out", "tale.md")
	_, stderr, err := execute(t, strings.NewReader("photosynthesis notes\n"),
		"convert", "--provider", "ollama", "--endpoint", srv.URL, "--style", "story", "--out", target)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if string(data) != "# Story\n\nOnce upon a time." {
		t.Fatalf("export = %q", data)
	}
	if !strings.Contains(stderr, "Saved") {
		t.Fatalf("stderr missing status: %s", stderr)
	}
}

func TestConvertSurfacesClassifiedFailure(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model is overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := execute(t, strings.NewReader(""),
		"convert", "--provider", "ollama", "--endpoint", srv.URL, "--text", "x")
	if err == nil || !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("err = %v, want overloaded failure", err)
	}
}

func TestConvertRejectsUnknownStyle(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, strings.NewReader(""), "convert", "--style", "interpretive-dance", "--text", "x")
	if err == nil || !strings.Contains(err.Error(), "visual, story, flowchart, analogy, practice") {
		t.Fatalf("err = %v", err)
	}
}

func TestExportTargetInfersFormat(t *testing.T) {
	cases := []struct {
		args   []string
		format string
	}{
		{nil, ""},
		{[]string{"--out", "a/b.pdf"}, "pdf"},
		{[]string{"--out", "a/b"}, "md"},
		{[]string{"--format", "txt"}, "txt"},
	}
	for _, tc := range cases {
		cmd := &cobra.Command{}
		cmd.Flags().String("format", "", "")
		cmd.Flags().String("out", "", "")
		if err := cmd.Flags().Parse(tc.args); err != nil {
			t.Fatal(err)
		}
		format, _, err := exportTarget(cmd)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if string(format) != tc.format {
			t.Fatalf("%v: format = %q, want %q", tc.args, format, tc.format)
		}
	}
}

func TestGeneratorLabelNamesModelOnce(t *testing.T) {
	gen, err := llm.NewFromEnv(llm.Config{Provider: "ollama", Model: "tiny", Endpoint: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if got := generatorLabel(gen); got != "Ollama (tiny)" {
		t.Fatalf("label = %q, want %q", got, "Ollama (tiny)")
	}
}
