package tui

import "testing"

func TestEditorText(t *testing.T) {
	if got := editorText("col1\tcol2\r\nrow"); got != "col1    col2\n\nrow" {
		t.Fatalf("editorText = %q", got)
	}
}

func TestSpliceEdit(t *testing.T) {
	tests := []struct {
		name   string
		buffer string
		after  string
		want   string
	}{
		{"append keeps tabs and CRLF", "col1\tcol2\r\nrow", "col1    col2\n\nrow!", "col1\tcol2\r\nrow!"},
		{"prepend", "a\tb", "# a    b", "# a\tb"},
		{"edit inside a tab expansion", "a\tb", "a   b", "a   b"},
		{"delete across CRLF", "a\r\nb", "ab", "ab"},
		{"replace middle word", "one\ttwo\tthree", "one    2    three", "one\t2\tthree"},
		{"clear everything", "x\ty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := spliceEdit(tt.buffer, editorText(tt.buffer), tt.after)
			if !ok {
				t.Fatal("before should match the buffer rendering")
			}
			if got != tt.want {
				t.Fatalf("spliceEdit = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpliceEditFallsBackWhenOutOfSync(t *testing.T) {
	got, ok := spliceEdit("buffer", "editor", "editor!")
	if ok || got != "editor!" {
		t.Fatalf("spliceEdit = %q, %v; want the editor value", got, ok)
	}
}
