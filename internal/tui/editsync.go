package tui

import "github.com/charmbracelet/bubbles/runeutil"

// editorSanitizer is the same sanitizer the textarea applies to inserted
// text, so a buffer can be mapped onto what the editor shows.
var editorSanitizer = runeutil.NewSanitizer()

// editorView returns the runes the editor shows for buffer and, for each of
// them, the index of the buffer rune it came from.
func editorView(buffer []rune) (shown []rune, origin []int) {
	shown = make([]rune, 0, len(buffer))
	origin = make([]int, 0, len(buffer))
	for i, r := range buffer {
		for _, s := range editorSanitizer.Sanitize([]rune{r}) {
			shown = append(shown, s)
			origin = append(origin, i)
		}
	}
	return shown, origin
}

// editorText is the editor's rendering of buffer.
func editorText(buffer string) string {
	shown, _ := editorView([]rune(buffer))
	return string(shown)
}

// spliceEdit applies the change between two editor values to buffer. Runes
// outside the edited span are kept as they are, so tabs and carriage returns
// the editor rewrites survive unrelated edits. ok is false, and after is
// returned, when before is not the editor's rendering of buffer.
func spliceEdit(buffer, before, after string) (string, bool) {
	buf := []rune(buffer)
	shown, origin := editorView(buf)
	if string(shown) != before {
		return after, false
	}
	b, a := []rune(before), []rune(after)

	p := 0
	for p < len(b) && p < len(a) && b[p] == a[p] {
		p++
	}
	s := 0
	for s < len(b)-p && s < len(a)-p && b[len(b)-1-s] == a[len(a)-1-s] {
		s++
	}

	// Widen the span to whole buffer runes; a half edited tab is replaced
	// by what is left of its expansion.
	lo, hi := p, len(b)-s
	for lo > 0 && lo < len(b) && origin[lo-1] == origin[lo] {
		lo--
	}
	for hi > 0 && hi < len(b) && origin[hi-1] == origin[hi] {
		hi++
	}

	bufLo := len(buf)
	if lo < len(b) {
		bufLo = origin[lo]
	}
	bufHi := bufLo
	if hi > lo {
		bufHi = origin[hi-1] + 1
	}
	replacement := a[lo : len(a)-(len(b)-hi)]

	out := make([]rune, 0, bufLo+len(replacement)+len(buf)-bufHi)
	out = append(out, buf[:bufLo]...)
	out = append(out, replacement...)
	out = append(out, buf[bufHi:]...)
	return string(out), true
}
