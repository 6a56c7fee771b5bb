package render

import "strings"

// SplitAnswerKey separates a practice quiz from the answer key that follows
// its first "Answers" heading. ok is false when there is no such heading.
func SplitAnswerKey(markdown string) (body, answers string, ok bool) {
	lines := strings.SplitAfter(markdown, "\n")
	offset := 0
	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if !inFence && isAnswersHeading(trimmed) {
			return strings.TrimRight(markdown[:offset], "\n"), markdown[offset:], true
		}
		offset += len(line)
	}
	return markdown, "", false
}

func isAnswersHeading(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}
	title := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#")))
	title = strings.Trim(title, "*_: ")
	return title == "answers" || title == "answer key" || strings.HasPrefix(title, "answers ")
}
