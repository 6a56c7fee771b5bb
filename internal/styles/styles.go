// Package styles holds the fixed catalog of learning styles a conversion can target.
package styles

import (
	"fmt"
	"strings"
)

// ID identifies one of the five learning styles. The set is closed.
type ID string

const (
	Visual    ID = "visual"
	Story     ID = "story"
	Flowchart ID = "flowchart"
	Analogy   ID = "analogy"
	Practice  ID = "practice"
)

// Style is an immutable catalog entry.
type Style struct {
	ID          ID
	Label       string
	Description string
	Icon        string
	Glyph       string
	Color       string
	// Augmentation is appended to the user prompt for this style.
	Augmentation string
}

// All returns the catalog in display order.
func All() []Style {
	out := make([]Style, len(order))
	for i, id := range order {
		out[i] = variant(id)
	}
	return out
}

// IDs returns the style identifiers in display order.
func IDs() []ID {
	return append([]ID(nil), order...)
}

// Lookup returns the style for id.
func Lookup(id ID) (Style, bool) {
	if !id.Valid() {
		return Style{}, false
	}
	return variant(id), true
}

// Parse resolves a user supplied identifier or label, case-insensitively.
func Parse(raw string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, id := range order {
		s := variant(id)
		if key == string(id) || key == strings.ToLower(s.Label) {
			return s, nil
		}
	}
	return Style{}, fmt.Errorf("unknown learning style %q (want one of %s)", raw, strings.Join(idStrings(), ", "))
}

// Valid reports whether id names a catalog entry.
func (id ID) Valid() bool {
	switch id {
	case Visual, Story, Flowchart, Analogy, Practice:
		return true
	default:
		return false
	}
}

// Next returns the style after id in display order, wrapping around.
func (id ID) Next() ID {
	return order[(indexOf(id)+1)%len(order)]
}

// Prev returns the style before id in display order, wrapping around.
func (id ID) Prev() ID {
	return order[(indexOf(id)+len(order)-1)%len(order)]
}

// DiagramFirst reports whether the style asks the model for a mermaid diagram.
func (s Style) DiagramFirst() bool {
	return s.ID == Visual || s.ID == Flowchart
}

var order = []ID{Visual, Story, Flowchart, Analogy, Practice}

func indexOf(id ID) int {
	for i, candidate := range order {
		if candidate == id {
			return i
		}
	}
	return 0
}

func idStrings() []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[i] = string(id)
	}
	return out
}

func variant(id ID) Style {
	switch id {
	case Visual:
		return Style{
			ID:           Visual,
			Label:        "Visual Explanation",
			Description:  "Generate descriptive diagrams, mental maps, and visual breakdowns.",
			Icon:         "Eye",
			Glyph:        "◉",
			Color:        "blue",
			Augmentation: visualAugmentation,
		}
	case Story:
		return Style{
			ID:           Story,
			Label:        "Story-Based",
			Description:  "Rewrite content as a relatable narrative or metaphoric tale.",
			Icon:         "BookOpen",
			Glyph:        "❡",
			Color:        "purple",
			Augmentation: storyAugmentation,
		}
	case Flowchart:
		return Style{
			ID:           Flowchart,
			Label:        "Flowchart",
			Description:  "Break content into step-by-step sequences or logic flows.",
			Icon:         "GitGraph",
			Glyph:        "⎇",
			Color:        "emerald",
			Augmentation: flowchartAugmentation,
		}
	case Analogy:
		return Style{
			ID:           Analogy,
			Label:        "Analogies",
			Description:  "Explain complex concepts using real-life comparisons.",
			Icon:         "Zap",
			Glyph:        "ϟ",
			Color:        "amber",
			Augmentation: analogyAugmentation,
		}
	case Practice:
		return Style{
			ID:           Practice,
			Label:        "Practice-Based",
			Description:  "Create quizzes, MCQs, and exercises to test knowledge.",
			Icon:         "CheckSquare",
			Glyph:        "☑",
			Color:        "rose",
			Augmentation: practiceAugmentation,
		}
	default:
		panic(fmt.Sprintf("styles: unknown id %q", id))
	}
}
