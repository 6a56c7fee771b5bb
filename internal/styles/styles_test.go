package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHasFiveStylesInOrder(t *testing.T) {
	t.Parallel()

	all := All()
	require.Len(t, all, 5)
	labels := make([]string, len(all))
	for i, s := range all {
		labels[i] = s.Label
		assert.NotEmpty(t, s.Description, s.ID)
		assert.NotEmpty(t, s.Augmentation, s.ID)
		assert.NotEmpty(t, s.Glyph, s.ID)
	}
	assert.Equal(t, []string{"Visual Explanation", "Story-Based", "Flowchart", "Analogies", "Practice-Based"}, labels)
}

func TestLookupRejectsUnknownID(t *testing.T) {
	t.Parallel()

	_, ok := Lookup(ID("comic"))
	assert.False(t, ok)

	s, ok := Lookup(Practice)
	require.True(t, ok)
	assert.Equal(t, "CheckSquare", s.Icon)
	assert.Equal(t, "rose", s.Color)
}

func TestParseAcceptsIDsAndLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ID
	}{
		{"visual", Visual},
		{"  Story-Based ", Story},
		{"FLOWCHART", Flowchart},
		{"analogies", Analogy},
		{"practice", Practice},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			s, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.ID)
		})
	}

	_, err := Parse("mindmap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "visual, story, flowchart, analogy, practice")
}

func TestNextAndPrevWrap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Story, Visual.Next())
	assert.Equal(t, Visual, Practice.Next())
	assert.Equal(t, Practice, Visual.Prev())
}

func TestAugmentationsCarryStyleRules(t *testing.T) {
	t.Parallel()

	visual, _ := Lookup(Visual)
	assert.True(t, visual.DiagramFirst())
	assert.Contains(t, visual.Augmentation, "graph TD")
	assert.Contains(t, visual.Augmentation, `subgraph ID ["Title"]`)

	flow, _ := Lookup(Flowchart)
	assert.True(t, flow.DiagramFirst())
	assert.True(t, strings.HasPrefix(flow.Augmentation, "Strictly output a Mermaid.js flowchart"))

	practice, _ := Lookup(Practice)
	assert.False(t, practice.DiagramFirst())
	assert.Contains(t, practice.Augmentation, AnswersHeading)

	analogy, _ := Lookup(Analogy)
	assert.Contains(t, analogy.Augmentation, "at least two distinct")
}
