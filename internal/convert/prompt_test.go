package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csheth/studyshift/internal/styles"
)

func TestBuildPromptLayout(t *testing.T) {
	t.Parallel()

	story, _ := styles.Lookup(styles.Story)
	prompt := BuildPrompt("Enzymes speed reactions.", story)

	assert.True(t, strings.HasPrefix(prompt, "Input Content:\n\"\"\"\nEnzymes speed reactions.\n\"\"\"\n"))
	assert.Contains(t, prompt, "Selected Learning Style: Story-Based\n")
	assert.Contains(t, prompt, "Specific Instructions for this style:\n"+story.Augmentation)
	assert.True(t, strings.HasSuffix(prompt, "Please convert the content now.\n"))
}

func TestBuildPromptEveryStyleHasAugmentation(t *testing.T) {
	t.Parallel()

	for _, s := range styles.All() {
		prompt := BuildPrompt("x", s)
		assert.Contains(t, prompt, s.Augmentation, s.ID)
	}
}

func TestSystemInstructionMentionsMarkdownAndMermaid(t *testing.T) {
	t.Parallel()

	assert.Contains(t, SystemInstruction, "Output must be in Markdown format.")
	assert.Contains(t, SystemInstruction, "```mermaid")
}
