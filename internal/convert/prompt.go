package convert

import (
	"fmt"
	"strings"

	"github.com/csheth/studyshift/internal/styles"
)

// SystemInstruction frames every conversion.
const SystemInstruction = `You are an expert educational content converter called "AI Learning Style Converter".
Your goal is to rewrite study material into specific learning styles for university students.
Strictly adhere to the following constraints:
1. Use only the input content; do not hallucinate unrelated information.
2. Keep explanations concise, clear, and suitable for early university students.
3. Ensure accuracy and high readability.
4. Output must be in Markdown format.

For specific styles:
- If 'Visual Explanation' or 'Flowchart' is selected, try to generate a Mermaid.js diagram code block (using ` + "```mermaid" + `) where appropriate to visualize the concept, followed by a text explanation.
- For 'Story-Based', create a coherent narrative.
- For 'Practice-Based', provide 5 Multiple Choice Questions (with answers at the bottom) and 2 Short Answer scenarios.
`

const (
	// Temperature is shared by every style.
	Temperature = 0.7

	contentDelimiter = `"""`
)

// BuildPrompt assembles the user prompt for content in the given style.
func BuildPrompt(content string, style styles.Style) string {
	var b strings.Builder
	b.WriteString("Input Content:\n")
	b.WriteString(contentDelimiter + "\n")
	b.WriteString(content)
	b.WriteString("\n" + contentDelimiter + "\n\n")
	fmt.Fprintf(&b, "Selected Learning Style: %s\n\n", style.Label)
	b.WriteString("Specific Instructions for this style:\n")
	b.WriteString(style.Augmentation)
	b.WriteString("\n\nPlease convert the content now.\n")
	return b.String()
}
