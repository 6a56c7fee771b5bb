package styles

const (
	visualAugmentation = "Focus on creating a mental image. If a process or hierarchy is described, generate a Mermaid.js diagram (graph TD) code block. " +
		"CRITICAL SYNTAX RULES: Use 'graph TD'. Use simple alphanumeric IDs for nodes (e.g., Node1, StepA). " +
		"Wrap ALL label text in double quotes (e.g., A[\"Label Text\"]). Do not use brackets () inside labels unless escaped. " +
		"If using subgraphs, IDs MUST be one word (alphanumeric only). Use syntax `subgraph ID [\"Title\"]` for titles with spaces. " +
		"After the code block, explain the diagram."

	flowchartAugmentation = "Strictly output a Mermaid.js flowchart (graph TD) code block that represents the logic. " +
		"CRITICAL SYNTAX RULES: Use 'graph TD'. Use simple alphanumeric IDs (e.g., A, B, C). " +
		"Wrap ALL label text in double quotes (e.g., A[\"Start Process\"]). Avoid special characters in IDs. " +
		"If using subgraphs, IDs MUST be one word (alphanumeric only). Use syntax `subgraph ID [\"Title\"]` for titles with spaces. " +
		"Follow it with a brief textual summary."

	storyAugmentation = "Rewrite this content as a short, engaging story with characters or personified elements to explain the mechanisms or facts. Make it memorable."

	analogyAugmentation = "Explain the key concepts using at least two distinct, simple real-world analogies that a college student would understand instantly."

	practiceAugmentation = "Generate a mini-quiz. Include 3-5 Multiple Choice Questions and 1 critical thinking question. " +
		"Provide the answer key at the very end hidden under a '### Answers' section."
)

// AnswersHeading marks the start of the answer key in practice output.
const AnswersHeading = "### Answers"
