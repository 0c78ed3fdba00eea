package generator

import (
	"fmt"
	"strings"
)

// DefaultSystemInstruction sets the style rules for every generated cheatsheet
const DefaultSystemInstruction = `You are a technical writer producing developer cheatsheets.

Rules:
- Output a single Markdown document and nothing else. No preamble, no closing remarks.
- Start with a level-one heading naming the project.
- Group content under level-two headings by task (installation, configuration, core usage, common recipes, troubleshooting).
- Prefer short code blocks and tables over prose. Every code block declares its language.
- Only use commands, options and APIs that appear in the supplied documentation. Do not invent flags or functions.
- Keep explanations to one line per item.`

const userPromptTemplate = `Create a cheatsheet for the project "%s" from the documentation below.

<documentation>
%s
</documentation>`

// BuildPrompt returns the user message sent with the documentation
func BuildPrompt(projectName, documentation string) string {
	return fmt.Sprintf(userPromptTemplate, strings.TrimSpace(projectName), documentation)
}
