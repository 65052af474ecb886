package generator

import (
	"context"
	"strings"
)

// MockLLM is a local stand-in that never calls an external model.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	// Echo the prompt back as a minimal well-formed post.
	var sb strings.Builder
	sb.WriteString("# Sample Generated Post\n\n")
	sb.WriteString("This is a placeholder summary produced without calling a model.\n\n")
	sb.WriteString("## Notes\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Tags: sample, draft\n")
	return sb.String(), nil
}
