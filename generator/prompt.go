package generator

import (
	"fmt"
	"strings"
)

// Prompt is the message pair sent to the model.
type Prompt struct {
	System string
	User   string
}

const systemPrompt = "You are a technical blog writer. Output Markdown only, no explanations or code fences around the whole post."

// BuildPrompt turns the author's title, notes and tags into a generation prompt.
func BuildPrompt(title, notes string, tags []string) Prompt {
	var sb strings.Builder
	sb.WriteString("Write a complete, well-structured blog post from the rough notes below.\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Start with a level-one heading holding the final post title.\n")
	sb.WriteString("- Follow it with a 2-3 sentence introduction that summarises the post.\n")
	sb.WriteString("- Organise the body with ## sections, lists and code blocks where they help.\n")
	sb.WriteString("- Finish with a short conclusion.\n")
	if len(tags) == 0 {
		sb.WriteString("- On the very last line write `Tags: ` followed by 3-5 comma separated topic tags.\n")
	}
	sb.WriteString(fmt.Sprintf("\nTitle: %s\n", title))
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(tags, ", ")))
	}
	sb.WriteString("\nNotes:\n")
	sb.WriteString(notes)
	sb.WriteString("\n")

	return Prompt{
		System: systemPrompt,
		User:   sb.String(),
	}
}
