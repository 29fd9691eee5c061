package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/persona-chat/backend/internal/model/persona"
)

// SystemPrompt returns the instructions injected ahead of the conversation.
func SystemPrompt(p persona.Persona) string {
	if prompt := strings.TrimSpace(p.SystemPrompt); prompt != "" {
		return prompt
	}
	return buildBasicSystemPrompt(p)
}

// buildBasicSystemPrompt creates a basic system prompt when the persona carries none
func buildBasicSystemPrompt(p persona.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s", p.Name)
	if p.Title != "" {
		fmt.Fprintf(&b, ", %s", p.Title)
	}
	b.WriteString(".")
	if p.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", p.Description)
	}
	fmt.Fprintf(&b, "\n\nStay in character as %s for the whole conversation.", p.Name)
	return b.String()
}
