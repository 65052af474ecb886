package generator

import (
	"fmt"
	"strings"
)

// NewLLMFromSettings picks the concrete client for settings.Provider.
func NewLLMFromSettings(settings LLMSettings) (LLMClient, error) {
	switch strings.ToLower(settings.Provider) {
	case "gemini", "":
		if settings.BaseURL == "" {
			settings.BaseURL = GeminiOpenAIBaseURL
		}
		return NewOpenAILLMFromConfig(&settings)
	case "openai":
		return NewOpenAILLMFromConfig(&settings)
	case "deepseek":
		// DeepSeek speaks the OpenAI protocol but only at its own endpoint.
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return NewOpenAILLMFromConfig(&settings)
	case "anthropic":
		return NewAnthropicLLMFromConfig(&settings)
	case "mock":
		return MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", settings.Provider)
	}
}
