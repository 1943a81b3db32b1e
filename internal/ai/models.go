package ai

var openAIModels = map[string]string{
	"gpt-5.2":       "gpt-5.2",
	"gpt-4":         "gpt-4",
	"gpt-4-turbo":   "gpt-4-turbo",
	"gpt-4o":        "gpt-4o",
	"gpt-4o-mini":   "gpt-4o-mini",
	"gpt-3.5-turbo": "gpt-3.5-turbo",
}

var anthropicModels = map[string]string{
	"claude-3-opus":   "claude-3-opus-20240229",
	"claude-3-sonnet": "claude-3-5-sonnet-20241022",
	"claude-3-haiku":  "claude-3-haiku-20240307",
}

var geminiModels = map[string]string{
	"gemini-pro":       "gemini-1.5-pro",
	"gemini-2.5-pro":   "gemini-2.5-pro",
	"gemini-2.5-flash": "gemini-2.5-flash",
	"gemini-1.5-pro":   "gemini-1.5-pro",
	"gemini-1.5-flash": "gemini-1.5-flash",
}

// OpenAIModel maps a configured name to an OpenAI model id.
func OpenAIModel(name string) string {
	if m, ok := openAIModels[name]; ok {
		return m
	}
	return "gpt-4o"
}

// AnthropicModel maps a short alias to a versioned Anthropic model id.
func AnthropicModel(name string) string {
	if m, ok := anthropicModels[name]; ok {
		return m
	}
	return "claude-3-5-sonnet-20241022"
}

func GeminiModel(name string) string {
	if m, ok := geminiModels[name]; ok {
		return m
	}
	return "gemini-1.5-flash"
}
