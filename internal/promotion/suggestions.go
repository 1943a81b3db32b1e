// Package promotion turns a quick capture into a project: it builds the
// suggestion prompts, parses the model's JSON reply and drives the
// multi-step promotion flow against a Backend.
package promotion

import (
	"encoding/json"
	"strings"

	"vibepm/internal/ai"
)

type Question struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Hint     string `json:"hint"`
}

type Suggestions struct {
	SuggestedName       string     `json:"suggestedName"`
	SuggestedProblem    string     `json:"suggestedProblem"`
	SuggestedMvp        string     `json:"suggestedMvp"`
	ClarifyingQuestions []Question `json:"clarifyingQuestions"`
}

// Answer is a clarifying question paired with the user's reply.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SuggestionRequest is the body of the suggestion endpoint.
type SuggestionRequest struct {
	CaptureID   string   `json:"captureId"`
	Content     string   `json:"content"`
	Analysis    string   `json:"analysis"`
	UserAnswers []Answer `json:"userAnswers,omitempty"`
}

const systemPromptHead = `You are a product strategist helping convert brainstormed ideas into well-defined project specifications.

Given a user's raw idea and AI analysis, generate:
1. A concise project name (3-5 words max)
2. A clear problem statement (what problem does this solve?)
3. An MVP definition in MoSCoW format (Must Have, Should Have, Could Have, Won't Have)
4. 2-3 clarifying questions to help refine the project scope
`

const systemPromptTail = `
Respond in JSON format ONLY (no markdown, no code blocks):
{
  "suggestedName": "Project Name Here",
  "suggestedProblem": "Problem statement here...",
  "suggestedMvp": "## Must Have\\n- Feature 1\\n- Feature 2\\n\\n## Should Have\\n- Feature 3\\n\\n## Could Have\\n- Feature 4\\n\\n## Won't Have (v1)\\n- Feature 5",
  "clarifyingQuestions": [
    {
      "id": "q1",
      "question": "What is your target audience?",
      "hint": "This helps define features and complexity"
    }
  ]
}`

// CompletionRequest builds the suggestion call. Answers, when present, are
// added to the system prompt as a Q&A block.
func (r SuggestionRequest) CompletionRequest() ai.CompletionRequest {
	var sys strings.Builder
	sys.WriteString(systemPromptHead)
	if len(r.UserAnswers) > 0 {
		pairs := make([]string, len(r.UserAnswers))
		for i, qa := range r.UserAnswers {
			pairs[i] = "Q: " + qa.Question + "\nA: " + qa.Answer
		}
		sys.WriteString("\nThe user has provided additional context through these Q&A:\n")
		sys.WriteString(strings.Join(pairs, "\n\n"))
		sys.WriteString("\n\nUse these answers to improve your suggestions.\n")
	}
	sys.WriteString(systemPromptTail)

	analysis := "No AI analysis available yet."
	if r.Analysis != "" {
		analysis = "AI Analysis:\n" + r.Analysis
	}
	user := "Raw Idea:\n" + r.Content + "\n\n" + analysis + "\n\nGenerate project suggestions based on this idea."

	return ai.CompletionRequest{
		System:    sys.String(),
		User:      user,
		MaxTokens: ai.PromoteMaxTokens,
	}
}

// StripFences removes a surrounding markdown code fence, with or without a json tag.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Fallback is substituted when the model reply cannot be parsed.
func Fallback(content string) *Suggestions {
	return &Suggestions{
		SuggestedName:    "New Project",
		SuggestedProblem: content,
		SuggestedMvp:     "## Must Have\n- Core feature\n\n## Should Have\n- Secondary feature",
		ClarifyingQuestions: []Question{{
			ID:       "q1",
			Question: "What is the main goal of this project?",
			Hint:     "Helps define the core scope",
		}},
	}
}

// ParseSuggestions decodes the model reply. On failure it returns the
// fallback built from content and reports fellBack.
func ParseSuggestions(reply, content string) (s *Suggestions, fellBack bool) {
	var out Suggestions
	if err := json.Unmarshal([]byte(StripFences(reply)), &out); err != nil {
		return Fallback(content), true
	}
	if out.ClarifyingQuestions == nil {
		out.ClarifyingQuestions = []Question{}
	}
	return &out, false
}
