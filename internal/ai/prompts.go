package ai

import (
	"fmt"
	"strings"
)

// Token budgets per call site.
const (
	AnalyzeMaxTokens = 2000
	PromoteMaxTokens = 1500
	PromptMaxTokens  = 1000
	NameMaxTokens    = 50

	NameTemperature = 0.9
)

const analyzeSystemPrompt = `You are a creative product advisor and implementation strategist. The user has brainstormed some ideas and needs your help to:

1. Analyze and understand the core concept(s)
2. Flesh out the ideas with additional suggestions and improvements
3. Provide a clear implementation roadmap

Format your response as follows:

## Analysis
[Brief analysis of the brainstormed ideas - what's good, what could be clarified]

## Enhanced Ideas
[Expand on the original ideas with creative additions, features, or angles they might not have considered]

## Implementation Roadmap
[Step-by-step practical guide to implement these ideas, broken into phases]

Be concise but thorough. Focus on actionable advice.`

// AnalyzeRequest builds the brainstorm analysis call for a numbered list of ideas.
func AnalyzeRequest(ideas []string) CompletionRequest {
	lines := make([]string, len(ideas))
	for i, idea := range ideas {
		lines[i] = fmt.Sprintf("%d. %s", i+1, idea)
	}
	user := "Here are my brainstormed ideas:\n\n" + strings.Join(lines, "\n") +
		"\n\nPlease analyze these ideas, suggest enhancements, and provide an implementation roadmap."
	return CompletionRequest{
		System:    analyzeSystemPrompt,
		User:      user,
		MaxTokens: AnalyzeMaxTokens,
	}
}

const taskPromptSystemPrompt = `You are an expert at crafting effective prompts for AI coding assistants like Claude or Cursor. Your job is to generate a clear, actionable prompt that will help the user accomplish their development task.

Rules for generating prompts:
1. Be specific and actionable - the prompt should be ready to copy/paste into an AI coding assistant
2. Include relevant context about what the task is trying to accomplish
3. Specify any constraints, patterns, or conventions to follow
4. Ask for explanations where appropriate
5. Structure the prompt clearly with sections if needed
6. Keep it concise but complete - avoid unnecessary verbosity
7. Use markdown formatting for readability

The prompt should be written as if the user is speaking directly to an AI assistant.`

// TaskContext is what the prompt generator knows about a task.
type TaskContext struct {
	ProjectName     string
	ProjectProblem  *string
	MvpDefinition   *string
	TaskTitle       string
	TaskDescription *string
	Complexity      string
}

func optionalLine(label string, v *string) string {
	if v == nil || *v == "" {
		return ""
	}
	return label + ": " + *v
}

// TaskPromptRequest builds the call that writes a coding-assistant prompt for a task.
func TaskPromptRequest(tc TaskContext) CompletionRequest {
	var b strings.Builder
	b.WriteString("Generate an effective AI coding prompt for this task:\n\n")
	b.WriteString("PROJECT: " + tc.ProjectName + "\n")
	b.WriteString(optionalLine("PROJECT GOAL", tc.ProjectProblem) + "\n")
	b.WriteString(optionalLine("MVP DEFINITION", tc.MvpDefinition) + "\n\n")
	b.WriteString("TASK TITLE: " + tc.TaskTitle + "\n")
	b.WriteString(optionalLine("TASK DESCRIPTION", tc.TaskDescription) + "\n")
	b.WriteString("COMPLEXITY: " + tc.Complexity + "\n\n")
	b.WriteString("Generate a prompt that will help accomplish this task effectively. The prompt should be ready to use with an AI coding assistant.")
	return CompletionRequest{
		System:    taskPromptSystemPrompt,
		User:      b.String(),
		MaxTokens: PromptMaxTokens,
	}
}

const nameSystemPrompt = `You are a creative naming expert. Generate a single creative, catchy project name (2-4 words max).

Rules:
- Make it memorable and cool-sounding, like a startup name or brand
- Avoid generic descriptions - be creative and evocative
- Can use single powerful words like "Vortex", "Nimbus", "Ember", "Pulse"
- Can combine words creatively like "SkyForge", "CodePulse", "NightOwl"
- The name should subtly relate to the project's purpose but not be a literal description
- NO quotes, NO explanations - just output the name itself

Examples of good names:
- "Vortex" for a data pipeline tool
- "Ember" for a notification system
- "SkyForge" for a cloud deployment tool
- "Axiom" for a testing framework
- "Nimbus" for a file storage app`

// NameRequest builds the project-name suggestion call.
func NameRequest(currentName string, problem *string) CompletionRequest {
	desc := "No description available."
	if problem != nil && *problem != "" {
		desc = "Project description: " + *problem
	}
	return CompletionRequest{
		System:      nameSystemPrompt,
		User:        "Current project name: " + currentName + "\n" + desc + "\n\nGenerate a creative name for this project.",
		MaxTokens:   NameMaxTokens,
		Temperature: NameTemperature,
	}
}

// CleanName strips quotes from a generated name, falling back to current.
func CleanName(generated, current string) string {
	name := strings.TrimSpace(generated)
	if name == "" {
		name = current
	}
	name = strings.NewReplacer(`"`, "", "'", "").Replace(name)
	return strings.TrimSpace(name)
}
