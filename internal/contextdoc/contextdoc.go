// Package contextdoc renders the markdown project summary users paste into
// AI coding sessions.
package contextdoc

import (
	"fmt"
	"strings"

	"vibepm/internal/model"
)

const (
	nextUpLimit            = 5
	recentlyCompletedLimit = 3
)

func orDefault(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// Initial is the document written when a project is created.
func Initial(name string, problem, mvp *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "## Problem Statement\n%s\n\n", orDefault(problem, "_Not defined yet_"))
	fmt.Fprintf(&b, "## MVP Definition\n%s\n\n", orDefault(mvp, "_Not defined yet_"))
	b.WriteString("## Current Status\n- Project created\n- No tasks defined yet\n\n")
	b.WriteString("## Key Decisions\n_No decisions logged yet_\n\n")
	b.WriteString("---\n*This context document is auto-generated and can be copied to give your AI assistant project context.*\n")
	return b.String()
}

func filter(tasks []model.Task, status model.TaskStatus) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func section(heading string, tasks []model.Task, limit int, withComplexity bool) string {
	if len(tasks) == 0 {
		return ""
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		if withComplexity {
			lines[i] = fmt.Sprintf("- %s (%s)", t.Title, t.Complexity)
		} else {
			lines[i] = "- " + t.Title
		}
	}
	return "### " + heading + "\n" + strings.Join(lines, "\n")
}

// Generate rebuilds the document from the project and its tasks in board order.
func Generate(p *model.Project, tasks []model.Task) string {
	todo := filter(tasks, model.TaskTodo)
	inProgress := filter(tasks, model.TaskInProgress)
	completed := filter(tasks, model.TaskCompleted)

	var b strings.Builder
	fmt.Fprintf(&b, "# Project: %s\n\n", p.Name)
	fmt.Fprintf(&b, "## Problem Statement\n%s\n\n", orDefault(p.Problem, "_Not defined_"))
	fmt.Fprintf(&b, "## MVP Definition\n%s\n\n", orDefault(p.MvpDefinition, "_Not defined_"))
	fmt.Fprintf(&b, "## Current Status: %s\n\n", p.Status)
	b.WriteString("### Tasks Overview\n")
	fmt.Fprintf(&b, "- **To Do:** %d tasks\n", len(todo))
	fmt.Fprintf(&b, "- **In Progress:** %d tasks\n", len(inProgress))
	fmt.Fprintf(&b, "- **Completed:** %d tasks\n\n", len(completed))
	b.WriteString(section("Currently Working On", inProgress, 0, true) + "\n\n")
	b.WriteString(section("Next Up", todo, nextUpLimit, true) + "\n\n")
	b.WriteString(section("Recently Completed", completed, recentlyCompletedLimit, false) + "\n\n")
	b.WriteString("---\n*Context generated for an AI coding session*\n")
	return b.String()
}
