// Package insights derives short advisory notes from a project's board.
package insights

import (
	"fmt"
	"math"
	"time"

	"vibepm/internal/model"
)

type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
)

type Insight struct {
	ID          string `json:"id"`
	Type        Kind   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MaxInsights caps the list shown to the user.
const MaxInsights = 4

const (
	staleAfter    = 3 * 24 * time.Hour
	momentumRange = 7 * 24 * time.Hour
)

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// Generate evaluates every heuristic against the board at time now.
func Generate(tasks []model.Task, prompts []model.Prompt, now time.Time) []Insight {
	out := []Insight{}
	byID := make(map[string]model.Task, len(tasks))
	var todo, inProgress, completed []model.Task
	for _, t := range tasks {
		byID[t.ID] = t
		switch t.Status {
		case model.TaskTodo:
			todo = append(todo, t)
		case model.TaskInProgress:
			inProgress = append(inProgress, t)
		case model.TaskCompleted:
			completed = append(completed, t)
		}
	}

	if len(todo) == 0 && len(tasks) > 0 {
		out = append(out, Insight{"empty-backlog", KindInfo, "Empty backlog", "Add more tasks to keep momentum going"})
	}
	if len(tasks) == 0 {
		out = append(out, Insight{"no-tasks", KindInfo, "Get started", "Create your first task to begin tracking progress"})
	}

	ready := 0
	for _, p := range prompts {
		if p.TaskID == nil {
			continue
		}
		if t, ok := byID[*p.TaskID]; ok && t.Status == model.TaskTodo {
			ready++
		}
	}
	if ready > 0 && len(inProgress) == 0 {
		out = append(out, Insight{"ready-to-work", KindInfo, "Ready to start",
			fmt.Sprintf("%d prompt%s ready - drag to In Progress", ready, plural(ready))})
	}

	heavy, stale := 0, 0
	for _, t := range inProgress {
		if t.Complexity == model.ComplexityLarge || t.Complexity == model.ComplexityExtraLarge {
			heavy++
		}
		if !t.UpdatedAt.IsZero() && now.Sub(t.UpdatedAt) > staleAfter {
			stale++
		}
	}
	if heavy >= 2 {
		out = append(out, Insight{"complexity-pileup", KindWarning, "Heavy workload",
			fmt.Sprintf("%d large tasks in progress - consider focusing on one", heavy)})
	}
	if stale > 0 {
		out = append(out, Insight{"stale-tasks", KindWarning, "Stale tasks detected",
			fmt.Sprintf("%d task%s unchanged for 3+ days", stale, plural(stale))})
	}

	rated, worked := 0, 0
	for _, p := range prompts {
		if p.Outcome == nil {
			continue
		}
		rated++
		if *p.Outcome == model.OutcomeWorked {
			worked++
		}
	}
	if rated >= 3 {
		rate := int(math.Round(float64(worked) / float64(rated) * 100))
		if rate >= 70 {
			out = append(out, Insight{"prompt-success", KindSuccess, "Prompts working well",
				fmt.Sprintf("%d%% success rate on %d prompts", rate, rated)})
		} else if rate < 50 {
			out = append(out, Insight{"prompt-struggle", KindWarning, "Prompts need refinement",
				fmt.Sprintf("Only %d%% success rate - try adding more context", rate)})
		}
	}

	recent := 0
	for _, t := range completed {
		if !t.UpdatedAt.IsZero() && now.Sub(t.UpdatedAt) <= momentumRange {
			recent++
		}
	}
	if recent >= 3 {
		out = append(out, Insight{"momentum", KindSuccess, "Great momentum",
			fmt.Sprintf("%d tasks completed this week", recent)})
	}

	if len(inProgress) > 0 && len(todo) == 0 && ready == 0 {
		out = append(out, Insight{"all-in-progress", KindInfo, "Everything in progress", "Consider completing tasks before adding more"})
	}

	if len(completed) > 0 && float64(len(completed)) >= float64(len(tasks))/2 {
		pct := int(math.Round(float64(len(completed)) / float64(len(tasks)) * 100))
		out = append(out, Insight{"good-progress", KindSuccess, "Making progress",
			fmt.Sprintf("%d%% of tasks completed", pct)})
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}
