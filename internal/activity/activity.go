// Package activity builds the feed rows recorded alongside task and prompt changes.
package activity

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"vibepm/internal/model"
)

var statusLabels = map[model.TaskStatus]string{
	model.TaskTodo:       "To Do",
	model.TaskInProgress: "In Progress",
	model.TaskBlocked:    "Blocked",
	model.TaskCompleted:  "Done",
	model.TaskCancelled:  "Cancelled",
}

// StatusLabel is the display name of a task status; unknown values are returned as is.
func StatusLabel(s model.TaskStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func TaskCreated(t *model.Task) *model.Activity {
	taskID := t.ID
	return &model.Activity{
		ProjectID: t.ProjectID,
		Type:      model.ActivityTaskCreated,
		Title:     fmt.Sprintf(`Created task "%s"`, t.Title),
		TaskID:    &taskID,
	}
}

type statusChange struct {
	OldStatus model.TaskStatus `json:"oldStatus"`
	NewStatus model.TaskStatus `json:"newStatus"`
}

// StatusChanged returns nil when the status did not change. title is the
// task title before the update.
func StatusChanged(projectID, taskID, title string, from, to model.TaskStatus) *model.Activity {
	if from == to {
		return nil
	}
	meta, _ := json.Marshal(statusChange{OldStatus: from, NewStatus: to})
	return &model.Activity{
		ProjectID: projectID,
		Type:      model.ActivityTaskStatusChanged,
		Title:     fmt.Sprintf(`Moved "%s" to %s`, title, StatusLabel(to)),
		TaskID:    &taskID,
		Metadata:  datatypes.JSON(meta),
	}
}

func PromptGenerated(projectID string, t *model.Task) *model.Activity {
	taskID := t.ID
	return &model.Activity{
		ProjectID: projectID,
		Type:      model.ActivityPromptGenerated,
		Title:     fmt.Sprintf(`Generated prompt for "%s"`, t.Title),
		TaskID:    &taskID,
	}
}

// PromptTitle names a prompt generated for a task.
func PromptTitle(taskTitle string) string {
	return "Prompt for: " + taskTitle
}
