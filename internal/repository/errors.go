package repository

import "errors"

// Common repository errors
var (
	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	ErrStepNotFound    = errors.New("step not found")
	ErrPromptNotFound  = errors.New("prompt not found")
	ErrCaptureNotFound = errors.New("capture not found")
	ErrSettingNotFound = errors.New("setting not found")
)
