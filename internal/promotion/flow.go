package promotion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vibepm/internal/capture"
)

type Step string

const (
	StepAnalyzing  Step = "analyzing"
	StepGenerating Step = "generating"
	StepQuestions  Step = "questions"
	StepReview     Step = "review"
	StepCreating   Step = "creating"
	StepSuccess    Step = "success"
)

var (
	ErrNameRequired   = errors.New("project name is required")
	ErrWrongStep      = errors.New("action not allowed in current step")
	ErrNothingToRetry = errors.New("nothing to retry")
)

// Capture is the idea being promoted.
type Capture struct {
	ID       string
	Content  string
	Analysis *string
}

// Draft is the editable project definition shown in review.
type Draft struct {
	Name          string `json:"name"`
	Problem       string `json:"problem"`
	MvpDefinition string `json:"mvpDefinition"`
}

// CreatedProject identifies the project the capture was promoted into.
type CreatedProject struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Backend is the server side of the flow.
type Backend interface {
	Analyze(ctx context.Context, captureID, content string) (string, error)
	SaveAnalysis(ctx context.Context, captureID, analysis string) error
	GenerateSuggestions(ctx context.Context, req SuggestionRequest) (*Suggestions, error)
	CreateProject(ctx context.Context, draft Draft) (*CreatedProject, error)
	LinkCapture(ctx context.Context, captureID, projectID string) error
}

// Flow walks one capture through analyzing, generating, questions, review,
// creating and success. A failed step leaves Err set and can be re-run with Retry.
type Flow struct {
	backend Backend
	capture Capture

	step     Step
	err      error
	failed   Step
	rawIdea  string
	analysis string

	suggestions *Suggestions
	answers     map[string]string
	lastAnswers []Answer
	Draft       Draft
	project     *CreatedProject
}

func NewFlow(backend Backend, c Capture) *Flow {
	return &Flow{backend: backend, capture: c, answers: map[string]string{}}
}

func (f *Flow) Step() Step                { return f.step }
func (f *Flow) Err() error                { return f.err }
func (f *Flow) Suggestions() *Suggestions { return f.suggestions }
func (f *Flow) Project() *CreatedProject  { return f.project }
func (f *Flow) RawIdea() string           { return f.rawIdea }
func (f *Flow) Analysis() string          { return f.analysis }

// Start splits the capture and runs analysis, unless the capture already
// has one, then generates suggestions.
func (f *Flow) Start(ctx context.Context) error {
	raw, analysis := capture.Normalize(f.capture.Content, f.capture.Analysis)
	f.rawIdea = raw
	f.err = nil
	f.answers = map[string]string{}
	f.lastAnswers = nil
	f.project = nil

	if analysis != nil && *analysis != "" {
		f.analysis = *analysis
		return f.generate(ctx, nil)
	}
	return f.analyze(ctx)
}

func (f *Flow) fail(step Step, err error) error {
	f.err = err
	f.failed = step
	return err
}

func (f *Flow) analyze(ctx context.Context) error {
	f.step = StepAnalyzing
	f.err = nil
	analysis, err := f.backend.Analyze(ctx, f.capture.ID, f.rawIdea)
	if err != nil {
		return f.fail(StepAnalyzing, fmt.Errorf("analyze idea: %w", err))
	}
	if err := f.backend.SaveAnalysis(ctx, f.capture.ID, analysis); err != nil {
		return f.fail(StepAnalyzing, fmt.Errorf("save analysis: %w", err))
	}
	f.analysis = analysis
	return f.generate(ctx, nil)
}

func (f *Flow) generate(ctx context.Context, answers []Answer) error {
	f.step = StepGenerating
	f.err = nil
	f.lastAnswers = answers
	s, err := f.backend.GenerateSuggestions(ctx, SuggestionRequest{
		CaptureID:   f.capture.ID,
		Content:     f.rawIdea,
		Analysis:    f.analysis,
		UserAnswers: answers,
	})
	if err != nil {
		return f.fail(StepGenerating, fmt.Errorf("generate suggestions: %w", err))
	}

	f.suggestions = s
	f.Draft = Draft{Name: s.SuggestedName, Problem: s.SuggestedProblem, MvpDefinition: s.SuggestedMvp}
	if len(s.ClarifyingQuestions) > 0 {
		f.step = StepQuestions
	} else {
		f.step = StepReview
	}
	return nil
}

// Answer records the reply to a clarifying question.
func (f *Flow) Answer(questionID, text string) {
	f.answers[questionID] = text
}

// Refine regenerates suggestions with every non-blank answer.
func (f *Flow) Refine(ctx context.Context) error {
	if f.suggestions == nil || f.analysis == "" {
		return ErrWrongStep
	}
	if f.step != StepQuestions && f.step != StepReview {
		return ErrWrongStep
	}
	var answers []Answer
	for _, q := range f.suggestions.ClarifyingQuestions {
		if a := f.answers[q.ID]; strings.TrimSpace(a) != "" {
			answers = append(answers, Answer{Question: q.Question, Answer: a})
		}
	}
	return f.generate(ctx, answers)
}

// Skip moves from questions straight to review.
func (f *Flow) Skip() error {
	if f.step != StepQuestions {
		return ErrWrongStep
	}
	f.step = StepReview
	return nil
}

// Create makes the project from the draft and links the capture to it.
func (f *Flow) Create(ctx context.Context) error {
	if f.step != StepReview && f.step != StepQuestions {
		return ErrWrongStep
	}
	if strings.TrimSpace(f.Draft.Name) == "" {
		return ErrNameRequired
	}

	f.step = StepCreating
	f.err = nil
	project, err := f.backend.CreateProject(ctx, f.Draft)
	if err != nil {
		f.step = StepReview
		return f.fail(StepCreating, fmt.Errorf("create project: %w", err))
	}
	if err := f.backend.LinkCapture(ctx, f.capture.ID, project.ID); err != nil {
		f.step = StepReview
		f.project = project
		return f.fail(StepCreating, fmt.Errorf("link capture: %w", err))
	}
	f.project = project
	f.step = StepSuccess
	return nil
}

// Retry re-runs the step that failed last.
func (f *Flow) Retry(ctx context.Context) error {
	if f.err == nil {
		return ErrNothingToRetry
	}
	switch f.failed {
	case StepAnalyzing:
		return f.analyze(ctx)
	case StepGenerating:
		return f.generate(ctx, f.lastAnswers)
	case StepCreating:
		if f.project != nil {
			// the project exists; only the link failed
			f.err = nil
			if err := f.backend.LinkCapture(ctx, f.capture.ID, f.project.ID); err != nil {
				return f.fail(StepCreating, fmt.Errorf("link capture: %w", err))
			}
			f.step = StepSuccess
			return nil
		}
		return f.Create(ctx)
	}
	return ErrNothingToRetry
}
