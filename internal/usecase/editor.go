package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"resume-builder/internal/adapter/repository"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/render"
	"resume-builder/pkg/ai"

	"go.uber.org/zap"
)

const DefaultTemplateID = render.Harvard

type EditorDeps struct {
	Store     *DocumentStore
	KV        repository.KV
	Registry  *render.Registry
	Exporter  *export.Pipeline
	Improver  ai.Improver
	Assistant ai.Assistant
	Logger    *zap.Logger
}

// Editor drives the dashboard workflow on top of the document store.
type Editor struct {
	store     *DocumentStore
	kv        repository.KV
	registry  *render.Registry
	exporter  *export.Pipeline
	improver  ai.Improver
	assistant ai.Assistant
	logger    *zap.Logger

	mu         sync.Mutex
	step       Step
	templateID string
	settings   model.DownloadSettings

	improving atomic.Bool
}

func NewEditor(ctx context.Context, deps EditorDeps) *Editor {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Editor{
		store:      deps.Store,
		kv:         deps.KV,
		registry:   deps.Registry,
		exporter:   deps.Exporter,
		improver:   deps.Improver,
		assistant:  deps.Assistant,
		logger:     logger,
		templateID: DefaultTemplateID,
		settings:   model.DefaultSettings(),
	}
	if e.improver == nil || e.assistant == nil {
		u := ai.NewUnavailable(logger)
		if e.improver == nil {
			e.improver = u
		}
		if e.assistant == nil {
			e.assistant = u
		}
	}
	id, err := e.kv.Get(ctx, repository.KeySelectedTemplate)
	switch {
	case err == nil && id != "":
		e.templateID = id
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		logger.Warn("unable to read selected template", zap.Error(err))
	}
	return e
}

func (e *Editor) Store() *DocumentStore { return e.store }

func (e *Editor) Step() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

func (e *Editor) Next() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	if int(e.step) < StepCount-1 {
		e.step++
	}
	return e.step
}

func (e *Editor) Prev() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.step > 0 {
		e.step--
	}
	return e.step
}

func (e *Editor) GoTo(i int) error {
	s := Step(i)
	if !s.Valid() {
		return fmt.Errorf("step %d: %w", i, ErrInvalidStep)
	}
	e.mu.Lock()
	e.step = s
	e.mu.Unlock()
	return nil
}

// Templates lists the registered template ids.
func (e *Editor) Templates() []string { return e.registry.IDs() }

func (e *Editor) TemplateID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.templateID
}

// SelectTemplate stores any id. Unknown ids render the fallback page.
func (e *Editor) SelectTemplate(ctx context.Context, id string) error {
	e.mu.Lock()
	e.templateID = id
	e.mu.Unlock()
	if err := e.kv.Set(ctx, repository.KeySelectedTemplate, id); err != nil {
		e.logger.Error("unable to persist selected template", zap.Error(err))
		return &PersistError{Key: repository.KeySelectedTemplate, Cause: err}
	}
	return nil
}

func (e *Editor) Settings() model.DownloadSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

func (e *Editor) UpdateSettings(s model.DownloadSettings) model.DownloadSettings {
	s = s.Normalized()
	e.mu.Lock()
	e.settings = s
	e.mu.Unlock()
	return s
}

// SetSkillsFromText splits a comma separated list, dropping blanks.
func (e *Editor) SetSkillsFromText(ctx context.Context, raw string) error {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return e.store.SetSkills(ctx, skills)
}

// SetPointsFromText stores one point per line, exactly as typed.
func (e *Editor) SetPointsFromText(ctx context.Context, index int, text string) error {
	return e.store.SetExperiencePoints(ctx, index, strings.Split(text, "\n"))
}

func (e *Editor) Improving() bool { return e.improving.Load() }

func (e *Editor) ImproveSummary(ctx context.Context, mode ai.Mode) (string, error) {
	if !e.improving.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer e.improving.Store(false)

	improved := e.improver.Improve(ctx, e.store.Document().Summary, mode)
	return improved, e.store.UpdateSummary(ctx, improved)
}

func (e *Editor) ImproveExperience(ctx context.Context, index int, mode ai.Mode) ([]string, error) {
	if !e.improving.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer e.improving.Store(false)

	doc := e.store.Document()
	if err := checkIndex("experience", index, len(doc.Experience)); err != nil {
		return nil, err
	}
	improved := e.improver.Improve(ctx, strings.Join(doc.Experience[index].Points, "\n"), mode)
	points := make([]string, 0)
	for _, line := range strings.Split(improved, "\n") {
		if strings.TrimSpace(line) != "" {
			points = append(points, line)
		}
	}
	if len(points) == 0 {
		e.logger.Warn("improved experience has no points, keeping current", zap.Int("index", index))
		return doc.Experience[index].Points, nil
	}
	return points, e.store.SetExperiencePoints(ctx, index, points)
}

// ContextSummary describes the editor state for the assistant.
func (e *Editor) ContextSummary() string {
	doc := e.store.Document()
	return fmt.Sprintf("\n  Current Step Index: %d\n  Name: %s\n  Job Title: %s\n  Experience Count: %d\n  Education Count: %d\n  Skills: %s\n",
		int(e.Step()), doc.Personal.Name, doc.Title, len(doc.Experience), len(doc.Education), strings.Join(doc.Skills, ", "))
}

type ChatResult struct {
	Reply     ai.Reply `json:"reply"`
	Step      Step     `json:"step"`
	Navigated bool     `json:"navigated"`
}

// Chat asks the assistant and moves to the suggested step when it is valid.
func (e *Editor) Chat(ctx context.Context, message string) ChatResult {
	reply := e.assistant.Chat(ctx, message, e.ContextSummary())
	res := ChatResult{Reply: reply}
	if step, ok := ai.ValidateStep(reply.NavigationStep, StepCount); ok {
		e.mu.Lock()
		e.step = Step(step)
		e.mu.Unlock()
		res.Navigated = true
	} else if reply.NavigationStep != nil {
		e.logger.Warn("ignoring out of range navigation hint", zap.Int("step", *reply.NavigationStep))
	}
	res.Step = e.Step()
	return res
}

func (e *Editor) Preview() render.Result {
	return e.registry.Render(e.store.Document(), e.TemplateID(), e.Settings())
}

func (e *Editor) Exporting() bool { return e.exporter.Busy() }

func (e *Editor) Export(ctx context.Context, format export.Format) (*export.File, error) {
	return e.exporter.Export(ctx, format, e.store.Document().Title, e.Preview())
}
