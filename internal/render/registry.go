package render

import (
	"fmt"
	"sort"
	"sync"

	"resume-builder/internal/model"

	"go.uber.org/zap"
)

const (
	ErrorPanelText = "Error rendering template. Please select another template."

	// FallbackID is reported in Result.TemplateID when an unknown id was requested.
	FallbackID = "fallback"
)

// Template turns a document into a complete HTML page.
type Template interface {
	ID() string
	Render(doc model.Resume, settings model.DownloadSettings) (string, error)
}

type Result struct {
	TemplateID string
	HTML       string
	Notice     string
	Fallback   bool
	// Failed is set when the error panel was rendered instead of the template.
	Failed bool
}

// fallback renders the minimal layout with a visible notice naming the
// requested id.
type fallback struct {
	base *htmlTemplate
}

func (f fallback) render(requested string, doc model.Resume, settings model.DownloadSettings) (string, string, error) {
	p := f.base.page(doc, settings)
	p.TemplateID = FallbackID
	p.Notice = NotFoundNotice(requested)
	html, err := f.base.execute(p)
	return html, p.Notice, err
}

func NotFoundNotice(id string) string {
	return fmt.Sprintf("Template \"%s\" not found. Showing default.", id)
}

type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
	fallback  fallback
	logger    *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		templates: map[string]Template{},
		fallback:  fallback{base: mustParse(FallbackID, Minimal, "Professional")},
		logger:    logger,
	}
}

// DefaultRegistry registers the built-in templates.
func DefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(mustParse(Harvard, Harvard, "Professional"))
	r.Register(mustParse(Sidebar, Sidebar, "Professional"))
	r.Register(mustParse(Minimal, Minimal, "Professional"))
	r.Register(mustParse(Executive, Executive, "Executive"))
	return r
}

func (r *Registry) Register(t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID()] = t
}

func (r *Registry) Lookup(id string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render never fails: unknown ids get the fallback page and template errors
// or panics get the error panel.
func (r *Registry) Render(doc model.Resume, id string, settings model.DownloadSettings) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("template panicked", zap.String("template", id), zap.Any("panic", p))
			res = errorPanel(id)
		}
	}()

	t, ok := r.Lookup(id)
	if !ok {
		html, notice, err := r.fallback.render(id, doc, settings)
		if err != nil {
			r.logger.Error("fallback render failed", zap.String("template", id), zap.Error(err))
			res = errorPanel(id)
			res.Notice = NotFoundNotice(id)
			res.Fallback = true
			return res
		}
		r.logger.Warn("unknown template, showing default", zap.String("template", id))
		return Result{TemplateID: FallbackID, HTML: html, Notice: notice, Fallback: true}
	}

	html, err := t.Render(doc, settings)
	if err != nil {
		r.logger.Error("render failed", zap.String("template", id), zap.Error(err))
		return errorPanel(id)
	}
	return Result{TemplateID: id, HTML: html}
}

func errorPanel(id string) Result {
	html := `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Resume</title></head>
<body><div id="resume-preview-content"><div class="render-error" style="color:#ef4444;padding:16px">` + ErrorPanelText + `</div></div></body></html>`
	return Result{TemplateID: id, HTML: html, Failed: true}
}
