package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"

	"go.uber.org/zap"
)

// PreviewSelector identifies the element both exports read from.
const PreviewSelector = "#resume-preview-content"

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatWord Format = "doc"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatWord, "word":
		return FormatWord, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Rasterizer captures the element matching selector as a PNG.
type Rasterizer interface {
	Capture(ctx context.Context, html, selector string) ([]byte, error)
}

type JobsRepo interface {
	Save(ctx context.Context, j *domain.ExportJob) error
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Pipeline runs one export at a time.
type Pipeline struct {
	raster Rasterizer
	jobs   JobsRepo
	logger *zap.Logger
	busy   atomic.Bool
}

func NewPipeline(raster Rasterizer, jobs JobsRepo, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{raster: raster, jobs: jobs, logger: logger}
}

func (p *Pipeline) Busy() bool { return p.busy.Load() }

func (p *Pipeline) Export(ctx context.Context, format Format, title string, res render.Result) (*File, error) {
	switch format {
	case FormatPDF:
		return p.ExportPDF(ctx, title, res)
	case FormatWord:
		return p.ExportWord(ctx, title, res)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

func (p *Pipeline) ExportPDF(ctx context.Context, title string, res render.Result) (*File, error) {
	return p.run(ctx, FormatPDF, title, func() (*File, error) {
		data, err := p.buildPDF(ctx, res.HTML)
		if err != nil {
			return nil, err
		}
		return &File{Name: SanitizeTitle(title) + ".pdf", ContentType: "application/pdf", Data: data}, nil
	})
}

func (p *Pipeline) ExportWord(ctx context.Context, title string, res render.Result) (*File, error) {
	return p.run(ctx, FormatWord, title, func() (*File, error) {
		data, err := buildWord(res.HTML)
		if err != nil {
			return nil, err
		}
		return &File{Name: SanitizeTitle(title) + ".doc", ContentType: "application/msword", Data: data}, nil
	})
}

// run holds the busy flag for the duration of fn and converts every failure,
// panics included, into an *ExportError.
func (p *Pipeline) run(ctx context.Context, format Format, title string, fn func() (*File, error)) (file *File, err error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.busy.Store(false)

	job := domain.NewExportJob(string(format), title)
	p.saveJob(ctx, job)

	defer func() {
		if r := recover(); r != nil {
			file, err = nil, fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = asExportError(format, err)
			p.logger.Error("export failed", zap.String("format", string(format)), zap.String("job_id", job.ID.String()), zap.Error(err))
			job.Fail(err)
		} else {
			job.Complete(file.Name, len(file.Data))
			p.logger.Info("export completed", zap.String("format", string(format)), zap.String("file", file.Name), zap.Int("size", len(file.Data)))
		}
		p.saveJob(ctx, job)
	}()

	return fn()
}

func (p *Pipeline) saveJob(ctx context.Context, j *domain.ExportJob) {
	if p.jobs == nil {
		return
	}
	if err := p.jobs.Save(ctx, j); err != nil {
		p.logger.Warn("unable to record export job (non-fatal)", zap.String("job_id", j.ID.String()), zap.Error(err))
	}
}

func asExportError(format Format, err error) error {
	var ee *ExportError
	if errors.As(err, &ee) {
		return ee
	}
	alert := AlertPDF
	if format == FormatWord {
		alert = AlertWord
	}
	return &ExportError{Format: format, Alert: alert, Cause: err}
}
