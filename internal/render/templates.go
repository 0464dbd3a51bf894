package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"resume-builder/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	Harvard   = "harvard"
	Sidebar   = "sidebar"
	Minimal   = "minimal"
	Executive = "executive"
)

var (
	colorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\(\s*\d{1,3}%?\s*,\s*\d{1,3}%?\s*,\s*\d{1,3}%?\s*(,\s*(0|1|0?\.\d+)\s*)?\)|[a-zA-Z]{3,20})$`)
	fontRe  = regexp.MustCompile(`^[A-Za-z0-9 \-]{1,64}$`)
)

var funcs = template.FuncMap{
	"join": func(sep string, items []string) string { return strings.Join(items, sep) },
	"joinNonEmpty": func(sep string, items ...string) string {
		out := make([]string, 0, len(items))
		for _, s := range items {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return strings.Join(out, sep)
	},
}

// page is the view model every template executes against.
type page struct {
	TemplateID  string
	Doc         model.Resume
	Skills      []string
	Show        model.DownloadSettings
	Color       template.CSS
	HeadingFont string
	BodyFont    string
	FontPx      int
	PadX        int
	PadY        int
	Subtitle    string
	Notice      string
}

// htmlTemplate renders one of the embedded layouts.
type htmlTemplate struct {
	id       string
	subtitle string
	tmpl     *template.Template
}

func mustParse(id, file, subtitle string) *htmlTemplate {
	t := template.Must(template.New(id).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+file+".html"))
	return &htmlTemplate{id: id, subtitle: subtitle, tmpl: t}
}

func (h *htmlTemplate) ID() string { return h.id }

func (h *htmlTemplate) Render(doc model.Resume, settings model.DownloadSettings) (string, error) {
	return h.execute(h.page(doc, settings))
}

func (h *htmlTemplate) page(doc model.Resume, settings model.DownloadSettings) page {
	doc = doc.Clone()
	doc.Normalize()
	s := settings.Normalized()
	x, y := padding(h.id, s.Margins)
	// the subtitle comes from experience, so it is hidden with that section
	subtitle := h.subtitle
	if s.ShowExperience {
		subtitle = doc.Subtitle(h.subtitle)
	}
	return page{
		TemplateID:  h.id,
		Doc:         doc,
		Skills:      doc.VisibleSkills(),
		Show:        s,
		Color:       safeColor(doc.Theme.PrimaryColor),
		HeadingFont: safeFont(doc.Theme.FontHeading),
		BodyFont:    safeFont(doc.Theme.FontBody),
		FontPx:      s.BaseFontPx(),
		PadX:        x,
		PadY:        y,
		Subtitle:    subtitle,
	}
}

func (h *htmlTemplate) execute(p page) (string, error) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return "", &TemplateError{TemplateID: h.id, Cause: err}
	}
	return buf.String(), nil
}

// padding returns the horizontal and vertical page padding in px.
func padding(id string, m model.Margins) (x, y int) {
	switch id {
	case Sidebar:
		switch m {
		case model.MarginsCompact:
			return 24, 24
		case model.MarginsWide:
			return 48, 48
		default:
			return 40, 40
		}
	case Executive:
		switch m {
		case model.MarginsCompact:
			return 32, 16
		case model.MarginsWide:
			return 64, 48
		default:
			return 48, 32
		}
	}
	switch m {
	case model.MarginsCompact:
		return 24, 24
	case model.MarginsWide:
		return 64, 64
	default:
		return 48, 48
	}
}

func safeColor(v string) template.CSS {
	v = strings.TrimSpace(v)
	if !colorRe.MatchString(v) {
		v = model.DefaultTheme().PrimaryColor
	}
	return template.CSS(v)
}

func safeFont(v string) string {
	v = strings.TrimSpace(v)
	if !fontRe.MatchString(v) {
		return model.DefaultTheme().FontBody
	}
	return v
}

type TemplateError struct {
	TemplateID string
	Cause      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("render template %q: %v", e.TemplateID, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }
