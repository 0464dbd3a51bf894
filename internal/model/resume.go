package model

import (
	"errors"
	"fmt"
	"strings"
)

// Go models that match the resume document persisted under the document key
// and validated by schema/resume.schema.json.

// ErrUnknownField is returned when a field-level update names a field the
// target type does not have.
var ErrUnknownField = errors.New("unknown field")

type Personal struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
}

type ExperienceEntry struct {
	ID      string   `json:"id"`
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Date    string   `json:"date"`
	Points  []string `json:"points"`
}

type EducationEntry struct {
	ID     string `json:"id"`
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	FontHeading  string `json:"fontHeading"`
	FontBody     string `json:"fontBody"`
}

type Resume struct {
	Title      string            `json:"title"`
	Personal   Personal          `json:"personal"`
	Summary    string            `json:"summary"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     []string          `json:"skills"`
	Theme      Theme             `json:"theme"`
}

// Field names accepted by the field-level setters. They match the JSON keys.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldLocation = "location"
	FieldLinkedIn = "linkedin"

	FieldRole    = "role"
	FieldCompany = "company"
	FieldDate    = "date"

	FieldDegree = "degree"
	FieldSchool = "school"
	FieldYear   = "year"

	FieldPrimaryColor = "primaryColor"
	FieldFontHeading  = "fontHeading"
	FieldFontBody     = "fontBody"
)

func DefaultTheme() Theme {
	return Theme{PrimaryColor: "#000000", FontHeading: "Inter", FontBody: "Inter"}
}

// DefaultResume returns the document a first run starts from.
func DefaultResume() Resume {
	return Resume{
		Title: "My Professional Resume",
		Personal: Personal{
			Name:     "Your Name",
			Email:    "email@example.com",
			Phone:    "(555) 123-4567",
			Location: "San Francisco, CA",
			LinkedIn: "linkedin.com/in/you",
		},
		Summary: "Experienced professional with a strong background in delivering high-quality results. Proven ability to lead teams and manage complex projects.",
		Experience: []ExperienceEntry{
			{
				ID:      "1",
				Role:    "Senior Software Engineer",
				Company: "TechCorp Inc.",
				Date:    "2020 - Present",
				Points: []string{
					"Led development of core platform features using React and Node.js",
					"Optimized database queries reducing load times by 40%",
					"Mentored 3 junior developers",
				},
			},
		},
		Education: []EducationEntry{
			{ID: "1", Degree: "B.S. Computer Science", School: "University of Technology", Year: "2016 - 2020"},
		},
		Skills: []string{"JavaScript", "React", "Node.js", "TypeScript", "AWS"},
		Theme:  DefaultTheme(),
	}
}

// NewExperienceEntry returns the placeholder entry appended by the editor.
func NewExperienceEntry(id string) ExperienceEntry {
	return ExperienceEntry{
		ID:      id,
		Role:    "New Role",
		Company: "Company Name",
		Date:    "Date Range",
		Points:  []string{"Responsibility 1"},
	}
}

// NewEducationEntry returns the placeholder entry appended by the editor.
func NewEducationEntry(id string) EducationEntry {
	return EducationEntry{
		ID:     id,
		Degree: "Degree / Major",
		School: "University Name",
		Year:   "Graduation Year",
	}
}

// Normalize upgrades legacy or partial data in place: nil collections become
// empty and missing theme fields take the default values.
func (r *Resume) Normalize() {
	if r.Experience == nil {
		r.Experience = []ExperienceEntry{}
	}
	for i := range r.Experience {
		if r.Experience[i].Points == nil {
			r.Experience[i].Points = []string{}
		}
	}
	if r.Education == nil {
		r.Education = []EducationEntry{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	def := DefaultTheme()
	if r.Theme.PrimaryColor == "" {
		r.Theme.PrimaryColor = def.PrimaryColor
	}
	if r.Theme.FontHeading == "" {
		r.Theme.FontHeading = def.FontHeading
	}
	if r.Theme.FontBody == "" {
		r.Theme.FontBody = def.FontBody
	}
}

// Clone returns a deep copy so callers never share slices with the original.
func (r Resume) Clone() Resume {
	out := r
	out.Experience = make([]ExperienceEntry, len(r.Experience))
	for i, e := range r.Experience {
		e.Points = append([]string(nil), e.Points...)
		if e.Points == nil {
			e.Points = []string{}
		}
		out.Experience[i] = e
	}
	out.Education = append(make([]EducationEntry, 0, len(r.Education)), r.Education...)
	out.Skills = append(make([]string, 0, len(r.Skills)), r.Skills...)
	return out
}

// VisibleSkills drops empty and whitespace-only entries, keeping order.
func (r Resume) VisibleSkills() []string {
	out := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Subtitle is the role of the first experience entry, or fallback when there
// is none.
func (r Resume) Subtitle(fallback string) string {
	if len(r.Experience) > 0 && strings.TrimSpace(r.Experience[0].Role) != "" {
		return r.Experience[0].Role
	}
	return fallback
}

func (p *Personal) Set(field, value string) error {
	switch field {
	case FieldName:
		p.Name = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	case FieldLocation:
		p.Location = value
	case FieldLinkedIn:
		p.LinkedIn = value
	default:
		return fmt.Errorf("personal.%s: %w", field, ErrUnknownField)
	}
	return nil
}

func (e *ExperienceEntry) Set(field, value string) error {
	switch field {
	case FieldRole:
		e.Role = value
	case FieldCompany:
		e.Company = value
	case FieldDate:
		e.Date = value
	default:
		return fmt.Errorf("experience.%s: %w", field, ErrUnknownField)
	}
	return nil
}

func (e *EducationEntry) Set(field, value string) error {
	switch field {
	case FieldDegree:
		e.Degree = value
	case FieldSchool:
		e.School = value
	case FieldYear:
		e.Year = value
	default:
		return fmt.Errorf("education.%s: %w", field, ErrUnknownField)
	}
	return nil
}

func (t *Theme) Set(field, value string) error {
	switch field {
	case FieldPrimaryColor:
		t.PrimaryColor = value
	case FieldFontHeading:
		t.FontHeading = value
	case FieldFontBody:
		t.FontBody = value
	default:
		return fmt.Errorf("theme.%s: %w", field, ErrUnknownField)
	}
	return nil
}
