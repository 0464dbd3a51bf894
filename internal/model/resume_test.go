package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResume(t *testing.T) {
	r := DefaultResume()
	assert.Equal(t, "My Professional Resume", r.Title)
	assert.Equal(t, "Your Name", r.Personal.Name)
	require.Len(t, r.Experience, 1)
	assert.Len(t, r.Experience[0].Points, 3)
	require.Len(t, r.Education, 1)
	assert.Equal(t, []string{"JavaScript", "React", "Node.js", "TypeScript", "AWS"}, r.Skills)
	assert.Equal(t, DefaultTheme(), r.Theme)
}

func TestNormalizeFillsMissingTheme(t *testing.T) {
	var r Resume
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","theme":{"primaryColor":"#2563eb"}}`), &r))
	r.Normalize()

	assert.Equal(t, "#2563eb", r.Theme.PrimaryColor)
	assert.Equal(t, "Inter", r.Theme.FontHeading)
	assert.Equal(t, "Inter", r.Theme.FontBody)
	assert.NotNil(t, r.Experience)
	assert.NotNil(t, r.Education)
	assert.NotNil(t, r.Skills)
}

func TestCloneDoesNotAlias(t *testing.T) {
	r := DefaultResume()
	c := r.Clone()
	c.Experience[0].Points[0] = "changed"
	c.Skills[0] = "Go"
	c.Education[0].School = "Elsewhere"

	assert.NotEqual(t, "changed", r.Experience[0].Points[0])
	assert.Equal(t, "JavaScript", r.Skills[0])
	assert.Equal(t, "University of Technology", r.Education[0].School)
}

func TestVisibleSkills(t *testing.T) {
	r := Resume{Skills: []string{"Go", "", "  ", "SQL"}}
	assert.Equal(t, []string{"Go", "SQL"}, r.VisibleSkills())
}

func TestSubtitle(t *testing.T) {
	assert.Equal(t, "Senior Software Engineer", DefaultResume().Subtitle("Professional"))
	assert.Equal(t, "Executive", Resume{}.Subtitle("Executive"))
	assert.Equal(t, "Professional", Resume{Experience: []ExperienceEntry{{Role: " "}}}.Subtitle("Professional"))
}

func TestSettersRejectUnknownField(t *testing.T) {
	var p Personal
	require.NoError(t, p.Set(FieldLinkedIn, "in/jane"))
	assert.Equal(t, "in/jane", p.LinkedIn)
	assert.True(t, errors.Is(p.Set("id", "x"), ErrUnknownField))

	var e ExperienceEntry
	assert.True(t, errors.Is(e.Set("id", "x"), ErrUnknownField))
	var ed EducationEntry
	require.NoError(t, ed.Set(FieldYear, "2024"))
	assert.Equal(t, "2024", ed.Year)
	var th Theme
	assert.True(t, errors.Is(th.Set("color", "red"), ErrUnknownField))
}

func TestValidateJSON(t *testing.T) {
	raw, err := json.Marshal(DefaultResume())
	require.NoError(t, err)
	assert.NoError(t, ValidateJSON(raw))

	// legacy documents without theme are accepted
	assert.NoError(t, ValidateJSON([]byte(`{"title":"old","skills":["Go"]}`)))

	assert.Error(t, ValidateJSON([]byte(`{"skills":"Go"}`)))
	assert.Error(t, ValidateJSON([]byte(`{"experience":[{"points":[1,2]}]}`)))
}

func TestSettingsNormalized(t *testing.T) {
	s := DownloadSettings{FontSize: "huge", Margins: "none"}.Normalized()
	assert.Equal(t, FontMedium, s.FontSize)
	assert.Equal(t, MarginsStandard, s.Margins)
	assert.Equal(t, 12, DownloadSettings{FontSize: FontSmall}.BaseFontPx())
	assert.Equal(t, 16, DownloadSettings{FontSize: FontLarge}.BaseFontPx())
	assert.Equal(t, 14, DownloadSettings{}.BaseFontPx())
}
