package model

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

type Margins string

const (
	MarginsCompact  Margins = "compact"
	MarginsStandard Margins = "standard"
	MarginsWide     Margins = "wide"
)

// DownloadSettings control presentation only. They are never persisted.
type DownloadSettings struct {
	FontSize       FontSize `json:"fontSize"`
	Margins        Margins  `json:"margins"`
	ShowSummary    bool     `json:"showSummary"`
	ShowExperience bool     `json:"showExperience"`
	ShowEducation  bool     `json:"showEducation"`
	ShowSkills     bool     `json:"showSkills"`
}

func DefaultSettings() DownloadSettings {
	return DownloadSettings{
		FontSize:       FontMedium,
		Margins:        MarginsStandard,
		ShowSummary:    true,
		ShowExperience: true,
		ShowEducation:  true,
		ShowSkills:     true,
	}
}

// Normalized replaces unknown enum values with the defaults.
func (s DownloadSettings) Normalized() DownloadSettings {
	switch s.FontSize {
	case FontSmall, FontMedium, FontLarge:
	default:
		s.FontSize = FontMedium
	}
	switch s.Margins {
	case MarginsCompact, MarginsStandard, MarginsWide:
	default:
		s.Margins = MarginsStandard
	}
	return s
}

// BaseFontPx is the root font size applied by every template.
func (s DownloadSettings) BaseFontPx() int {
	switch s.Normalized().FontSize {
	case FontSmall:
		return 12
	case FontLarge:
		return 16
	default:
		return 14
	}
}

// Option is a labelled choice offered by the design step.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var ColorPalette = []Option{
	{Label: "Noir", Value: "#000000"},
	{Label: "Slate", Value: "#334155"},
	{Label: "Blue", Value: "#2563eb"},
	{Label: "Purple", Value: "#7c3aed"},
	{Label: "Emerald", Value: "#059669"},
	{Label: "Rose", Value: "#e11d48"},
	{Label: "Amber", Value: "#d97706"},
}

var FontOptions = []Option{
	{Label: "Modern Sans", Value: "Inter"},
	{Label: "Classic Serif", Value: "Merriweather"},
	{Label: "Tech Mono", Value: "Roboto Mono"},
}
