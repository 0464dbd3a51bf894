package formatters

import (
	"fmt"
	"strings"
)

// Formatter builds the prompt for one rewrite mode.
type Formatter interface {
	Prompt(text string) string
}

var byMode = map[string]Formatter{
	"grammar":      GrammarFormatter{},
	"professional": ProfessionalFormatter{},
	"ats":          ATSFormatter{},
}

// ForMode returns the formatter registered for mode.
func ForMode(mode string) (Formatter, error) {
	f, ok := byMode[mode]
	if !ok {
		return nil, fmt.Errorf("unknown improve mode %q", mode)
	}
	return f, nil
}

func quoted(instruction, text string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString(":\n\n\"")
	b.WriteString(text)
	b.WriteString("\"")
	return b.String()
}
