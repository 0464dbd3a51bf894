package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

type Mode string

const (
	ModeGrammar      Mode = "grammar"
	ModeProfessional Mode = "professional"
	ModeATS          Mode = "ats"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGrammar, ModeProfessional, ModeATS:
		return m, nil
	}
	return "", fmt.Errorf("unknown improve mode %q", s)
}

const (
	ChatFailureText = "I'm having trouble connecting right now. Please try again."
	MissingKeyText  = "AI Service Unavailable: Missing API Key"
)

// Improver rewrites resume text. Implementations never fail: on any error
// they return the input unchanged.
type Improver interface {
	Improve(ctx context.Context, text string, mode Mode) string
}

// Assistant answers editor questions and may suggest a step to open.
type Assistant interface {
	Chat(ctx context.Context, message, contextSummary string) Reply
}

type Service interface {
	Improver
	Assistant
	Close() error
}

type Reply struct {
	Text string `json:"response"`
	// NavigationStep is an unvalidated hint; see ValidateStep.
	NavigationStep *int `json:"navigation_step,omitempty"`
}

// ValidateStep reports whether hint names a step in [0, stepCount).
func ValidateStep(hint *int, stepCount int) (int, bool) {
	if hint == nil || *hint < 0 || *hint >= stepCount {
		return 0, false
	}
	return *hint, true
}

// parseReply decodes a {response, navigation_step} object, tolerating prose
// or code fences around it.
func parseReply(raw string) (Reply, error) {
	var wire struct {
		Response       string   `json:"response"`
		NavigationStep *float64 `json:"navigation_step"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		sub, ok := extractJSONObject(raw)
		if !ok {
			return Reply{}, fmt.Errorf("non-json reply: %w", err)
		}
		if err2 := json.Unmarshal([]byte(sub), &wire); err2 != nil {
			return Reply{}, fmt.Errorf("non-json reply: %w", err2)
		}
	}
	if strings.TrimSpace(wire.Response) == "" {
		return Reply{}, errors.New("reply has no response text")
	}
	r := Reply{Text: wire.Response}
	if n := wire.NavigationStep; n != nil && *n == math.Trunc(*n) && math.Abs(*n) < 1<<31 {
		step := int(*n)
		r.NavigationStep = &step
	}
	return r, nil
}

// extractJSONObject returns the substring from the first '{' to the last '}'.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
