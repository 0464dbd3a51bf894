package formatters

import (
	"fmt"
	"strings"
)

// ChatInstruction is the system prompt for the editor assistant. steps are
// the editor step names in index order.
func ChatInstruction(steps []string) string {
	labels := make([]string, len(steps))
	for i, s := range steps {
		labels[i] = fmt.Sprintf("%s (%d)", s, i)
	}
	last := len(steps) - 1
	if last < 0 {
		last = 0
	}
	var b strings.Builder
	b.WriteString("You are an AI assistant for a Resume Builder app. Help the user create their resume content and navigate the app. \n")
	fmt.Fprintf(&b, "The app has %d steps: %s. \n", len(steps), strings.Join(labels, ", "))
	fmt.Fprintf(&b, "If the user wants to navigate to a specific section, set 'navigation_step' to the corresponding index (0-%d). \n", last)
	b.WriteString("If the user asks for help writing content (like a summary, job description, or skills), provide the text in 'response'. \n")
	b.WriteString("Keep responses helpful, encouraging, and concise.")
	return b.String()
}

// ChatReplyFormat is appended for backends without native JSON mode.
const ChatReplyFormat = `Respond with ONLY a single JSON object of the form {"response": string, "navigation_step": integer or null}. Do NOT include any other text, backticks, or code fences.`

func ChatMessage(contextSummary, message string) string {
	return fmt.Sprintf("[Current Resume Context Summary: %s] \n User Query: %s", contextSummary, message)
}
