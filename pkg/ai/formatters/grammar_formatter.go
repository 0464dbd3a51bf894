package formatters

type GrammarFormatter struct{}

func (GrammarFormatter) Prompt(text string) string {
	return quoted("Fix grammar and spelling for the following resume text. Keep it professional and concise", text)
}
