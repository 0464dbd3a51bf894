package formatters

type ProfessionalFormatter struct{}

func (ProfessionalFormatter) Prompt(text string) string {
	return quoted("Rewrite the following resume text to be more professional, using action verbs and clear metrics where possible. Convert to bullet points if appropriate", text)
}
