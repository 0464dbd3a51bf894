package formatters

type ATSFormatter struct{}

// Prompt asks for keyword-rich, plainly formatted text that applicant
// tracking systems parse well.
func (ATSFormatter) Prompt(text string) string {
	return quoted("Optimize the following resume text for ATS (Applicant Tracking Systems). Include relevant keywords for a general professional role if specific ones aren't provided. Ensure standard formatting", text)
}
