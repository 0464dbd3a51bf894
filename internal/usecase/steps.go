package usecase

// Step is a position in the editor workflow.
type Step int

const (
	StepContacts Step = iota
	StepExperience
	StepEducation
	StepSkills
	StepSummary
	StepDesign
	StepFinalize
)

const StepCount = int(StepFinalize) + 1

var stepNames = [StepCount]string{"Contacts", "Experience", "Education", "Skills", "Summary", "Design", "Finalize"}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return "Unknown"
	}
	return stepNames[s]
}

func (s Step) Valid() bool { return s >= 0 && int(s) < StepCount }

// StepNames lists the step labels in index order.
func StepNames() []string {
	return append([]string(nil), stepNames[:]...)
}
