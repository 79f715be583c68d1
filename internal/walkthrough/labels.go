package walkthrough

// User-visible headings. Tests and renderers match these exactly.
const (
	HeadingAccess         = "Portfolio Access"
	HeadingMainMenu       = "Main Menu"
	HeadingExperience     = "Experience"
	HeadingProjects       = "Projects"
	HeadingEducation      = "Education"
	HeadingCertifications = "Certifications"
	HeadingEnd            = "End"
)

// Control labels.
const (
	LabelOpen    = "Open"
	LabelProceed = "Proceed >"
	LabelNext    = "Next >"
	LabelReturn  = "Return to Main Menu"
)

// CodePlaceholder is the placeholder of the access code input.
const CodePlaceholder = "Enter 6-character code"

// ClosingMessage is shown on the End screen.
const ClosingMessage = "Thanks for reviewing my portfolio walkthrough."
