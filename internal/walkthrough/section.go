// Package walkthrough implements the guided, section-by-section tour of a
// resolved portfolio.
//
// The tour is a hub with a linear tail. After the intro screen the viewer
// lands on the Main Menu, from which Experience, Projects and Education can
// be opened in any order and left again with "Return to Main Menu". "Next >"
// on the Main Menu starts the closing chain Certifications → End, which is
// strictly forward and terminal.
//
// Every legal move is a row in an explicit transition table (see
// transitions.go); anything not in the table is rejected without touching
// state. Experience and Projects page through their items with a shared
// generic Pager.
package walkthrough

import "fmt"

// Section identifies one screen of the walkthrough.
type Section int

const (
	// SectionIntro shows the portfolio owner's name and summary with "Proceed >".
	SectionIntro Section = iota
	// SectionMainMenu is the hub from which content sections are entered.
	SectionMainMenu
	// SectionExperience pages through experience entries.
	SectionExperience
	// SectionProjects pages through projects.
	SectionProjects
	// SectionEducation shows every education entry at once.
	SectionEducation
	// SectionCertifications lists certifications; first step of the closing chain.
	SectionCertifications
	// SectionEnd is terminal.
	SectionEnd

	numSections
)

// Sections lists every section in presentation order.
var Sections = []Section{
	SectionIntro,
	SectionMainMenu,
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionCertifications,
	SectionEnd,
}

// HubSections are the sections selectable from the Main Menu.
var HubSections = []Section{SectionExperience, SectionProjects, SectionEducation}

var sectionHeadings = [numSections]string{
	SectionIntro:          "",
	SectionMainMenu:       HeadingMainMenu,
	SectionExperience:     HeadingExperience,
	SectionProjects:       HeadingProjects,
	SectionEducation:      HeadingEducation,
	SectionCertifications: HeadingCertifications,
	SectionEnd:            HeadingEnd,
}

var sectionSlugs = [numSections]string{
	SectionIntro:          "intro",
	SectionMainMenu:       "menu",
	SectionExperience:     "experience",
	SectionProjects:       "projects",
	SectionEducation:      "education",
	SectionCertifications: "certifications",
	SectionEnd:            "end",
}

// String returns the display name of the section.
func (s Section) String() string {
	if s == SectionIntro {
		return "Intro"
	}
	if s.IsValid() {
		return sectionHeadings[s]
	}
	return fmt.Sprintf("Section(%d)", int(s))
}

// Heading returns the fixed heading for the section. The intro screen is
// headed by the portfolio owner's name, so its fixed heading is empty.
func (s Section) Heading() string {
	if !s.IsValid() {
		return ""
	}
	return sectionHeadings[s]
}

// Slug returns the URL-safe identifier of the section.
func (s Section) Slug() string {
	if !s.IsValid() {
		return ""
	}
	return sectionSlugs[s]
}

// IsValid reports whether s is a known section.
func (s Section) IsValid() bool {
	return s >= SectionIntro && s < numSections
}

// ParseSection returns the section for a slug.
func ParseSection(slug string) (Section, bool) {
	for s, v := range sectionSlugs {
		if v == slug {
			return Section(s), true
		}
	}
	return 0, false
}

// Capability describes how a section presents its content.
type Capability int

const (
	// Single sections render all of their content in one view.
	Single Capability = iota
	// Paginated sections show one item at a time and advance with "Next >".
	Paginated
)

// String returns the capability name.
func (c Capability) String() string {
	if c == Paginated {
		return "paginated"
	}
	return "single"
}

// Capability returns how s presents its content.
func (s Section) Capability() Capability {
	switch s {
	case SectionExperience, SectionProjects:
		return Paginated
	default:
		return Single
	}
}
