package walkthrough

import "github.com/alfredjeanlab/folio/internal/model"

// Screen is a render-ready snapshot of the controller. Renderers switch on
// Section and read only the fields relevant to it.
type Screen struct {
	Section    Section
	Capability Capability
	// Heading is the fixed section heading, or the owner's name on the
	// intro screen.
	Heading   string
	Portfolio *model.Portfolio

	// Paginated sections only.
	Index      int
	Total      int
	Experience *model.Experience
	Project    *model.Project

	CanAdvance bool
	CanReturn  bool
	// MenuCounts holds the item count per hub section, for the Main Menu.
	MenuCounts map[Section]int
}

// Screen returns the snapshot for the current state.
func (c *Controller) Screen() Screen {
	s := Screen{
		Section:    c.section,
		Capability: c.section.Capability(),
		Heading:    c.section.Heading(),
		Portfolio:  c.doc,
		CanAdvance: c.CanAdvance(),
		CanReturn:  c.Can(Return()),
	}

	switch c.section {
	case SectionIntro:
		s.Heading = c.doc.Name
	case SectionMainMenu:
		s.MenuCounts = map[Section]int{
			SectionExperience: len(c.doc.Experience),
			SectionProjects:   len(c.doc.Project),
			SectionEducation:  len(c.doc.Education),
		}
	case SectionExperience:
		s.Index, s.Total = c.experience.Index(), c.experience.Len()
		if e, ok := c.experience.Current(); ok {
			s.Experience = &e
		}
	case SectionProjects:
		s.Index, s.Total = c.projects.Index(), c.projects.Len()
		if p, ok := c.projects.Current(); ok {
			s.Project = &p
		}
	case SectionEducation:
		s.Total = len(c.doc.Education)
	case SectionCertifications:
		s.Total = len(c.doc.Certifications)
	}
	return s
}
