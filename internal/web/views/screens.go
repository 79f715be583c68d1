package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

// Screen renders one walkthrough screen.
func Screen(scr walkthrough.Screen) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.rawf(`<section data-section="%s">`, scr.Section.Slug())
		switch scr.Section {
		case walkthrough.SectionIntro:
			intro(h, scr)
		case walkthrough.SectionMainMenu:
			mainMenu(h, scr)
		case walkthrough.SectionExperience:
			experience(h, scr)
		case walkthrough.SectionProjects:
			projects(h, scr)
		case walkthrough.SectionEducation:
			education(h, scr)
		case walkthrough.SectionCertifications:
			certifications(h, scr)
		case walkthrough.SectionEnd:
			end(h)
		}
		h.raw(`</section>`)
	})
}

// Title returns the document title for a screen.
func Title(scr *walkthrough.Screen) string {
	if scr == nil {
		return walkthrough.HeadingAccess
	}
	if scr.Section == walkthrough.SectionIntro {
		return scr.Heading
	}
	return scr.Heading + " | " + scr.Portfolio.Name
}

func intro(h *htmlWriter, scr walkthrough.Screen) {
	p := scr.Portfolio
	h.elem("h1", p.Name)
	if p.Summary != "" {
		h.rawf(`<p class="summary">%s</p>`, templ.EscapeString(p.Summary))
	}
	var contact []string
	for _, v := range []string{p.Email, p.Phone, p.Address} {
		if v != "" {
			contact = append(contact, v)
		}
	}
	h.list("contact muted", contact)
	button(h, "/proceed", walkthrough.LabelProceed, false)
}

func mainMenu(h *htmlWriter, scr walkthrough.Screen) {
	h.elem("h1", walkthrough.HeadingMainMenu)
	h.raw(`<nav class="menu">`)
	for _, s := range walkthrough.HubSections {
		label := fmt.Sprintf("%s (%d)", s.Heading(), scr.MenuCounts[s])
		button(h, "/select/"+s.Slug(), label, false)
	}
	h.raw(`</nav><nav>`)
	button(h, "/next", walkthrough.LabelNext, !scr.CanAdvance)
	button(h, "/reset", "Use another code", false)
	h.raw(`</nav>`)
}

// pageControls writes the item counter and the paginated section's buttons.
func pageControls(h *htmlWriter, scr walkthrough.Screen) {
	h.raw(`<nav>`)
	if scr.Total > 0 {
		h.rawf(`<p class="meta">%d of %d</p>`, scr.Index+1, scr.Total)
	}
	button(h, "/next", walkthrough.LabelNext, !scr.CanAdvance)
	button(h, "/menu", walkthrough.LabelReturn, !scr.CanReturn)
	h.raw(`</nav>`)
}

func period(from, to string) string {
	switch {
	case from == "" && to == "":
		return ""
	case to == "":
		return from
	case from == "":
		return to
	}
	return from + " – " + to
}

func meta(h *htmlWriter, parts ...string) {
	var keep []string
	for _, p := range parts {
		if p != "" {
			keep = append(keep, p)
		}
	}
	if len(keep) > 0 {
		h.rawf(`<p class="meta">%s</p>`, templ.EscapeString(strings.Join(keep, " · ")))
	}
}

func experience(h *htmlWriter, scr walkthrough.Screen) {
	h.elem("h1", walkthrough.HeadingExperience)
	if e := scr.Experience; e != nil {
		h.raw(`<article>`)
		h.elem("h2", e.Company)
		meta(h, e.Role, e.Location, period(e.From, e.To))
		h.list("points", e.Points)
		h.list("skills", e.Skills)
		h.raw(`</article>`)
	} else {
		h.raw(`<p class="muted">No experience listed.</p>`)
	}
	pageControls(h, scr)
}

func projects(h *htmlWriter, scr walkthrough.Screen) {
	h.elem("h1", walkthrough.HeadingProjects)
	if p := scr.Project; p != nil {
		h.raw(`<article>`)
		h.elem("h2", p.Name)
		meta(h, p.Duration)
		if p.Description != "" {
			h.elem("p", p.Description)
		}
		h.list("skills", p.Skills)
		h.raw(`</article>`)
	} else {
		h.raw(`<p class="muted">No projects listed.</p>`)
	}
	pageControls(h, scr)
}

func education(h *htmlWriter, scr walkthrough.Screen) {
	h.elem("h1", walkthrough.HeadingEducation)
	if len(scr.Portfolio.Education) == 0 {
		h.raw(`<p class="muted">No education listed.</p>`)
	}
	for _, e := range scr.Portfolio.Education {
		educationEntry(h, e)
	}
	h.raw(`<nav>`)
	button(h, "/menu", walkthrough.LabelReturn, !scr.CanReturn)
	h.raw(`</nav>`)
}

func educationEntry(h *htmlWriter, e model.Education) {
	h.raw(`<article>`)
	h.elem("h2", e.University)
	meta(h, e.Course, e.Location, period(e.From, e.To))
	h.list("points", e.Points)
	h.list("skills", e.Skills)
	h.raw(`</article>`)
}

func certifications(h *htmlWriter, scr walkthrough.Screen) {
	h.elem("h1", walkthrough.HeadingCertifications)
	if len(scr.Portfolio.Certifications) == 0 {
		h.raw(`<p class="muted">No certifications listed.</p>`)
	}
	h.list("certifications", scr.Portfolio.Certifications)
	h.raw(`<nav>`)
	button(h, "/next", walkthrough.LabelNext, !scr.CanAdvance)
	h.raw(`</nav>`)
}

func end(h *htmlWriter) {
	h.elem("h1", walkthrough.HeadingEnd)
	h.rawf(`<p>%s</p>`, templ.EscapeString(walkthrough.ClosingMessage))
	h.raw(`<nav>`)
	button(h, "/reset", "Use another code", false)
	h.raw(`</nav>`)
}
