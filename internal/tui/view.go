package tui

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	v := m.sess.View()
	var b strings.Builder
	if v.Screen == nil {
		m.renderGate(&b, v.Gate)
	} else {
		m.renderScreen(&b, *v.Screen)
	}
	if m.notice != "" {
		b.WriteString("\n" + m.theme.Error.Render(m.notice) + "\n")
	}
	out := b.String()
	if m.width > 20 {
		return m.theme.Frame.Width(min(m.width-4, 80)).Render(out)
	}
	return m.theme.Frame.Render(out)
}

func (m Model) renderGate(b *strings.Builder, st gate.State) {
	b.WriteString(m.theme.Title.Render(walkthrough.HeadingAccess) + "\n\n")
	b.WriteString(m.input.View() + "\n")
	switch {
	case m.submitting:
		b.WriteString("\n" + m.theme.Muted.Render("Opening…") + "\n")
	case st.Status == gate.Failed && st.Err != nil:
		b.WriteString("\n" + m.theme.Error.Render(st.Err.Kind.Message()) + "\n")
	}
	b.WriteString("\n" + m.help("enter "+walkthrough.LabelOpen, "esc quit"))
}

func (m Model) renderScreen(b *strings.Builder, scr walkthrough.Screen) {
	p := scr.Portfolio
	switch scr.Section {
	case walkthrough.SectionIntro:
		b.WriteString(m.theme.Title.Render(p.Name) + "\n\n")
		if p.Summary != "" {
			b.WriteString(p.Summary + "\n")
		}
		for _, c := range []string{p.Email, p.Phone, p.Address} {
			if c != "" {
				b.WriteString(m.theme.Muted.Render(c) + "\n")
			}
		}
		b.WriteString("\n" + m.help("enter "+walkthrough.LabelProceed))

	case walkthrough.SectionMainMenu:
		b.WriteString(m.theme.Heading.Render(walkthrough.HeadingMainMenu) + "\n\n")
		for i, s := range walkthrough.HubSections {
			fmt.Fprintf(b, "  %s %s\n", m.theme.Button.Render(fmt.Sprintf("[%d]", i+1)),
				fmt.Sprintf("%s (%d)", s.Heading(), scr.MenuCounts[s]))
		}
		b.WriteString("\n" + m.help("1-3 select", "n "+walkthrough.LabelNext, "r another code", "q quit"))

	case walkthrough.SectionExperience:
		b.WriteString(m.sectionHeading(scr))
		if e := scr.Experience; e != nil {
			m.entry(b, e.Company, []string{e.Role, e.Location, period(e.From, e.To)}, e.Points, e.Skills)
		} else {
			b.WriteString(m.theme.Muted.Render("No experience listed.") + "\n")
		}
		b.WriteString("\n" + m.pagedHelp(scr))

	case walkthrough.SectionProjects:
		b.WriteString(m.sectionHeading(scr))
		if pr := scr.Project; pr != nil {
			m.entry(b, pr.Name, []string{pr.Duration}, nonEmpty(pr.Description), pr.Skills)
		} else {
			b.WriteString(m.theme.Muted.Render("No projects listed.") + "\n")
		}
		b.WriteString("\n" + m.pagedHelp(scr))

	case walkthrough.SectionEducation:
		b.WriteString(m.theme.Heading.Render(walkthrough.HeadingEducation) + "\n\n")
		if len(p.Education) == 0 {
			b.WriteString(m.theme.Muted.Render("No education listed.") + "\n")
		}
		for _, e := range p.Education {
			m.educationEntry(b, e)
		}
		b.WriteString("\n" + m.help("m "+walkthrough.LabelReturn))

	case walkthrough.SectionCertifications:
		b.WriteString(m.theme.Heading.Render(walkthrough.HeadingCertifications) + "\n\n")
		if len(p.Certifications) == 0 {
			b.WriteString(m.theme.Muted.Render("No certifications listed.") + "\n")
		}
		for _, c := range p.Certifications {
			b.WriteString("  • " + c + "\n")
		}
		b.WriteString("\n" + m.help("n "+walkthrough.LabelNext))

	case walkthrough.SectionEnd:
		b.WriteString(m.theme.Heading.Render(walkthrough.HeadingEnd) + "\n\n")
		b.WriteString(walkthrough.ClosingMessage + "\n")
		b.WriteString("\n" + m.help("r another code", "q quit"))
	}
}

func (m Model) sectionHeading(scr walkthrough.Screen) string {
	h := m.theme.Heading.Render(scr.Heading)
	if scr.Total > 0 {
		h += "  " + m.theme.Muted.Render(fmt.Sprintf("%d of %d", scr.Index+1, scr.Total))
	}
	return h + "\n\n"
}

func (m Model) entry(b *strings.Builder, title string, meta, points, skills []string) {
	b.WriteString(m.theme.Title.Render(title) + "\n")
	if line := strings.Join(nonEmpty(meta...), " · "); line != "" {
		b.WriteString(m.theme.Muted.Render(line) + "\n")
	}
	for _, pt := range points {
		b.WriteString("  • " + pt + "\n")
	}
	if len(skills) > 0 {
		b.WriteString(m.theme.Muted.Render(strings.Join(skills, ", ")) + "\n")
	}
}

func (m Model) educationEntry(b *strings.Builder, e model.Education) {
	m.entry(b, e.University, []string{e.Course, e.Location, period(e.From, e.To)}, e.Points, e.Skills)
	b.WriteString("\n")
}

// pagedHelp shows Next only while there is a next item.
func (m Model) pagedHelp(scr walkthrough.Screen) string {
	next := "n " + walkthrough.LabelNext
	if !scr.CanAdvance {
		next = m.theme.ButtonDisabled.Render(next)
	}
	return m.help(next, "m "+walkthrough.LabelReturn)
}

func (m Model) help(items ...string) string {
	return m.theme.Muted.Render(strings.Join(items, "  ·  "))
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

func nonEmpty(ss ...string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
