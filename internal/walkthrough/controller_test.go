package walkthrough

import (
	"errors"
	"testing"

	"github.com/alfredjeanlab/folio/internal/model"
)

func samplePortfolio() *model.Portfolio {
	return &model.Portfolio{
		Name:    "Jane Doe",
		Summary: "Backend engineer.",
		Experience: []model.Experience{
			{Company: "Acme", Role: "Engineer"},
			{Company: "Globex", Role: "Senior Engineer"},
			{Company: "Initech", Role: "Staff Engineer"},
		},
		Education: []model.Education{
			{University: "State University", Course: "BSc Computer Science"},
		},
		Certifications: []string{"CKA"},
		Project: []model.Project{
			{Name: "folio", Description: "Portfolio viewer"},
			{Name: "ledger", Description: "Accounting tool"},
		},
	}
}

func TestNewStartsAtIntro(t *testing.T) {
	c := New(samplePortfolio())
	if c.Section() != SectionIntro {
		t.Fatalf("Section = %s, want Intro", c.Section())
	}
	if !c.Visited(SectionIntro) {
		t.Error("intro not marked visited")
	}
	if c.Completed() {
		t.Error("new controller reports completed")
	}
	scr := c.Screen()
	if scr.Heading != "Jane Doe" {
		t.Errorf("intro heading = %q, want owner name", scr.Heading)
	}
}

func TestPaginationTakesNMinusOneAdvances(t *testing.T) {
	doc := samplePortfolio()
	tests := []struct {
		section Section
		n       int
	}{
		{SectionExperience, len(doc.Experience)},
		{SectionProjects, len(doc.Project)},
	}
	for _, tt := range tests {
		t.Run(tt.section.Slug(), func(t *testing.T) {
			c := New(doc)
			must(t, c.Proceed())
			must(t, c.Select(tt.section))

			for i := 0; i < tt.n-1; i++ {
				if !c.CanAdvance() {
					t.Fatalf("CanAdvance false at item %d of %d", i, tt.n)
				}
				must(t, c.Advance())
			}
			if got := c.State().ItemIndex; got != tt.n-1 {
				t.Fatalf("ItemIndex = %d, want %d", got, tt.n-1)
			}
			if c.CanAdvance() {
				t.Error("CanAdvance true at last item")
			}

			// Advancing at the last item is a no-op.
			must(t, c.Advance())
			if got := c.State(); got.Section != tt.section || got.ItemIndex != tt.n-1 {
				t.Errorf("state after no-op advance = %+v", got)
			}
		})
	}
}

func TestReturnResetsPagination(t *testing.T) {
	c := New(samplePortfolio())
	must(t, c.Proceed())
	must(t, c.Select(SectionExperience))
	must(t, c.Advance())
	must(t, c.Return())
	if c.Section() != SectionMainMenu {
		t.Fatalf("Section = %s, want Main Menu", c.Section())
	}
	must(t, c.Select(SectionExperience))
	if got := c.State().ItemIndex; got != 0 {
		t.Errorf("ItemIndex on re-entry = %d, want 0", got)
	}
	scr := c.Screen()
	if scr.Experience == nil || scr.Experience.Company != "Acme" {
		t.Errorf("re-entry shows %+v, want first entry", scr.Experience)
	}
}

func TestFullWalkthrough(t *testing.T) {
	var log []Transition
	c := New(samplePortfolio(), OnTransition(func(tr Transition) { log = append(log, tr) }))

	steps := []Action{
		Proceed(),
		Select(SectionExperience), Advance(), Advance(), Return(),
		Select(SectionProjects), Advance(), Return(),
		Select(SectionEducation), Return(),
		Advance(), Advance(),
	}
	for _, a := range steps {
		if err := c.Apply(a); err != nil {
			t.Fatalf("Apply(%s) at %s: %v", a, c.Section(), err)
		}
	}
	if c.Section() != SectionEnd || !c.Completed() {
		t.Fatalf("Section = %s, want End", c.Section())
	}
	for _, s := range Sections {
		if !c.Visited(s) {
			t.Errorf("%s not visited", s)
		}
	}
	if len(log) != len(steps) {
		t.Errorf("observed %d transitions, want %d", len(log), len(steps))
	}
	if len(Allowed(c.Section())) != 0 {
		t.Error("End allows further actions")
	}
}

func TestRejectedActionLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		setup  []Action
		action Action
	}{
		{"select from intro", nil, Select(SectionExperience)},
		{"return from menu", []Action{Proceed()}, Return()},
		{"select from experience", []Action{Proceed(), Select(SectionExperience)}, Select(SectionProjects)},
		{"advance in education", []Action{Proceed(), Select(SectionEducation)}, Advance()},
		{"return from certifications", []Action{Proceed(), Advance()}, Return()},
		{"advance from end", []Action{Proceed(), Advance(), Advance()}, Advance()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			c := New(samplePortfolio(), OnTransition(func(Transition) { calls++ }))
			for _, a := range tt.setup {
				must(t, c.Apply(a))
			}
			before, beforeCalls := c.State(), calls

			err := c.Apply(tt.action)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
			if c.State() != before {
				t.Errorf("state changed: %+v -> %+v", before, c.State())
			}
			if calls != beforeCalls {
				t.Error("observer called for rejected action")
			}
		})
	}
}

func TestEmptySections(t *testing.T) {
	c := New(&model.Portfolio{Name: "Empty"})
	must(t, c.Proceed())
	must(t, c.Select(SectionExperience))
	scr := c.Screen()
	if scr.Total != 0 || scr.Experience != nil {
		t.Errorf("empty experience screen = %+v", scr)
	}
	if c.CanAdvance() {
		t.Error("CanAdvance true with no entries")
	}
	must(t, c.Return())
	must(t, c.Advance())
	if c.Section() != SectionCertifications {
		t.Fatalf("Section = %s, want Certifications", c.Section())
	}
}

func TestMenuScreenCounts(t *testing.T) {
	c := New(samplePortfolio())
	must(t, c.Proceed())
	scr := c.Screen()
	if scr.MenuCounts[SectionExperience] != 3 || scr.MenuCounts[SectionProjects] != 2 || scr.MenuCounts[SectionEducation] != 1 {
		t.Errorf("MenuCounts = %v", scr.MenuCounts)
	}
	if !scr.CanAdvance || scr.CanReturn {
		t.Errorf("menu CanAdvance=%v CanReturn=%v", scr.CanAdvance, scr.CanReturn)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
