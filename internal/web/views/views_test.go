package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	return b.String()
}

func sampleDoc() *model.Portfolio {
	return &model.Portfolio{
		Name:    "Jane <Doe>",
		Summary: "Builds things & ships them.",
		Email:   "jane@example.com",
		Experience: []model.Experience{
			{Company: "Acme", Role: "Engineer", From: "2020", To: "2022", Points: []string{"Shipped"}},
			{Company: "Globex", Role: "Lead"},
		},
		Project:        []model.Project{{Name: "folio", Duration: "3 months"}},
		Education:      []model.Education{{University: "Edinburgh"}, {University: "Open University"}},
		Certifications: []string{"CKA", "AWS SA"},
	}
}

func TestGate(t *testing.T) {
	got := render(t, Gate(gate.State{}))
	for _, want := range []string{
		"<h1>Portfolio Access</h1>",
		`placeholder="Enter 6-character code"`,
		`<button type="submit">Open</button>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("gate missing %q in %s", want, got)
		}
	}
	if strings.Contains(got, `role="alert"`) {
		t.Error("idle gate shows an error")
	}

	failed := gate.State{
		Status: gate.Failed,
		Code:   `"><script>`,
		Err:    &gate.Error{Kind: gate.NotFound, Err: errors.New("boom")},
	}
	got = render(t, Gate(failed))
	if !strings.Contains(got, "Access code not found.") {
		t.Errorf("failed gate missing message: %s", got)
	}
	if strings.Contains(got, "<script>") || strings.Contains(got, "boom") {
		t.Errorf("failed gate leaks unescaped input or cause: %s", got)
	}
}

func TestScreens(t *testing.T) {
	c := walkthrough.New(sampleDoc())
	step := func(a walkthrough.Action) {
		t.Helper()
		if err := c.Apply(a); err != nil {
			t.Fatalf("Apply(%v) = %v", a, err)
		}
	}

	got := render(t, Screen(c.Screen()))
	if !strings.Contains(got, "<h1>Jane &lt;Doe&gt;</h1>") || !strings.Contains(got, "Builds things &amp; ships them.") {
		t.Errorf("intro = %s", got)
	}
	if !strings.Contains(got, "Proceed &gt;</button>") {
		t.Errorf("intro missing Proceed: %s", got)
	}

	step(walkthrough.Proceed())
	got = render(t, Screen(c.Screen()))
	for _, want := range []string{"<h1>Main Menu</h1>", "Experience (2)", "Projects (1)", "Education (2)", `<button type="submit">Next &gt;</button>`} {
		if !strings.Contains(got, want) {
			t.Errorf("menu missing %q", want)
		}
	}

	step(walkthrough.Select(walkthrough.SectionExperience))
	got = render(t, Screen(c.Screen()))
	if !strings.Contains(got, "<h2>Acme</h2>") || !strings.Contains(got, "1 of 2") || strings.Contains(got, "Globex") {
		t.Errorf("experience page 1 = %s", got)
	}
	step(walkthrough.Advance())
	got = render(t, Screen(c.Screen()))
	if !strings.Contains(got, "<h2>Globex</h2>") || !strings.Contains(got, "<button type=\"submit\" disabled>Next &gt;</button>") {
		t.Errorf("experience last page should disable Next: %s", got)
	}
	if !strings.Contains(got, "Return to Main Menu") {
		t.Error("experience missing Return")
	}

	step(walkthrough.Return())
	step(walkthrough.Select(walkthrough.SectionEducation))
	got = render(t, Screen(c.Screen()))
	if i, j := strings.Index(got, "Edinburgh"), strings.Index(got, "Open University"); i < 0 || j < i {
		t.Errorf("education should list every entry in order: %s", got)
	}
	if strings.Contains(got, "Next &gt;") {
		t.Error("education is not on the forward chain")
	}

	step(walkthrough.Return())
	step(walkthrough.Advance())
	got = render(t, Screen(c.Screen()))
	if !strings.Contains(got, "<h1>Certifications</h1>") || !strings.Contains(got, "<li>CKA</li>") || !strings.Contains(got, "<li>AWS SA</li>") {
		t.Errorf("certifications = %s", got)
	}

	step(walkthrough.Advance())
	got = render(t, Screen(c.Screen()))
	if !strings.Contains(got, "<h1>End</h1>") || !strings.Contains(got, walkthrough.ClosingMessage) {
		t.Errorf("end = %s", got)
	}
}

func TestEmptySections(t *testing.T) {
	c := walkthrough.New(&model.Portfolio{Name: "Empty"}, walkthrough.StartAt(walkthrough.SectionMainMenu))
	if err := c.Select(walkthrough.SectionProjects); err != nil {
		t.Fatal(err)
	}
	got := render(t, Screen(c.Screen()))
	if !strings.Contains(got, "No projects listed.") || !strings.Contains(got, "disabled>Next &gt;") {
		t.Errorf("empty projects = %s", got)
	}
}

func TestPageAndTitle(t *testing.T) {
	got := render(t, Page("Jane & co", Gate(gate.State{})))
	if !strings.HasPrefix(got, "<!DOCTYPE html>") || !strings.Contains(got, "<title>Jane &amp; co</title>") {
		t.Errorf("page = %s", got)
	}

	if Title(nil) != walkthrough.HeadingAccess {
		t.Errorf("gate title = %q", Title(nil))
	}
	scr := walkthrough.New(sampleDoc()).Screen()
	if Title(&scr) != "Jane <Doe>" {
		t.Errorf("intro title = %q", Title(&scr))
	}
}
