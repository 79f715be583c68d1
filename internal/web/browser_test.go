//go:build e2e

package web

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

var chrome *rod.Browser

func TestMain(m *testing.M) {
	path, ok := launcher.LookPath()
	if !ok {
		// Without a browser only the HTTP-level tests run.
		os.Exit(m.Run())
	}
	u := launcher.New().Bin(path).Headless(true).Set("no-sandbox").Set("disable-gpu").MustLaunch()
	chrome = rod.New().ControlURL(u).MustConnect()

	code := m.Run()
	chrome.MustClose()
	os.Exit(code)
}

// tab opens a page in a fresh incognito context so each visitor gets its
// own session cookie.
func tab(t *testing.T, url string) *rod.Page {
	t.Helper()
	if chrome == nil {
		t.Skip("Chrome/Chromium not available")
	}
	ctx := chrome.MustIncognito()
	t.Cleanup(func() { _ = ctx.Close() })
	page := ctx.MustPage(url).Timeout(30 * time.Second)
	page.MustWaitLoad()
	return page
}

// press clicks the button of the form posting to action and waits for the
// next document.
func press(page *rod.Page, action string) {
	wait := page.MustWaitNavigation()
	page.MustElement(`form[action="` + action + `"] button`).MustClick()
	wait()
}

func submitCode(page *rod.Page, code string) {
	input := page.MustElement(`input[name="code"]`)
	input.MustSelectAllText().MustInput(code)
	press(page, "/open")
}

func h1(page *rod.Page) string {
	return strings.TrimSpace(page.MustElement("h1").MustText())
}

func requireText(t *testing.T, page *rod.Page, want ...string) {
	t.Helper()
	text := page.MustElement("main").MustText()
	for _, w := range want {
		if !strings.Contains(text, w) {
			t.Fatalf("page missing %q:\n%s", w, text)
		}
	}
}

func walkBrowser(t *testing.T, page *rod.Page, p *model.Portfolio) {
	t.Helper()
	if got := h1(page); got != p.Name {
		t.Fatalf("intro heading = %q, want %q", got, p.Name)
	}
	requireText(t, page, p.Summary)

	press(page, "/proceed")
	if got := h1(page); got != walkthrough.HeadingMainMenu {
		t.Fatalf("heading = %q, want main menu", got)
	}

	press(page, "/select/experience")
	requireText(t, page, walkthrough.HeadingExperience, p.Experience[0].Company)
	press(page, "/next")
	requireText(t, page, p.Experience[1].Company)
	press(page, "/menu")

	press(page, "/select/projects")
	requireText(t, page, walkthrough.HeadingProjects, p.Project[0].Name)
	press(page, "/next")
	requireText(t, page, p.Project[1].Name)
	press(page, "/menu")

	press(page, "/select/education")
	requireText(t, page, walkthrough.HeadingEducation, p.Education[0].University)
	press(page, "/menu")

	press(page, "/next")
	if got := h1(page); got != walkthrough.HeadingCertifications {
		t.Fatalf("heading = %q, want certifications", got)
	}
	press(page, "/next")
	if got := h1(page); got != walkthrough.HeadingEnd {
		t.Fatalf("heading = %q, want end", got)
	}
	requireText(t, page, walkthrough.ClosingMessage)
}

func TestBrowser_GateRejectsBadCodes(t *testing.T) {
	st := newStack(t, Options{})
	page := tab(t, st.viewer.URL)

	if got := h1(page); got != walkthrough.HeadingAccess {
		t.Fatalf("heading = %q, want %q", got, walkthrough.HeadingAccess)
	}
	placeholder := page.MustElement(`input[name="code"]`).MustAttribute("placeholder")
	if placeholder == nil || *placeholder != walkthrough.CodePlaceholder {
		t.Fatalf("placeholder = %v", placeholder)
	}

	cases := []struct {
		codes []string
		want  string
	}{
		{st.fixture.Access.InvalidFormatCodes, "Code must be exactly 6 alphanumeric characters."},
		{st.fixture.Access.NotFoundCodes, "Access code not found."},
	}
	for _, tc := range cases {
		for _, code := range tc.codes {
			submitCode(page, code)
			if got := page.MustElement(`[role="alert"]`).MustText(); got != tc.want {
				t.Errorf("code %q: error = %q, want %q", code, got, tc.want)
			}
			if got := h1(page); got != walkthrough.HeadingAccess {
				t.Errorf("code %q left the gate: heading %q", code, got)
			}
			if got := page.MustInfo().URL; got != st.viewer.URL+"/" {
				t.Errorf("code %q: url = %q, want the gate", code, got)
			}
		}
	}
}

func TestBrowser_DeepLink(t *testing.T) {
	st := newStack(t, Options{})
	p := st.fixture.Profiles[0]

	page := tab(t, st.viewer.URL+"/"+p.Code)
	if got := h1(page); got != p.Portfolio.Name {
		t.Fatalf("deep link heading = %q, want %q", got, p.Portfolio.Name)
	}
}

func TestBrowser_HappyPath(t *testing.T) {
	st := newStack(t, Options{})
	p := st.fixture.Profiles[0]

	page := tab(t, st.viewer.URL)
	submitCode(page, p.Code)
	walkBrowser(t, page, &p.Portfolio)

	press(page, "/reset")
	if got := h1(page); got != walkthrough.HeadingAccess {
		t.Fatalf("heading after reset = %q", got)
	}
}

func TestBrowser_ProfilesStayIsolated(t *testing.T) {
	st := newStack(t, Options{})
	first, second := st.fixture.Profiles[0], st.fixture.Profiles[1]

	a := tab(t, st.viewer.URL+"/"+first.Code)
	b := tab(t, st.viewer.URL+"/"+second.Code)

	walkBrowser(t, a, &first.Portfolio)
	walkBrowser(t, b, &second.Portfolio)

	a.MustReload().MustWaitLoad()
	requireText(t, a, walkthrough.ClosingMessage)
	if strings.Contains(a.MustElement("main").MustText(), second.Portfolio.Name) {
		t.Fatal("second profile leaked into the first session")
	}
}
