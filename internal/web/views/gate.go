package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/alfredjeanlab/folio/internal/gate"
	"github.com/alfredjeanlab/folio/internal/walkthrough"
)

// Gate renders the access code form. A failed submission keeps the typed
// code in the input and shows the error message below it.
func Gate(st gate.State) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.elem("h1", walkthrough.HeadingAccess)
		h.raw(`<form method="post" action="/open" class="gate">`)
		h.rawf(`<input type="text" name="code" autocomplete="off" placeholder="%s" value="%s" aria-label="Access code" autofocus>`,
			templ.EscapeString(walkthrough.CodePlaceholder),
			templ.EscapeString(st.Code),
		)
		if st.Status == gate.Submitting {
			h.rawf(`<button type="submit" disabled>%s</button>`, templ.EscapeString(walkthrough.LabelOpen))
		} else {
			h.rawf(`<button type="submit">%s</button>`, templ.EscapeString(walkthrough.LabelOpen))
		}
		h.raw(`</form>`)
		if st.Status == gate.Failed && st.Err != nil {
			h.rawf(`<p class="error" role="alert">%s</p>`, templ.EscapeString(st.Err.Kind.Message()))
		}
	})
}
