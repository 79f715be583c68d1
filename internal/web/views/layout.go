// Package views renders the viewer's screens as HTML components.
package views

import (
	"context"

	"github.com/a-h/templ"
)

const stylesheet = `
body{font-family:system-ui,sans-serif;max-width:42rem;margin:2rem auto;padding:0 1rem;color:#1f2430;line-height:1.5}
h1{margin-bottom:.25rem}
form{display:inline-block;margin:.25rem .5rem .25rem 0}
button{font:inherit;padding:.4rem .9rem;border:1px solid #36a3d9;background:#fff;color:#36a3d9;border-radius:4px;cursor:pointer}
button:disabled{border-color:#ccc;color:#999;cursor:default}
input{font:inherit;padding:.4rem;width:14rem}
.error{color:#c0392b}
.muted,.meta{color:#6c7680}
.skills li{display:inline;margin-right:.5rem}
.skills{padding:0}
nav{margin-top:1.5rem}
`

// Page wraps body in the document shell.
func Page(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.elem("title", title)
		h.rawf("<style>%s</style>", stylesheet)
		h.raw(`</head><body><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// button writes a one-button form posting to action.
func button(h *htmlWriter, action, label string, disabled bool) {
	h.rawf(`<form method="post" action="%s">`, templ.EscapeString(action))
	if disabled {
		h.rawf(`<button type="submit" disabled>%s</button>`, templ.EscapeString(label))
	} else {
		h.rawf(`<button type="submit">%s</button>`, templ.EscapeString(label))
	}
	h.raw(`</form>`)
}
