package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and keeps the first error so components can be
// written as straight-line code.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// rawf writes trusted markup; string arguments must already be escaped.
func (h *htmlWriter) rawf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// elem writes <tag>s</tag> with s escaped.
func (h *htmlWriter) elem(tag, s string) {
	h.rawf("<%s>%s</%s>", tag, templ.EscapeString(s), tag)
}

// list writes a <ul> of escaped items under class; nothing when empty.
func (h *htmlWriter) list(class string, items []string) {
	if len(items) == 0 {
		return
	}
	h.rawf(`<ul class="%s">`, class)
	for _, it := range items {
		h.elem("li", it)
	}
	h.raw("</ul>")
}

// render renders a nested component into the same writer.
func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// component adapts a straight-line writer function to templ.Component.
func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}
