package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so component bodies read
// top to bottom.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes a sanitised href attribute.
func (h *htmlWriter) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

// tag writes <name attrs...>text</name> with text escaped.
func (h *htmlWriter) tag(name, class, text string) {
	h.raw("<" + name)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(text)
	h.raw("</" + name + ">")
}

func (h *htmlWriter) link(url, class, text string) {
	h.raw("<a")
	h.href(url)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(text)
	h.raw("</a>")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}
