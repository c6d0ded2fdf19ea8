package views

import (
	"context"

	"github.com/a-h/templ"
	"github.com/goliatone/go-pacer/internal/site"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

// LegalPage renders a policy document.
func (r *Renderer) LegalPage(page *site.LegalPage) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="legal">`)
		if !page.UpdatedAt.IsZero() {
			h.tag("p", "muted", "Last updated "+page.UpdatedAt.Format(dateLayout))
		}
		h.component(ctx, templ.Raw(page.HTML))
		h.raw("</article>")
	})
	canonical := ""
	if r.Routes != nil {
		canonical = r.Routes.Legal(page.Slug)
	}
	return r.Layout(Meta{Title: page.Title, Canonical: canonical}, body)
}

// WaitlistResult renders the thank-you page after a form post. Field errors
// re-render the form instead.
func (r *Renderer) WaitlistResult(outcome waitlist.Outcome, form WaitlistForm) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		if len(form.Errors) > 0 {
			h.tag("h1", "", "Almost there")
			h.raw(`<ul class="field-errors">`)
			for _, key := range sortedKeys(form.Errors) {
				h.tag("li", "field-error", form.Errors[key])
			}
			h.raw("</ul>")
			h.component(ctx, r.WaitlistFormSection(form))
			return
		}
		h.tag("h1", "", "You're on the list")
		switch {
		case outcome.Method == waitlist.MethodMailto && outcome.MailtoURL != "":
			h.tag("p", "", "One more step: send the pre-filled email to confirm your spot.")
			h.link(outcome.MailtoURL, "button primary", "Open email")
		case outcome.Duplicate:
			h.tag("p", "", "You were already signed up. We'll be in touch soon.")
		default:
			h.tag("p", "", "Thanks for signing up. We'll email you when your spot opens.")
		}
	})
	return r.Layout(Meta{Title: "Waitlist", NoIndex: true}, body)
}

// NotFound renders a 404 page.
func (r *Renderer) NotFound(message string) templ.Component {
	body := component(func(ctx context.Context, h *htmlWriter) {
		h.tag("h1", "", "Page not found")
		h.tag("p", "muted", firstNonEmpty(message, "The page you were looking for does not exist."))
		home := "/"
		if r.Routes != nil {
			home = r.Routes.Home()
		}
		h.link(home, "button", "Back home")
	})
	return r.Layout(Meta{Title: "Not found", NoIndex: true}, body)
}
