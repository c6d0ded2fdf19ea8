package views

import (
	"context"
	"sort"
	"strconv"

	"github.com/a-h/templ"
	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/site"
)

// WaitlistForm carries previously submitted values and field errors back
// into the form.
type WaitlistForm struct {
	Action string
	Email  string
	Name   string
	Goal   string
	Source string
	Errors map[string]string
}

// Landing renders the marketing page with the latest posts.
func (r *Renderer) Landing(form WaitlistForm, latest []*blog.Post) templ.Component {
	content := r.Site
	if content == nil {
		content = &site.Content{}
	}
	body := component(func(ctx context.Context, h *htmlWriter) {
		hero := content.Hero
		h.raw(`<section class="hero">`)
		if hero.Eyebrow != "" {
			h.tag("p", "eyebrow", hero.Eyebrow)
		}
		h.tag("h1", "", firstNonEmpty(hero.Headline, content.Tagline, r.brand()))
		if hero.Subheadline != "" {
			h.tag("p", "lead", hero.Subheadline)
		}
		if hero.PrimaryCTA.Label != "" {
			h.link(hero.PrimaryCTA.Href, "button primary", hero.PrimaryCTA.Label)
		}
		if hero.SecondaryCTA.Label != "" {
			h.link(hero.SecondaryCTA.Href, "button", hero.SecondaryCTA.Label)
		}
		h.raw("</section>")

		if len(content.Features) > 0 {
			h.raw(`<section id="features" class="features">`)
			for _, feature := range content.Features {
				h.raw(`<article class="feature"`)
				h.attr("data-icon", feature.Icon)
				h.raw(">")
				h.tag("h3", "", feature.Title)
				h.tag("p", "", feature.Description)
				h.raw("</article>")
			}
			h.raw("</section>")
		}

		if len(content.Pricing) > 0 {
			h.raw(`<section id="pricing" class="pricing">`)
			for _, plan := range content.Pricing {
				class := "plan"
				if plan.Highlighted {
					class += " highlighted"
				}
				h.raw("<article")
				h.attr("class", class)
				h.attr("id", "plan-"+plan.ID)
				h.raw(">")
				h.tag("h3", "", plan.Name)
				h.tag("p", "price", plan.MonthlyLabel())
				if plan.PriceMonthly > 0 {
					h.tag("p", "muted", "per month, or "+plan.YearlyLabel()+" per year")
				}
				h.tag("p", "", plan.Description)
				if len(plan.Features) > 0 {
					h.raw("<ul>")
					for _, item := range plan.Features {
						h.tag("li", "", item)
					}
					h.raw("</ul>")
				}
				if plan.CTA.Label != "" {
					h.link(plan.CTA.Href, "button", plan.CTA.Label)
				}
				h.raw("</article>")
			}
			h.raw("</section>")
		}

		if len(content.Testimonials) > 0 {
			h.raw(`<section id="testimonials" class="testimonials">`)
			for _, quote := range content.Testimonials {
				h.raw("<figure><blockquote>")
				h.text(quote.Quote)
				h.raw("</blockquote><figcaption>")
				h.text(quote.Author)
				if quote.Role != "" {
					h.text(", " + quote.Role)
				}
				h.raw("</figcaption></figure>")
			}
			h.raw("</section>")
		}

		h.component(ctx, r.WaitlistFormSection(form))

		if len(latest) > 0 {
			h.raw(`<section id="latest" class="latest">`)
			h.tag("h2", "", "From the blog")
			h.component(ctx, r.postList(latest))
			h.raw("</section>")
		}

		if len(content.FAQ) > 0 {
			h.raw(`<section id="faq" class="faq">`)
			h.tag("h2", "", "Questions")
			for _, item := range content.FAQ {
				h.raw("<details>")
				h.tag("summary", "", item.Question)
				h.tag("p", "", item.Answer)
				h.raw("</details>")
			}
			h.raw("</section>")
		}
	})
	return r.Layout(Meta{Title: r.brand(), Description: content.Tagline, Canonical: r.canonical("")}, body)
}

// WaitlistFormSection renders the signup form. The honeypot input is hidden
// from people and left empty by them.
func (r *Renderer) WaitlistFormSection(form WaitlistForm) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		action := form.Action
		if action == "" {
			action = "/api/waitlist"
		}
		h.raw(`<section id="waitlist" class="waitlist">`)
		h.tag("h2", "", "Join the waitlist")
		h.raw(`<form method="post"`)
		h.attr("action", action)
		h.raw(">")
		if msg, ok := form.Errors[""]; ok {
			h.tag("p", "field-error", msg)
		}
		r.input(h, "email", "email", "Email", form.Email, form.Errors, true)
		r.input(h, "text", "name", "Name", form.Name, form.Errors, false)
		r.input(h, "text", "goal", "Your goal race", form.Goal, form.Errors, false)
		h.raw(`<input type="hidden" name="source"`)
		h.attr("value", firstNonEmpty(form.Source, "landing"))
		h.raw(">")
		field := r.HoneypotField
		if field == "" {
			field = "website"
		}
		h.raw(`<div class="hp" aria-hidden="true"><label>Leave this empty <input type="text" tabindex="-1" autocomplete="off"`)
		h.attr("name", field)
		h.raw("></label></div>")
		h.raw(`<button type="submit">Join the waitlist</button></form></section>`)
	})
}

func (r *Renderer) input(h *htmlWriter, kind, name, label, value string, errs map[string]string, required bool) {
	h.raw("<label>")
	h.text(label)
	h.raw("<input")
	h.attr("type", kind)
	h.attr("name", name)
	if value != "" {
		h.attr("value", value)
	}
	if required {
		h.raw(" required")
	}
	h.raw("></label>")
	if msg, ok := errs[name]; ok {
		h.tag("p", "field-error", msg)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func itoa(n int) string { return strconv.Itoa(n) }

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
