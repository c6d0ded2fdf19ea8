package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/goliatone/go-pacer/internal/blog"
	"github.com/goliatone/go-pacer/internal/views"
	"github.com/goliatone/go-pacer/internal/waitlist"
)

const landingPostCount = 3

func (s *Server) registerPageRoutes(mux *http.ServeMux) {
	if s.views == nil {
		return
	}
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /blog", s.handleBlogIndex)
	mux.HandleFunc("GET /blog/search", s.handleBlogSearch)
	mux.HandleFunc("GET /blog/tag/{tag}", s.handleBlogTag)
	mux.HandleFunc("GET /blog/{slug}", s.handleBlogPost)
	mux.HandleFunc("GET /legal/{slug}", s.handleLegal)
	mux.HandleFunc("GET /", s.handleNotFound)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := mapError(err)
	if status == http.StatusNotFound {
		s.render(w, r, status, s.views.NotFound(""))
		return
	}
	s.logger.Error("http.page.failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(status), status)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, s.views.NotFound(""))
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	var latest []*blog.Post
	if s.blog != nil {
		posts, err := s.blog.Recent(r.Context(), landingPostCount)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		latest = posts
	}
	form := views.WaitlistForm{Source: strings.TrimSpace(r.URL.Query().Get("utm_source"))}
	s.render(w, r, http.StatusOK, s.views.Landing(form, latest))
}

func (s *Server) handleBlogIndex(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		s.handleNotFound(w, r)
		return
	}
	page, err := s.blog.List(r.Context(), blog.ListOptions{
		Page: parseIntQuery(r.URL.Query().Get("page"), 1),
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	tags, err := s.blog.Tags(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, s.views.BlogIndex(page, tags))
}

func (s *Server) handleBlogPost(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		s.handleNotFound(w, r)
		return
	}
	post, err := s.blog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	related, err := s.blog.Related(r.Context(), post.Slug, 0)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, s.views.PostDetail(post, related))
}

func (s *Server) handleBlogTag(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		s.handleNotFound(w, r)
		return
	}
	tag := r.PathValue("tag")
	posts, err := s.blog.ByTag(r.Context(), tag)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if len(posts) == 0 {
		s.render(w, r, http.StatusNotFound, s.views.NotFound("No posts are tagged "+tag+"."))
		return
	}
	s.render(w, r, http.StatusOK, s.views.TagIndex(displayTag(posts[0], tag), posts))
}

// displayTag returns the post's spelling of the tag matched by param.
func displayTag(post *blog.Post, param string) string {
	for _, tag := range post.Tags {
		if strings.EqualFold(tag, param) || blog.TagSlug(tag) == param {
			return tag
		}
	}
	return param
}

func (s *Server) handleBlogSearch(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		s.handleNotFound(w, r)
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	var posts []*blog.Post
	if query != "" {
		found, err := s.blog.Search(r.Context(), query)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
		posts = found
	}
	s.render(w, r, http.StatusOK, s.views.SearchResults(query, posts))
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	if s.legal == nil {
		s.handleNotFound(w, r)
		return
	}
	page, err := s.legal.Page(r.Context(), r.PathValue("slug"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, s.views.LegalPage(page))
}

// handleWaitlistForm accepts the landing page form. Mailto outcomes redirect
// straight to the mail client; everything else renders the result page.
func (s *Server) handleWaitlistForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := parseForm(r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sub, form := s.submissionFromForm(r.PostForm)
	sub.IPAddress = clientIP(r)
	sub.UserAgent = r.UserAgent()

	outcome, err := s.waitlist.Submit(r.Context(), sub)
	if err != nil {
		if errors.Is(err, waitlist.ErrInvalidSubmission) {
			form.Errors = waitlist.FieldErrors(err)
			s.render(w, r, http.StatusUnprocessableEntity, s.views.WaitlistResult(waitlist.Outcome{}, form))
			return
		}
		s.renderError(w, r, err)
		return
	}

	if outcome.Method == waitlist.MethodMailto && outcome.MailtoURL != "" {
		http.Redirect(w, r, outcome.MailtoURL, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, s.views.WaitlistResult(outcome, form))
}

func (s *Server) submissionFromForm(values url.Values) (waitlist.Submission, views.WaitlistForm) {
	sub := waitlist.Submission{
		Email:    values.Get("email"),
		Name:     values.Get("name"),
		Goal:     values.Get("goal"),
		Source:   values.Get("source"),
		Honeypot: values.Get(s.honeypotField),
	}
	form := views.WaitlistForm{
		Email:  sub.Email,
		Name:   sub.Name,
		Goal:   sub.Goal,
		Source: sub.Source,
	}
	return sub, form
}
