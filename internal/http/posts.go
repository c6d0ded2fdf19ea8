package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pacer/internal/blog"
)

type postSummary struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Featured    bool      `json:"featured"`
	ReadingTime int       `json:"reading_time"`
}

type postPageResponse struct {
	Posts      []postSummary `json:"posts"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

func summarize(posts []*blog.Post) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		if post == nil {
			continue
		}
		out = append(out, postSummary{
			ID:          post.ID,
			Slug:        post.Slug,
			Title:       post.Title,
			Excerpt:     post.Excerpt,
			Author:      post.Author,
			PublishedAt: post.PublishedAt,
			Tags:        post.Tags,
			Category:    post.Category,
			CoverImage:  post.CoverImage,
			Featured:    post.Featured,
			ReadingTime: post.ReadingTime,
		})
	}
	return out
}

func (s *Server) registerPostRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "posts")
	mux.HandleFunc("GET "+root, s.handlePostList)
	mux.HandleFunc("GET "+root+"/{slug}", s.handlePostGet)
	mux.HandleFunc("GET "+root+"/{slug}/related", s.handlePostRelated)
	mux.HandleFunc("GET "+joinPath(base, "tags"), s.handleTagList)
}

func (s *Server) handlePostList(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	query := r.URL.Query()
	page, err := s.blog.List(r.Context(), blog.ListOptions{
		Page:    parseIntQuery(query.Get("page"), 1),
		PerPage: parseIntQuery(query.Get("per_page"), 0),
		Tag:     query.Get("tag"),
		Query:   query.Get("q"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postPageResponse{
		Posts:      summarize(page.Posts),
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

func (s *Server) handlePostGet(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	post, err := s.blog.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handlePostRelated(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	limit := parseIntQuery(r.URL.Query().Get("limit"), 0)
	posts, err := s.blog.Related(r.Context(), r.PathValue("slug"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(posts))
}

func (s *Server) handleTagList(w http.ResponseWriter, r *http.Request) {
	if s.blog == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	tags, err := s.blog.Tags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
