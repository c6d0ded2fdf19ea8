package http

import (
	"context"
	"net/http"
)

func (s *Server) registerFeedRoutes(mux *http.ServeMux) {
	if s.feeds == nil {
		return
	}
	mux.HandleFunc("GET /feed.xml", s.serveXML("application/rss+xml; charset=utf-8", s.feeds.RSS))
	mux.HandleFunc("GET /feed.atom.xml", s.serveXML("application/atom+xml; charset=utf-8", s.feeds.Atom))
	mux.HandleFunc("GET /sitemap.xml", s.serveXML("application/xml; charset=utf-8", s.feeds.Sitemap))
	mux.HandleFunc("GET /robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(s.feeds.Robots()))
	})
}

func (s *Server) serveXML(contentType string, build func(context.Context) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := build(r.Context())
		if err != nil {
			s.logger.Error("http.feed.failed", "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}
}
