package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"readly/errs"
)

// registerFeedRoutes is a helper for registering all feed routes.
func (s *Server) registerFeedRoutes(r *mux.Router) {
	// The home feed. Anonymous requests get the global feed.
	r.HandleFunc("/", s.handleHome).Methods("GET")

	// Search articles by title, content or tag name.
	r.HandleFunc("/search", s.handleSearch).Methods("GET")
}

// handleHome handles the route "GET /?segment=...&page=...&partial=...".
// It composes the viewer's home feed. With partial=1 only the article list
// is returned, for append-style incremental loading; otherwise the full
// feed context including the recommended side list.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	viewerID := 0
	if user := s.getUserFromContext(r.Context()); user != nil {
		viewerID = user.ID
	}

	segment := r.URL.Query().Get("segment")
	page := parsePage(r.URL.Query().Get("page"))

	feed, err := s.feeds.Compose(viewerID, segment, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if r.URL.Query().Get("partial") == "1" {
		if err := json.NewEncoder(w).Encode(feed.Articles); err != nil {
			errs.LogError(r, err)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(feed); err != nil {
		errs.LogError(r, err)
	}
}

// handleSearch handles the route "GET /search?q=...".
// It returns articles matching the query in their title, content or tags.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	results, err := s.as.Search(q)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"query":   q,
		"results": results,
	}); err != nil {
		errs.LogError(r, err)
	}
}

// parsePage parses a page query parameter. Anything non-numeric or below 1
// falls back to page 1 rather than erroring.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
