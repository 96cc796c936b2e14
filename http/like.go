package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"readly/errs"
)

// registerLikeRoutes is a helper for registering all like and favorite routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Toggle a like on an article.
	r.HandleFunc("/article/{id:[0-9]+}/like", s.requireAuth(s.handleToggleLike)).Methods("POST")

	// Toggle a favorite on an article.
	r.HandleFunc("/article/{id:[0-9]+}/favorite", s.requireAuth(s.handleToggleFavorite)).Methods("POST")

	// List the authed user's saved articles.
	r.HandleFunc("/favorites", s.requireAuth(s.handleListFavorites)).Methods("GET")
}

// handleToggleLike handles the route "POST /article/:id/like".
// The first call likes the article, the second takes the like back.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	liked, err := s.ls.Toggle(user.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	count, err := s.ls.CountByArticle(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"liked":      liked,
		"like_count": count,
	}); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleToggleFavorite handles the route "POST /article/:id/favorite".
// The first call saves the article, the second removes it from favorites.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := s.getUserFromContext(r.Context())
	favorited, err := s.favs.Toggle(user.ID, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"favorited": favorited,
	}); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleListFavorites handles the route "GET /favorites".
// It returns the authed user's saved articles, newest first.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	articles, err := s.favs.ByUserID(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(articles); err != nil {
		errs.LogError(r, err)
		return
	}
}
