package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"readly/domain"
	"readly/errs"
)

// registerFollowRoutes is a helper for registering all follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	// Toggle following a user.
	r.HandleFunc("/follow/{followed_id:[0-9]+}", s.requireAuth(s.handleToggleFollow)).Methods("POST")
}

// handleToggleFollow handles the route "POST /follow/:followed_id".
// The first call follows the user, the second unfollows them. Following
// yourself is rejected here; the follows table itself does not forbid it.
func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := strconv.Atoi(mux.Vars(r)["followed_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	follower := s.getUserFromContext(r.Context())
	if follower.ID == followedID {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "You cannot follow yourself."))
		return
	}

	following := true
	existing, err := s.fs.ByPair(follower.ID, followedID)
	if err == nil {
		if err := s.fs.Delete(existing); err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		following = false
	} else if errs.ErrorCode(err) == errs.ENOTFOUND {
		follow := domain.Follow{
			FollowerID: follower.ID,
			FollowedID: followedID,
		}
		if err := s.fs.Create(&follow); err != nil {
			errs.ReturnError(w, r, err)
			return
		}
	} else {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"following": following,
	}); err != nil {
		errs.LogError(r, err)
		return
	}
}
