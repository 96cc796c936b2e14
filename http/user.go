package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"readly/domain"
	"readly/errs"
)

// registerUserRoutes is a helper for registering all user routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the profile data of a specific user.
	r.HandleFunc("/profile/{username}", s.handleGetProfile).Methods("GET")

	// Upload the authed user's avatar.
	r.HandleFunc("/profile/avatar/upload", s.requireAuth(s.handleUploadAvatar)).Methods("POST")
}

// profileResponse is the full page context of a user's profile.
type profileResponse struct {
	User           *domain.User     `json:"user"`
	Articles       []domain.Article `json:"articles"`
	TotalLikes     int              `json:"total_likes"`
	TotalComments  int              `json:"total_comments"`
	FollowerCount  int              `json:"follower_count"`
	FollowingCount int              `json:"following_count"`
	IsFollowing    bool             `json:"is_following"`
}

// handleGetProfile handles the route "GET /profile/:username".
// It returns the user's basic data and profile, their articles newest
// first, the likes and comments received across those articles, their
// follower and following counts, and whether the viewer follows them.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.us.ByUsername(username)
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "The user does not exist."))
		return
	}

	// A user created outside the usual path may lack a profile.
	if user.Profile == nil {
		profile, err := s.us.GetOrCreateProfile(user)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		user.Profile = profile
	}

	articles, err := s.as.ByAuthorID(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	totalLikes, err := s.as.CountLikesReceived(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	totalComments, err := s.as.CountCommentsReceived(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	followerCount, err := s.fs.CountFollowers(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	followingCount, err := s.fs.CountFollowing(user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	isFollowing := false
	if viewer := s.getUserFromContext(r.Context()); viewer != nil && viewer.ID != user.ID {
		if _, err := s.fs.ByPair(viewer.ID, user.ID); err == nil {
			isFollowing = true
		}
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&profileResponse{
		User:           user,
		Articles:       articles,
		TotalLikes:     totalLikes,
		TotalComments:  totalComments,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		IsFollowing:    isFollowing,
	}); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleUploadAvatar handles the route "POST /profile/avatar/upload".
// It reads an uploaded image, stores it on disk and updates the authed
// user's avatar path.
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(domain.MaxUploadSize); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, errs.ErrorMessage(err)))
		return
	}

	user := s.getUserFromContext(r.Context())

	files := r.MultipartForm.File["image"]
	if len(files) != 1 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Exactly one avatar image is required."))
		return
	}

	file, err := files[0].Open()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer file.Close()

	img := &domain.Image{
		OwnerType: domain.OwnerTypeAvatar,
		OwnerID:   user.ID,
		File:      file,
		Filename:  files[0].Filename,
	}
	if err := s.is.Create(img); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	profile, err := s.us.GetOrCreateProfile(user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	profile.Avatar = img.Path()
	if err := s.us.SaveProfile(profile); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user.Profile = profile

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
		return
	}
}
