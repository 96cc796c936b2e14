package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"readly/domain"
	"readly/errs"
)

// registerArticleRoutes is a helper for registering all article routes.
func (s *Server) registerArticleRoutes(r *mux.Router) {
	// Create a new article.
	r.HandleFunc("/article", s.requireAuth(s.handleCreateArticle)).Methods("POST")

	// Get a single article with its comments.
	r.HandleFunc("/article/{id:[0-9]+}", s.handleGetArticle).Methods("GET")

	// Delete an existing article.
	r.HandleFunc("/article/delete/{id:[0-9]+}", s.requireAuth(s.handleDeleteArticle)).Methods("DELETE")

	// Upload an article's cover image.
	r.HandleFunc("/article/cover/upload/{id:[0-9]+}", s.requireAuth(s.handleUploadCover)).Methods("POST")

	// Comment on an article.
	r.HandleFunc("/article/{id:[0-9]+}/comment", s.requireAuth(s.handleCreateComment)).Methods("POST")
}

// articleInput is the json body of an article create request. Tags come in
// as one comma-separated string, matching the original form field.
type articleInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// handleCreateArticle handles the route "POST /article".
// It reads article data from the json body, splits the comma-separated tag
// input into names and creates the article for the authed user.
func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var input articleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	article := domain.Article{
		AuthorID: user.ID,
		Title:    input.Title,
		Content:  input.Content,
	}

	var tagNames []string
	for _, name := range strings.Split(input.Tags, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tagNames = append(tagNames, name)
		}
	}

	if err := s.as.Create(&article, tagNames); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&article); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetArticle handles the route "GET /article/:id".
// It returns the article with its author, tags, interaction counts, its
// comments in ascending creation order, and the viewer's like and favorite
// state.
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	article, err := s.as.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	comments, err := s.cs.ByArticleID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	article.Comments = comments

	if user := s.getUserFromContext(r.Context()); user != nil {
		article.AuthLiked = s.ls.Exists(user.ID, article.ID)
		article.AuthFavorited = s.favs.Exists(user.ID, article.ID)
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(article); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleDeleteArticle handles the route "DELETE /article/delete/:id".
// It deletes the article along with its comments, likes, favorites and
// stored cover files, provided the authed user is its author.
func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	article, err := s.as.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if article.AuthorID != user.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to delete this article."))
		return
	}

	if err := s.as.Delete(article); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// The article row is gone, cover file removal is best-effort.
	images, err := s.is.ByOwner(domain.OwnerTypeCover, article.ID)
	if err != nil {
		errs.LogError(r, err)
	}
	for i := range images {
		if err := s.is.Delete(&images[i]); err != nil {
			errs.LogError(r, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUploadCover handles the route "POST /article/cover/upload/:id".
// It reads an uploaded cover image, stores it on disk and updates the
// article's cover path, provided the authed user is its author.
func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	article, err := s.as.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := s.getUserFromContext(r.Context())
	if article.AuthorID != user.ID {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this article."))
		return
	}

	if err := r.ParseMultipartForm(domain.MaxUploadSize); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, errs.ErrorMessage(err)))
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) != 1 {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Exactly one cover image is required."))
		return
	}

	file, err := files[0].Open()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer file.Close()

	img := &domain.Image{
		OwnerType: domain.OwnerTypeCover,
		OwnerID:   id,
		File:      file,
		Filename:  files[0].Filename,
	}
	if err := s.is.Create(img); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := s.as.UpdateCover(article.ID, img.Path()); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	article.Cover = img.Path()

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(article); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleCreateComment handles the route "POST /article/:id/comment".
// It reads comment text from the json body and attaches the comment to the
// article for the authed user.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	comment.ArticleID = id
	comment.AuthorID = user.ID

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&comment); err != nil {
		errs.LogError(r, err)
		return
	}
}
