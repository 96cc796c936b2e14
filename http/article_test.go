package http

import (
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readly/domain"
)

func TestDeleteArticleRemovesCoverFiles(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(orig) })

	s, db := testServer(t)
	article := seedArticle(t, db, "Covered")

	img, err := s.is.CreateFromBytes(domain.OwnerTypeCover, article.ID, []byte("cover bytes"), "cover.jpeg")
	require.NoError(t, err)
	require.NoError(t, db.Model(&article).UpdateColumn("cover", img.Path()).Error)

	var author domain.User
	require.NoError(t, db.First(&author, "id = ?", article.AuthorID).Error)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/article/delete/"+strconv.Itoa(article.ID), nil)
	r = mux.SetURLVars(r, map[string]string{"id": strconv.Itoa(article.ID)})
	r = r.WithContext(s.setUserInContext(r.Context(), &author))
	s.handleDeleteArticle(w, r)

	require.Equal(t, 204, w.Code)

	err = db.First(&domain.Article{}, "id = ?", article.ID).Error
	assert.Error(t, err)

	images, err := s.is.ByOwner(domain.OwnerTypeCover, article.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestDeleteArticleByNonAuthorKeepsCover(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(orig) })

	s, db := testServer(t)
	article := seedArticle(t, db, "Kept")
	intruder := seedArticle(t, db, "Other").AuthorID

	_, err = s.is.CreateFromBytes(domain.OwnerTypeCover, article.ID, []byte("cover bytes"), "cover.jpeg")
	require.NoError(t, err)

	var user domain.User
	require.NoError(t, db.First(&user, "id = ?", intruder).Error)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("DELETE", "/article/delete/"+strconv.Itoa(article.ID), nil)
	r = mux.SetURLVars(r, map[string]string{"id": strconv.Itoa(article.ID)})
	r = r.WithContext(s.setUserInContext(r.Context(), &user))
	s.handleDeleteArticle(w, r)

	require.Equal(t, 401, w.Code)

	// Article and cover file both survive.
	require.NoError(t, db.First(&domain.Article{}, "id = ?", article.ID).Error)
	images, err := s.is.ByOwner(domain.OwnerTypeCover, article.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)
}
