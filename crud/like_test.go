package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readly/domain"
	"readly/errs"
)

func TestLikeGetOrCreateIsIdempotent(t *testing.T) {
	db := testDB(t)
	user := mustCreateUser(t, db, "liker")
	article := mustCreateArticle(t, db, user.ID, "likable", time.Now().UTC())
	ls := NewLikeService(db)

	_, created, err := ls.GetOrCreate(user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, created)

	// A duplicate draw is a no-op, not an error.
	_, created, err = ls.GetOrCreate(user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := ls.CountByArticle(article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLikeToggle(t *testing.T) {
	db := testDB(t)
	user := mustCreateUser(t, db, "toggler")
	article := mustCreateArticle(t, db, user.ID, "toggled", time.Now().UTC())
	ls := NewLikeService(db)

	liked, err := ls.Toggle(user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, ls.Exists(user.ID, article.ID))

	liked, err = ls.Toggle(user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.False(t, ls.Exists(user.ID, article.ID))
}

func TestLikeMissingArticleIsNotFound(t *testing.T) {
	db := testDB(t)
	user := mustCreateUser(t, db, "liker")

	_, _, err := NewLikeService(db).GetOrCreate(user.ID, 12345)
	require.Error(t, err)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestFavoriteGetOrCreateIsIdempotent(t *testing.T) {
	db := testDB(t)
	user := mustCreateUser(t, db, "saver")
	article := mustCreateArticle(t, db, user.ID, "savable", time.Now().UTC())
	fs := NewFavoriteService(db)

	_, created, err := fs.GetOrCreate(user.ID, article.ID)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = fs.GetOrCreate(user.ID, article.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&domain.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFavoritesListNewestFirst(t *testing.T) {
	db := testDB(t)
	author := mustCreateUser(t, db, "author")
	saver := mustCreateUser(t, db, "saver")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	older := mustCreateArticle(t, db, author.ID, "older", base)
	newer := mustCreateArticle(t, db, author.ID, "newer", base.Add(time.Hour))
	mustCreateArticle(t, db, author.ID, "unsaved", base.Add(2*time.Hour))

	fs := NewFavoriteService(db)
	_, _, err := fs.GetOrCreate(saver.ID, older.ID)
	require.NoError(t, err)
	_, _, err = fs.GetOrCreate(saver.ID, newer.ID)
	require.NoError(t, err)

	saved, err := fs.ByUserID(saver.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, newer.ID, saved[0].ID)
	assert.Equal(t, older.ID, saved[1].ID)
}
