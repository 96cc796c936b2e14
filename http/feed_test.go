package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"readly/crud"
	"readly/domain"
	"readly/storage"
)

func testServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Profile{}, &domain.Follow{},
		&domain.Article{}, &domain.Tag{}, &domain.Comment{},
		&domain.Like{}, &domain.Favorite{},
	))

	services, err := crud.NewServices(db,
		crud.WithUser("test-hmac-key", "test-pepper"),
		crud.WithArticle(),
		crud.WithComment(),
		crud.WithFollow(),
		crud.WithLike(),
		crud.WithFavorite(),
		crud.WithFeed(),
	)
	require.NoError(t, err)
	s := &Server{
		us:    services.User,
		as:    services.Article,
		cs:    services.Comment,
		fs:    services.Follow,
		ls:    services.Like,
		favs:  services.Favorite,
		feeds: services.Feed,
		is:    storage.NewImageService(),
	}
	return s, db
}

func seedArticle(t *testing.T, db *gorm.DB, title string) domain.Article {
	t.Helper()
	user := domain.User{
		Username:     "author-" + title,
		Email:        "author-" + title + "@example.local",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	article := domain.Article{AuthorID: user.ID, Title: title, Content: "body"}
	require.NoError(t, db.Omit("Tags", "Comments").Create(&article).Error)
	return article
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{"7", 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parsePage(tt.raw), "raw %q", tt.raw)
	}
}

func TestHandleHomeFullResponse(t *testing.T) {
	s, db := testServer(t)
	seedArticle(t, db, "First")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/?segment=new&page=1", nil)
	s.handleHome(w, r)

	require.Equal(t, 200, w.Code)
	var feed domain.Feed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Equal(t, domain.SegmentNew, feed.Segment)
	assert.Equal(t, 1, feed.Page)
	require.Len(t, feed.Articles, 1)
	assert.Equal(t, "First", feed.Articles[0].Title)
}

func TestHandleHomePartialReturnsArticleListOnly(t *testing.T) {
	s, db := testServer(t)
	seedArticle(t, db, "First")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/?partial=1", nil)
	s.handleHome(w, r)

	require.Equal(t, 200, w.Code)
	var articles []domain.Article
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "First", articles[0].Title)
}

func TestHandleHomeBadPageFallsBackToFirst(t *testing.T) {
	s, db := testServer(t)
	seedArticle(t, db, "First")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/?page=banana", nil)
	s.handleHome(w, r)

	require.Equal(t, 200, w.Code)
	var feed domain.Feed
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Equal(t, 1, feed.Page)
	assert.Len(t, feed.Articles, 1)
}

func TestHandleSearch(t *testing.T) {
	s, db := testServer(t)
	seedArticle(t, db, "Go concurrency patterns")
	seedArticle(t, db, "Gardening basics")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/search?q=concurrency", nil)
	s.handleSearch(w, r)

	require.Equal(t, 200, w.Code)
	var resp struct {
		Query   string           `json:"query"`
		Results []domain.Article `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "concurrency", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Go concurrency patterns", resp.Results[0].Title)
}
