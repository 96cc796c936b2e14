package crud

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"readly/domain"
)

// testDB opens a fresh in-memory database with all tables migrated.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %s", err)
	}
	err = db.AutoMigrate(
		domain.User{},
		domain.Profile{},
		domain.Follow{},
		domain.Tag{},
		domain.Article{},
		domain.Comment{},
		domain.Like{},
		domain.Favorite{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %s", err)
	}
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string) domain.User {
	t.Helper()
	user := domain.User{
		Username:     username,
		Email:        username + "@example.local",
		PasswordHash: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("creating user %q: %s", username, err)
	}
	return user
}

func mustCreateArticle(t *testing.T, db *gorm.DB, authorID int, title string, createdAt time.Time, tagNames ...string) domain.Article {
	t.Helper()
	article := domain.Article{
		AuthorID:  authorID,
		Title:     title,
		Content:   "body of " + title,
		CreatedAt: createdAt,
	}
	if err := db.Omit("Tags", "Comments").Create(&article).Error; err != nil {
		t.Fatalf("creating article %q: %s", title, err)
	}
	for _, name := range tagNames {
		var tag domain.Tag
		if err := db.Where(domain.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			t.Fatalf("creating tag %q: %s", name, err)
		}
		if err := db.Model(&article).Association("Tags").Append(&tag); err != nil {
			t.Fatalf("tagging article %q: %s", title, err)
		}
	}
	return article
}

// mustLikeN creates n likes on the article from n freshly created users.
func mustLikeN(t *testing.T, db *gorm.DB, articleID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		user := mustCreateUser(t, db, fmt.Sprintf("liker%d_%d", articleID, i))
		if err := db.Create(&domain.Like{UserID: user.ID, ArticleID: articleID}).Error; err != nil {
			t.Fatalf("liking article %d: %s", articleID, err)
		}
	}
}
