package domain

import (
	"time"
)

// Like represents a many-to-many relationship between a User and an Article.
// A Like is created when a user likes an article and destroyed when they take
// the like back. The (user, article) pair is unique, so an article can be
// liked at most once per user.
type Like struct {
	ID        int     `json:"id"`
	UserID    int     `json:"user_id" gorm:"notNull;index;uniqueIndex:idx_like_user_article"`
	ArticleID int     `json:"article_id" gorm:"notNull;uniqueIndex:idx_like_user_article"`
	Article   Article `json:"article"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	// Toggle creates the like if it does not exist yet and deletes it
	// otherwise. It reports whether the like exists after the call.
	Toggle(userID, articleID int) (bool, error)
	GetOrCreate(userID, articleID int) (*Like, bool, error)
	Exists(userID, articleID int) bool
	CountByArticle(articleID int) (int, error)
}
