package domain

import (
	"time"
)

// Favorite marks an article as saved by a user. It behaves like Like but is
// tracked independently, with its own unique (user, article) pair.
type Favorite struct {
	ID        int     `json:"id"`
	UserID    int     `json:"user_id" gorm:"notNull;index;uniqueIndex:idx_favorite_user_article"`
	ArticleID int     `json:"article_id" gorm:"notNull;uniqueIndex:idx_favorite_user_article"`
	Article   Article `json:"article"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteService is a set of methods to manipulate and work with the Favorite model.
type FavoriteService interface {
	Toggle(userID, articleID int) (bool, error)
	GetOrCreate(userID, articleID int) (*Favorite, bool, error)
	Exists(userID, articleID int) bool
	ByUserID(userID int) ([]Article, error)
}
