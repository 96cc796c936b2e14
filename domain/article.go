package domain

import (
	"time"
)

type Article struct {
	ID       int    `json:"id"`
	AuthorID int    `json:"author_id" gorm:"notNull;index"`
	Author   User   `json:"author" gorm:"foreignKey:AuthorID"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Cover    string `json:"cover"`

	Tags     []Tag     `json:"tags" gorm:"many2many:article_tags"`
	Comments []Comment `json:"comments,omitempty"`

	// Read-only aggregates computed per query, never migrated or written.
	LikeCount    int `json:"like_count" gorm:"->;-:migration"`
	CommentCount int `json:"comment_count" gorm:"->;-:migration"`

	// Viewer state, filled in by the http layer.
	AuthLiked     bool `json:"auth_liked" gorm:"-"`
	AuthFavorited bool `json:"auth_favorited" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a unique name attached to any number of articles.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name" gorm:"uniqueIndex;size:64;notNull"`

	CreatedAt time.Time `json:"created_at"`
}

// ArticleService is a set of methods to manipulate and work with the Article model.
type ArticleService interface {
	Create(article *Article, tagNames []string) error
	Delete(article *Article) error
	UpdateCover(articleID int, cover string) error
	ByID(id int) (*Article, error)
	ByAuthorID(authorID int) ([]Article, error)
	Search(term string) ([]Article, error)
	GetOrCreateTag(name string) (*Tag, error)
	CountLikesReceived(authorID int) (int, error)
	CountCommentsReceived(authorID int) (int, error)
}
