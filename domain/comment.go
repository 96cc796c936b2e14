package domain

import "time"

// Comment belongs to exactly one Article and one author User.
type Comment struct {
	ID        int    `json:"id"`
	ArticleID int    `json:"article_id" gorm:"notNull;index"`
	AuthorID  int    `json:"author_id" gorm:"notNull;index"`
	Author    User   `json:"author" gorm:"foreignKey:AuthorID"`
	Text      string `json:"text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	Create(comment *Comment) error
	ByArticleID(articleID int) ([]Comment, error)
}
