package crud

import (
	"strings"

	"gorm.io/gorm"

	"readly/domain"
	"readly/errs"
)

// ArticleService manages Articles and their Tags.
// It implements the domain.ArticleService interface.
type ArticleService struct {
	articleValidator
}

// articleValidator runs validations on incoming Article data.
// On success, it passes the data on to articleGorm.
// Otherwise, it returns the error of the validation that has failed.
type articleValidator struct {
	articleGorm
}

// articleGorm runs CRUD operations on the database using incoming Article data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type articleGorm struct {
	db *gorm.DB
}

// NewArticleService returns an instance of ArticleService.
func NewArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{
		articleValidator{
			articleGorm{
				db: db,
			},
		},
	}
}

// Ensure the ArticleService struct properly implements the domain.ArticleService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ArticleService = &ArticleService{}

// Create runs validations needed for creating new Article database records.
func (av *articleValidator) Create(article *domain.Article, tagNames []string) error {
	err := runArticleValFns(article,
		av.authorIdValid,
		av.titleRequired,
		av.contentRequired)
	if err != nil {
		return err
	}
	return av.articleGorm.Create(article, tagNames)
}

// Delete runs validations needed for deleting existing Article database records.
func (av *articleValidator) Delete(article *domain.Article) error {
	err := runArticleValFns(article, av.idValid)
	if err != nil {
		return err
	}
	return av.articleGorm.Delete(article)
}

// runArticleValFns runs any number of functions of type articleValFn on the passed in Article object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runArticleValFns(article *domain.Article, fns ...articleValFn) error {
	for _, fn := range fns {
		if err := fn(article); err != nil {
			return err
		}
	}
	return nil
}

// An articleValFn is any function that takes in a pointer to a domain.Article object and returns an error.
type articleValFn = func(article *domain.Article) error

// authorIdValid ensures that the authorId is not empty.
func (av *articleValidator) authorIdValid(article *domain.Article) error {
	if article.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "An author is required.")
	}
	return nil
}

// titleRequired makes sure that the Article's title is not empty.
func (av *articleValidator) titleRequired(article *domain.Article) error {
	if strings.TrimSpace(article.Title) == "" {
		return errs.Errorf(errs.EINVALID, "A title is required.")
	}
	return nil
}

// contentRequired makes sure that the Article's content is not empty.
func (av *articleValidator) contentRequired(article *domain.Article) error {
	if strings.TrimSpace(article.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Article content must not be empty.")
	}
	return nil
}

// idValid makes sure that the passed in ID of an Article to be deleted is greater than 0.
func (av *articleValidator) idValid(article *domain.Article) error {
	if article.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid article ID.")
	}
	return nil
}

// Create stores the data from the Article object in a new database record
// and attaches the named tags, creating missing ones by name. The article
// and its tag associations are written in a single transaction.
func (ag *articleGorm) Create(article *domain.Article, tagNames []string) error {
	return ag.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Comments").Create(article).Error; err != nil {
			return err
		}
		for _, name := range tagNames {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			var tag domain.Tag
			if err := tx.Where(domain.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return err
			}
			if err := tx.Model(article).Association("Tags").Append(&tag); err != nil {
				return err
			}
		}
		return tx.Preload("Author").Preload("Tags").First(article).Error
	})
}

// Delete deletes an Article record from the database, along with its
// associated Comments, Likes and Favorites.
func (ag *articleGorm) Delete(article *domain.Article) error {
	return ag.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(article).Error
	})
}

// UpdateCover updates a single article's cover path by primary key.
func (ag *articleGorm) UpdateCover(articleID int, cover string) error {
	return ag.db.Model(&domain.Article{}).Where("id = ?", articleID).Update("cover", cover).Error
}

// ByID retrieves a single Article by ID, along with its author, tags and
// per-article like and comment counts.
func (ag *articleGorm) ByID(id int) (*domain.Article, error) {
	var article domain.Article
	err := withCounts(ag.db).
		Preload("Author").
		Preload("Tags").
		First(&article, "articles.id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The article does not exist.")
		} else {
			return nil, err
		}
	}
	return &article, nil
}

// ByAuthorID retrieves all articles written by the given user, newest first.
func (ag *articleGorm) ByAuthorID(authorID int) ([]domain.Article, error) {
	var articles []domain.Article
	err := withCounts(ag.db).
		Where("author_id = ?", authorID).
		Preload("Author").
		Preload("Tags").
		Order("articles.created_at desc").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// Search retrieves articles whose title, content or any tag name contains
// the given term, case-insensitively, newest first. An article matching on
// several tags is returned once.
func (ag *articleGorm) Search(term string) ([]domain.Article, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	pattern := "%" + strings.ToLower(term) + "%"
	var articles []domain.Article
	err := withCounts(ag.db).
		Joins("LEFT JOIN article_tags ON article_tags.article_id = articles.id").
		Joins("LEFT JOIN tags ON tags.id = article_tags.tag_id").
		Where("LOWER(articles.title) LIKE ? OR LOWER(articles.content) LIKE ? OR LOWER(tags.name) LIKE ?",
			pattern, pattern, pattern).
		Group("articles.id").
		Preload("Author").
		Preload("Tags").
		Order("articles.created_at desc").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// GetOrCreateTag returns the tag with the given name, creating it if needed.
func (ag *articleGorm) GetOrCreateTag(name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := ag.db.Where(domain.Tag{Name: strings.TrimSpace(name)}).FirstOrCreate(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// CountLikesReceived counts the likes across all articles written by the given user.
func (ag *articleGorm) CountLikesReceived(authorID int) (int, error) {
	var count int64
	err := ag.db.
		Model(&domain.Like{}).
		Joins("JOIN articles ON articles.id = likes.article_id").
		Where("articles.author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountCommentsReceived counts the comments across all articles written by the given user.
func (ag *articleGorm) CountCommentsReceived(authorID int) (int, error) {
	var count int64
	err := ag.db.
		Model(&domain.Comment{}).
		Joins("JOIN articles ON articles.id = comments.article_id").
		Where("articles.author_id = ?", authorID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// withCounts selects articles together with their like and comment counts.
// The counts are computed at query time by correlated subqueries and scanned
// into the read-only LikeCount / CommentCount fields.
func withCounts(db *gorm.DB) *gorm.DB {
	return db.
		Model(&domain.Article{}).
		Select("articles.*, " +
			"(SELECT COUNT(*) FROM likes WHERE likes.article_id = articles.id) AS like_count, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id) AS comment_count")
}
