package crud

import (
	"strings"

	"gorm.io/gorm"

	"readly/domain"
	"readly/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.authorIdValid,
		cv.articleExists,
		cv.textRequired)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

// runCommentValFns runs any number of functions of type commentValFn on the passed in Comment object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment object and returns an error.
type commentValFn func(comment *domain.Comment) error

// authorIdValid ensures that the authorId is not empty.
func (cv *commentValidator) authorIdValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "An author is required.")
	}
	return nil
}

// articleExists makes sure that the commented article actually exists.
func (cv *commentValidator) articleExists(comment *domain.Comment) error {
	err := cv.db.First(&domain.Article{}, "id = ?", comment.ArticleID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The commented article does not exist.")
		} else {
			return err
		}
	}
	return nil
}

// textRequired makes sure that the Comment's text is not empty.
func (cv *commentValidator) textRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Comment text must not be empty.")
	}
	return nil
}

// Create stores the data from the Comment object in a new database record.
// On success, it eager-loads the author relation, so that the json response
// displays the full data of the commenting user.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	if err := cg.db.Create(comment).Error; err != nil {
		return err
	}
	return cg.db.Preload("Author").First(comment).Error
}

// ByArticleID retrieves all comments of an article in ascending creation
// order, along with each comment's author.
func (cg *commentGorm) ByArticleID(articleID int) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := cg.db.
		Where("article_id = ?", articleID).
		Preload("Author").
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
