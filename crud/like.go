package crud

import (
	"gorm.io/gorm"

	"readly/domain"
	"readly/errs"
)

// LikeService manages Likes.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
// Otherwise, it returns the error of the validation that has failed.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

// Ensure the LikeService struct properly implements the domain.LikeService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.LikeService = &LikeService{}

// Toggle runs validations needed for toggling a Like.
func (lv *likeValidator) Toggle(userID, articleID int) (bool, error) {
	if err := lv.userIdValid(userID); err != nil {
		return false, err
	}
	if err := lv.likedArticleExists(articleID); err != nil {
		return false, err
	}
	return lv.likeGorm.Toggle(userID, articleID)
}

// GetOrCreate runs validations needed for idempotently creating a Like.
func (lv *likeValidator) GetOrCreate(userID, articleID int) (*domain.Like, bool, error) {
	if err := lv.userIdValid(userID); err != nil {
		return nil, false, err
	}
	if err := lv.likedArticleExists(articleID); err != nil {
		return nil, false, err
	}
	return lv.likeGorm.GetOrCreate(userID, articleID)
}

// userIdValid ensures that the userId is not empty.
func (lv *likeValidator) userIdValid(userID int) error {
	if userID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user is required.")
	}
	return nil
}

// likedArticleExists makes sure that the article to be liked actually exists.
func (lv *likeValidator) likedArticleExists(articleID int) error {
	err := lv.db.First(&domain.Article{}, "id = ?", articleID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The liked article does not exist.")
		} else {
			return err
		}
	}
	return nil
}

// Toggle creates the like if missing and deletes it otherwise.
// It reports whether the like exists after the call.
func (lg *likeGorm) Toggle(userID, articleID int) (bool, error) {
	like, created, err := lg.GetOrCreate(userID, articleID)
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}
	return false, lg.db.Delete(like).Error
}

// GetOrCreate returns the (user, article) like, creating it if it does not
// exist yet. A duplicate create is a no-op thanks to the unique pair index;
// the second return value reports whether a new record was created.
func (lg *likeGorm) GetOrCreate(userID, articleID int) (*domain.Like, bool, error) {
	var like domain.Like
	err := lg.db.
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&like).Error
	if err == nil {
		return &like, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}
	like = domain.Like{UserID: userID, ArticleID: articleID}
	if err := lg.db.Create(&like).Error; err != nil {
		return nil, false, err
	}
	return &like, true, nil
}

// Exists reports whether the given user likes the given article.
func (lg *likeGorm) Exists(userID, articleID int) bool {
	err := lg.db.
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&domain.Like{}).Error
	return err == nil
}

// CountByArticle counts the likes of a single article.
func (lg *likeGorm) CountByArticle(articleID int) (int, error) {
	var count int64
	err := lg.db.Model(&domain.Like{}).Where("article_id = ?", articleID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
