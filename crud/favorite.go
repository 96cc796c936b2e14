package crud

import (
	"gorm.io/gorm"

	"readly/domain"
	"readly/errs"
)

// FavoriteService manages Favorites.
// It implements the domain.FavoriteService interface.
type FavoriteService struct {
	favoriteValidator
}

// favoriteValidator runs validations on incoming Favorite data.
// On success, it passes the data on to favoriteGorm.
// Otherwise, it returns the error of the validation that has failed.
type favoriteValidator struct {
	favoriteGorm
}

// favoriteGorm runs CRUD operations on the database using incoming Favorite data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type favoriteGorm struct {
	db *gorm.DB
}

// NewFavoriteService returns an instance of FavoriteService.
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{
		favoriteValidator{
			favoriteGorm{
				db: db,
			},
		},
	}
}

var _ domain.FavoriteService = &FavoriteService{}

// Toggle runs validations needed for toggling a Favorite.
func (fv *favoriteValidator) Toggle(userID, articleID int) (bool, error) {
	if err := fv.userIdValid(userID); err != nil {
		return false, err
	}
	if err := fv.favoritedArticleExists(articleID); err != nil {
		return false, err
	}
	return fv.favoriteGorm.Toggle(userID, articleID)
}

// GetOrCreate runs validations needed for idempotently creating a Favorite.
func (fv *favoriteValidator) GetOrCreate(userID, articleID int) (*domain.Favorite, bool, error) {
	if err := fv.userIdValid(userID); err != nil {
		return nil, false, err
	}
	if err := fv.favoritedArticleExists(articleID); err != nil {
		return nil, false, err
	}
	return fv.favoriteGorm.GetOrCreate(userID, articleID)
}

// userIdValid ensures that the userId is not empty.
func (fv *favoriteValidator) userIdValid(userID int) error {
	if userID <= 0 {
		return errs.Errorf(errs.EINVALID, "A user is required.")
	}
	return nil
}

// favoritedArticleExists makes sure that the article to be saved actually exists.
func (fv *favoriteValidator) favoritedArticleExists(articleID int) error {
	err := fv.db.First(&domain.Article{}, "id = ?", articleID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The saved article does not exist.")
		} else {
			return err
		}
	}
	return nil
}

// Toggle creates the favorite if missing and deletes it otherwise.
// It reports whether the favorite exists after the call.
func (fg *favoriteGorm) Toggle(userID, articleID int) (bool, error) {
	favorite, created, err := fg.GetOrCreate(userID, articleID)
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}
	return false, fg.db.Delete(favorite).Error
}

// GetOrCreate returns the (user, article) favorite, creating it if it does
// not exist yet. A duplicate create is a no-op thanks to the unique pair
// index; the second return value reports whether a new record was created.
func (fg *favoriteGorm) GetOrCreate(userID, articleID int) (*domain.Favorite, bool, error) {
	var favorite domain.Favorite
	err := fg.db.
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&favorite).Error
	if err == nil {
		return &favorite, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}
	favorite = domain.Favorite{UserID: userID, ArticleID: articleID}
	if err := fg.db.Create(&favorite).Error; err != nil {
		return nil, false, err
	}
	return &favorite, true, nil
}

// Exists reports whether the given user has saved the given article.
func (fg *favoriteGorm) Exists(userID, articleID int) bool {
	err := fg.db.
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&domain.Favorite{}).Error
	return err == nil
}

// ByUserID retrieves all articles saved by the given user, newest first,
// with their authors, tags and interaction counts.
func (fg *favoriteGorm) ByUserID(userID int) ([]domain.Article, error) {
	var articles []domain.Article
	err := withCounts(fg.db).
		Joins("JOIN favorites ON favorites.article_id = articles.id").
		Where("favorites.user_id = ?", userID).
		Preload("Author").
		Preload("Tags").
		Order("articles.created_at desc").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}
