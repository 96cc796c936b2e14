package crud

import (
	"gorm.io/gorm"

	"readly/domain"
	"readly/errs"
)

// FollowService manages Follows.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

// followValidator runs validations on incoming Follow data.
// On success, it passes the data on to followGorm.
// Otherwise, it returns the error of the validation that has failed.
type followValidator struct {
	followGorm
}

// followGorm runs CRUD operations on the database using incoming Follow data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

// Ensure the FollowService struct properly implements the domain.FollowService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow database records.
func (fv *followValidator) Create(follow *domain.Follow) error {
	err := runFollowValFns(follow,
		fv.followedIsNotFollower,
		fv.followedUserExists,
		fv.notAlreadyFollowed)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(follow)
}

// Delete runs validations needed for deleting existing Follow database records.
func (fv *followValidator) Delete(follow *domain.Follow) error {
	err := runFollowValFns(follow, fv.followExists)
	if err != nil {
		return err
	}
	return fv.followGorm.Delete(follow)
}

// runFollowValFns runs any number of functions of type followValFn on the passed in Follow object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runFollowValFns(follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(follow); err != nil {
			return err
		}
	}
	return nil
}

// A followValFn is any function that takes in a pointer to a domain.Follow object and returns an error.
type followValFn func(follow *domain.Follow) error

// followedIsNotFollower rejects a user following themselves. This is a
// caller-side rule, the follows table itself does not forbid the pair.
func (fv *followValidator) followedIsNotFollower(follow *domain.Follow) error {
	if follow.FollowedID == follow.FollowerID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// followedUserExists makes sure that the user to be followed actually exists.
func (fv *followValidator) followedUserExists(follow *domain.Follow) error {
	err := fv.db.First(&domain.User{}, "id = ?", follow.FollowedID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		} else {
			return err
		}
	}
	return nil
}

// notAlreadyFollowed makes sure that the follow relationship does not exist yet.
func (fv *followValidator) notAlreadyFollowed(follow *domain.Follow) error {
	err := fv.db.
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		First(&domain.Follow{}).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already follow that user.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return nil
}

// followExists makes sure that the Follow record to be deleted actually exists.
func (fv *followValidator) followExists(follow *domain.Follow) error {
	err := fv.db.
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		First(follow).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.Errorf(errs.ENOTFOUND, "You cannot unfollow a user you are not following.")
		} else {
			return err
		}
	}
	return nil
}

// ByPair retrieves a Follow record by its (follower, followed) pair.
func (fg *followGorm) ByPair(followerID, followedID int) (*domain.Follow, error) {
	var follow domain.Follow
	err := fg.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.Errorf(errs.ENOTFOUND, "The follow does not exist.")
		} else {
			return nil, err
		}
	}
	return &follow, nil
}

// FollowedIDs returns the IDs of all users the given user is following.
func (fg *followGorm) FollowedIDs(followerID int) ([]int, error) {
	var ids []int
	err := fg.db.
		Model(&domain.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followed_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFollowers counts how many users follow the given user.
func (fg *followGorm) CountFollowers(userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountFollowing counts how many users the given user follows.
func (fg *followGorm) CountFollowing(userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Create stores the data from the Follow object in a new database record.
func (fg *followGorm) Create(follow *domain.Follow) error {
	return fg.db.Create(follow).Error
}

// Delete permanently deletes the database record matching the data from the Follow object.
func (fg *followGorm) Delete(follow *domain.Follow) error {
	return fg.db.Delete(follow).Error
}
