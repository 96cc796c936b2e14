package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two users.
// A Follow is created when one user decides to follow another user. The FollowerID
// is the ID of the user that follows, and the FollowedID is the ID of the user that
// is being followed. The (follower, followed) pair is unique. The store does not
// forbid a self-referential edge, callers are expected not to create one.
type Follow struct {
	ID         int  `json:"id"`
	FollowerID int  `json:"-" gorm:"notNull;index;uniqueIndex:idx_follower_followed"`
	Follower   User `json:"follower"`
	FollowedID int  `json:"-" gorm:"notNull;index;uniqueIndex:idx_follower_followed"`
	Followed   User `json:"followed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
	ByPair(followerID, followedID int) (*Follow, error)
	FollowedIDs(followerID int) ([]int, error)
	CountFollowers(userID int) (int, error)
	CountFollowing(userID int) (int, error)
}
