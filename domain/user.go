package domain

import (
	"time"
)

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username" gorm:"uniqueIndex;size:150"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" gorm:"uniqueIndex;size:254"`

	Password     string `json:"password,omitempty" gorm:"-"`
	PasswordHash string `json:"-"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	Profile  *Profile  `json:"profile,omitempty"`
	Articles []Article `json:"articles,omitempty" gorm:"foreignKey:AuthorID"`

	// Aggregates filled in by the http layer, not stored.
	FollowerCount  int  `json:"follower_count" gorm:"-"`
	FollowingCount int  `json:"following_count" gorm:"-"`
	AuthFollows    bool `json:"auth_follows" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile holds the optional per-user presentation data. Every User gets
// exactly one Profile, created synchronously by whichever code path
// creates the User.
type Profile struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id" gorm:"uniqueIndex;notNull"`
	Avatar string `json:"avatar"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Authenticate(email, password string) (*User, error)
	ByID(id int) (*User, error)
	ByUsername(username string) (*User, error)
	ByRemember(token string) (*User, error)
	Create(user *User) error
	Update(user *User) error
	GetOrCreateProfile(user *User) (*Profile, error)
	SaveProfile(profile *Profile) error
	MakeRememberToken() (string, error)
}
