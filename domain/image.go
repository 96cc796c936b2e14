package domain

import (
	"fmt"
	"mime/multipart"
	"net/url"
)

const (
	// OwnerTypeAvatar expresses that an Image is a user's avatar.
	OwnerTypeAvatar = "avatar"
	// OwnerTypeCover expresses that an Image is an article's cover.
	OwnerTypeCover = "cover"
	// ImagesBaseDir determines the general storage location of uploaded images.
	ImagesBaseDir = "images"
	// MaxUploadSize determines the maximum filesize of an image to be uploaded.
	MaxUploadSize int64 = 5 << 20 // 5 Megabyte
	// MaxImageNameLen is the longest filename kept when storing an image;
	// anything longer is truncated.
	MaxImageNameLen = 120
)

// Image represents an image stored as a file in the filesystem; there is no
// dedicated database table. Every Image belongs to an owner record, resolved
// through the file's location: the avatar of the User with ID 1 lives under
// images/avatar/1/, the cover of the Article with ID 2 under images/cover/2/.
// URL contains the web path to the stored file. File holds the actual bytes
// while an upload is being processed.
type Image struct {
	URL         string         `json:"url"`
	OwnerType   string         `json:"-"`
	OwnerID     int            `json:"-"`
	File        multipart.File `json:"-"`
	Filename    string         `json:"-"`
	Extension   string         `json:"-"`
	ContentType string         `json:"-"`
	Size        int64          `json:"-"`
}

// ImageService is a set of methods to manipulate and work with the Image model
// and respective image files.
type ImageService interface {
	Create(image *Image) error
	// CreateFromBytes stores raw image bytes under the owner's directory
	// and returns the stored Image. The filename is truncated to
	// MaxImageNameLen before storing. Used for bulk asset imports.
	CreateFromBytes(ownerType string, ownerID int, data []byte, filename string) (*Image, error)
	ByOwner(ownerType string, ownerID int) ([]Image, error)
	Delete(i *Image) error
}

// Path returns the url-encoded path of an image stored in the filesystem.
func (i *Image) Path() string {
	temp := url.URL{
		Path: "/" + i.RelativePath(),
	}
	return temp.String()
}

// RelativePath returns the relative path to an image stored in the filesystem.
func (i *Image) RelativePath() string {
	return fmt.Sprintf("%v/%v/%v/%v", ImagesBaseDir, i.OwnerType, i.OwnerID, i.Filename)
}
