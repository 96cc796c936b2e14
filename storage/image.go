package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"readly/domain"
	"readly/errs"
)

var _ domain.ImageService = &ImageService{}

// NewImageService returns an instance of ImageService.
func NewImageService() *ImageService {
	return &ImageService{
		imageValidator{
			imageCrud{},
		},
	}
}

// ImageService stores avatar and cover images as files in the filesystem.
// It implements the domain.ImageService interface.
type ImageService struct {
	imageValidator
}

type imageValidator struct {
	imageCrud
}

type imageCrud struct{}

func (iv *imageValidator) Create(img *domain.Image) error {
	err := runImageValFns(img,
		iv.extensionValid,
		iv.contentTypeValid,
		iv.contentTypeExtensionMatch,
		iv.belowMaxSize,
		iv.fileNameUnique,
	)
	if err != nil {
		return err
	}
	return iv.imageCrud.Create(img)
}

// CreateFromBytes stores raw image bytes under the owner's directory. The
// original filename is kept, truncated to domain.MaxImageNameLen. Unlike
// Create it skips upload validation, the bytes come from a trusted local
// asset pool.
func (iv *imageValidator) CreateFromBytes(ownerType string, ownerID int, data []byte, filename string) (*domain.Image, error) {
	filename = truncateName(filename, domain.MaxImageNameLen)
	img := &domain.Image{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		Filename:  filename,
	}
	if err := iv.imageCrud.write(img, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	img.URL = img.Path()
	return img, nil
}

type imageValFn func(img *domain.Image) error

func runImageValFns(img *domain.Image, fns ...imageValFn) error {
	for _, fn := range fns {
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

func (iv *imageValidator) belowMaxSize(img *domain.Image) error {
	size, err := img.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(img); err != nil {
		return err
	}
	if size > domain.MaxUploadSize {
		return errs.Errorf(
			errs.EINVALID,
			"Image "+img.Filename+" exceeds upload size limit of "+strconv.FormatInt(domain.MaxUploadSize/1000000, 10)+"MB.",
		)
	}
	return nil
}

func (iv *imageValidator) contentTypeValid(img *domain.Image) error {
	buffer := make([]byte, 512)
	_, err := img.File.Read(buffer)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(img); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return errs.Errorf(
			errs.EINVALID,
			"Image "+img.Filename+" invalid content-type, must be image/jpeg or image/png.",
		)
	}
	img.ContentType = contentType
	return nil
}

func (iv *imageValidator) contentTypeExtensionMatch(img *domain.Image) error {
	contentType := strings.TrimPrefix(img.ContentType, "image/")
	ext := strings.TrimPrefix(img.Extension, ".")
	if contentType != ext {
		return errs.Errorf(
			errs.EINVALID,
			"Image "+img.Filename+" content-type "+img.ContentType+" does not match extension "+img.Extension+".",
		)
	}
	return nil
}

func (iv *imageValidator) extensionValid(img *domain.Image) error {
	ext := filepath.Ext(img.Filename)
	ext = strings.ToLower(ext)
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return errs.Errorf(
			errs.EINVALID,
			"Image "+img.Filename+" invalid extension, must be .jpeg or .png",
		)
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	img.Extension = ext
	return nil
}

func (iv *imageValidator) fileNameUnique(img *domain.Image) error {
	timestamp := time.Now().UnixMicro()
	img.Filename = strconv.FormatInt(timestamp, 10) + img.Extension
	return nil
}

// resetReaderPosition back to beginning of the file, so that subsequent reads will work.
func resetReaderPosition(img *domain.Image) error {
	_, err := img.File.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}
	return nil
}

// truncateName shortens a filename to max characters while keeping its extension.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) >= max {
		return name[:max]
	}
	return name[:max-len(ext)] + ext
}

func (ic *imageCrud) Create(img *domain.Image) error {
	return ic.write(img, img.File)
}

func (ic *imageCrud) write(img *domain.Image, r io.Reader) error {
	path, err := ic.mkImagePath(img.OwnerType, img.OwnerID)
	if err != nil {
		return err
	}
	dst, err := os.Create(path + img.Filename)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, r)
	if err != nil {
		return err
	}
	return nil
}

func (ic *imageCrud) ByOwner(ownerType string, ownerID int) ([]domain.Image, error) {
	path := ic.imagePath(ownerType, ownerID)
	imgStrings, err := filepath.Glob(path + "*")
	if err != nil {
		return nil, err
	}
	ret := make([]domain.Image, len(imgStrings))
	for i := range ret {
		imgStrings[i] = strings.Replace(imgStrings[i], path, "", 1)
		ret[i] = domain.Image{
			URL:       path + imgStrings[i],
			OwnerType: ownerType,
			OwnerID:   ownerID,
			Filename:  imgStrings[i],
		}
	}
	return ret, nil
}

func (ic *imageCrud) Delete(i *domain.Image) error {
	return os.Remove(i.RelativePath())
}

func (ic *imageCrud) mkImagePath(ownerType string, ownerID int) (string, error) {
	imagePath := ic.imagePath(ownerType, ownerID)
	err := os.MkdirAll(imagePath, 0755)
	if err != nil {
		return "", err
	}
	return imagePath, nil
}

func (ic *imageCrud) imagePath(ownerType string, ownerID int) string {
	return fmt.Sprintf("%v/%v/%v/", domain.ImagesBaseDir, ownerType, ownerID)
}
