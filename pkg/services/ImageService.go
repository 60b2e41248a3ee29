package services

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/putoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/google/uuid"
)

const (
	MaxImageBytes = 10 * 1024 * 1024
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AllowedImageTypes lists the content types accepted for upload.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type ImageServicer interface {
	UploadImage(parentID uint, upload ImageUpload) (UploadedImage, error)
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadedImage struct {
	Key string
	URL string
}

/*
ValidateImage checks the content type and size of an upload before any
bytes are sent to storage.
*/
func ValidateImage(upload ImageUpload) error {
	errs := ValidationErrors{}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))

	switch {
	case upload.Body == nil || upload.Size == 0:
		errs["image"] = "Please choose an image to upload"
	case !slices.IsInSlice(contentType, AllowedImageTypes):
		errs["image"] = "Please upload a JPEG, PNG, GIF or WebP image"
	case upload.Size > MaxImageBytes:
		errs["image"] = "Images must be 10MB or smaller"
	}

	return errs.Err()
}

/*
OriginalKey builds the object key of an uploaded original. Every upload
gets a fresh random name so two uploads never collide.
*/
func OriginalKey(folder string, parentID uint, contentType string) string {
	ext := imageExtensions[strings.ToLower(contentType)]
	return path.Join(folder, fmt.Sprint(parentID), "originals", uuid.NewString()+ext)
}

type ImageServiceConfig struct {
	Bucket        string
	Folder        string
	PublicBaseURL string
	S3Client      s3.S3Client
}

type ImageService struct {
	bucket        string
	folder        string
	publicBaseURL string
	s3Client      s3.S3Client
}

func NewImageService(config ImageServiceConfig) ImageService {
	return ImageService{
		bucket:        config.Bucket,
		folder:        config.Folder,
		publicBaseURL: strings.TrimSuffix(config.PublicBaseURL, "/"),
		s3Client:      config.S3Client,
	}
}

func (s ImageService) UploadImage(parentID uint, upload ImageUpload) (UploadedImage, error) {
	var (
		err error
		url string
	)

	if err = ValidateImage(upload); err != nil {
		return UploadedImage{}, err
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	key := OriginalKey(s.folder, parentID, contentType)

	stream, err := s.s3Client.PutStream(s.bucket, key, putoptions.WithContentType(contentType))

	if err != nil {
		return UploadedImage{}, fmt.Errorf("error opening upload stream for '%s': %w", key, err)
	}

	if _, err = io.Copy(stream.Writer, upload.Body); err != nil {
		_ = stream.Writer.Close()
		return UploadedImage{}, fmt.Errorf("error uploading image '%s': %w", key, err)
	}

	if err = stream.Writer.Close(); err != nil {
		return UploadedImage{}, fmt.Errorf("error finishing upload of '%s': %w", key, err)
	}

	if _, err = stream.Wait(); err != nil {
		return UploadedImage{}, fmt.Errorf("error waiting for upload of '%s': %w", key, err)
	}

	if url, err = s.urlFor(key); err != nil {
		return UploadedImage{}, err
	}

	slog.Info("uploaded artwork image", "parentID", parentID, "key", key, "size", upload.Size)
	return UploadedImage{Key: key, URL: url}, nil
}

func (s ImageService) urlFor(key string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}

	u, err := s.s3Client.GetUrl(s.bucket, key)

	if err != nil {
		return "", fmt.Errorf("error getting URL for '%s': %w", key, err)
	}

	return u, nil
}
