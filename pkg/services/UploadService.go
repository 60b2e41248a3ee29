package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

/*
UploadForm is what the upload form submits alongside the image.
*/
type UploadForm struct {
	Title       string
	Description string
	Artist      string
	Age         int
	Medium      string
	Theme       string
	ChildID     *int64
}

/*
Validate checks the form. A child must be picked whenever the parent has
child profiles.
*/
func (f UploadForm) Validate(children []models.ChildProfile) (UploadForm, error) {
	errs := ValidationErrors{}

	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Artist = strings.TrimSpace(f.Artist)

	if f.Title == "" {
		errs["title"] = "Please give the artwork a title"
	}

	if !taxonomy.Mediums.Has(f.Medium) {
		errs["medium"] = "Please choose a medium"
	}

	if f.Theme != "" && !taxonomy.Themes.Has(f.Theme) {
		errs["theme"] = "Please choose one of the themes"
	}

	if len(children) > 0 {
		found := false

		if f.ChildID != nil {
			for _, child := range children {
				if child.ID == *f.ChildID {
					found = true
					f.Artist = child.Name
					f.Age = child.Age
					break
				}
			}
		}

		if !found {
			errs["child"] = "Please choose which child made this"
		}
	} else {
		f.ChildID = nil
	}

	return f, errs.Err()
}

type UploadServicer interface {
	Upload(ctx context.Context, parentID uint, form UploadForm, image ImageUpload) (models.Artwork, error)
}

type UploadServiceConfig struct {
	ArtworkService ArtworkServicer
	ChildService   ChildServicer
	ImageService   ImageServicer
	RemoteCatalog  RemoteCatalogServicer
}

/*
UploadService runs the whole upload: validation, image storage, catalog
insert and the child's artwork count. When a remote catalog is set the
artwork is published there too.
*/
type UploadService struct {
	artworkService ArtworkServicer
	childService   ChildServicer
	imageService   ImageServicer
	remoteCatalog  RemoteCatalogServicer
}

func NewUploadService(config UploadServiceConfig) UploadService {
	return UploadService{
		artworkService: config.ArtworkService,
		childService:   config.ChildService,
		imageService:   config.ImageService,
		remoteCatalog:  config.RemoteCatalog,
	}
}

func (s UploadService) Upload(ctx context.Context, parentID uint, form UploadForm, image ImageUpload) (models.Artwork, error) {
	var (
		err      error
		uploaded UploadedImage
		artwork  models.Artwork
	)

	if parentID == 0 {
		return models.Artwork{}, ErrSignInRequired
	}

	form, formErr := form.Validate(s.childService.List(ctx, parentID))
	imageErr := ValidateImage(image)

	if formErr != nil || imageErr != nil {
		return models.Artwork{}, mergeValidation(formErr, imageErr)
	}

	if uploaded, err = s.imageService.UploadImage(parentID, image); err != nil {
		return models.Artwork{}, err
	}

	artwork, err = s.artworkService.Add(ctx, parentID, models.Artwork{
		Title:       form.Title,
		Description: form.Description,
		Artist:      form.Artist,
		Age:         form.Age,
		Medium:      form.Medium,
		Theme:       form.Theme,
		ImageURL:    uploaded.URL,
		ImageKey:    uploaded.Key,
		ChildID:     form.ChildID,
	})

	if err != nil {
		return models.Artwork{}, err
	}

	if form.ChildID != nil {
		if err = s.childService.IncrementArtworkCount(ctx, parentID, *form.ChildID); err != nil {
			slog.Error("error updating child artwork count", "error", err, "parentID", parentID, "childID", *form.ChildID)
		}
	}

	if s.remoteCatalog != nil {
		if _, err = s.remoteCatalog.CreateArtwork(parentID, artwork); err != nil {
			slog.Error("error publishing artwork to the remote catalog", "error", err, "artworkID", artwork.ID)
		}
	}

	return artwork, nil
}

func mergeValidation(errs ...error) error {
	result := ValidationErrors{}

	for _, err := range errs {
		var v ValidationErrors

		if errors.As(err, &v) {
			for field, message := range v {
				result[field] = message
			}
		}
	}

	return result.Err()
}
