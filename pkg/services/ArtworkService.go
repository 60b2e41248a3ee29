package services

import (
	"context"
	"strings"
	"time"

	"github.com/mvicenzino/kidzart/pkg/gallery"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

const (
	DefaultArtistName = "Anonymous Artist"
	DefaultTheme      = "imaginative-play"
	DefaultArtistAge  = 5
)

type ArtworkServicer interface {
	List(ctx context.Context, parentID uint) []models.Artwork
	Highlighted(ctx context.Context, parentID uint) []models.Artwork
	Browsable(ctx context.Context, parentID uint) []models.Artwork
	UserArtworks(ctx context.Context, parentID uint) []models.Artwork
	UploadsLoadErr(ctx context.Context, parentID uint) error
	ByChild(ctx context.Context, parentID uint, childID int64) []models.Artwork
	Get(ctx context.Context, parentID uint, id int64) (models.Artwork, error)
	Add(ctx context.Context, parentID uint, artwork models.Artwork) (models.Artwork, error)
	Update(ctx context.Context, parentID uint, id int64, patch models.ArtworkPatch) (models.Artwork, error)
	Delete(ctx context.Context, parentID uint, id int64) error
	Like(ctx context.Context, parentID uint, id int64) (models.Artwork, error)
}

type ArtworkServiceConfig struct {
	Collections *CollectionRegistry
	Seed        []models.Artwork
	Now         func() time.Time
}

/*
ArtworkService is the artwork catalog: a parent's uploads, newest first,
followed by the seed catalog. Artwork without an image is never listed.
*/
type ArtworkService struct {
	collections *CollectionRegistry
	seed        []models.Artwork
	now         func() time.Time
}

func NewArtworkService(config ArtworkServiceConfig) ArtworkService {
	if config.Now == nil {
		config.Now = time.Now
	}

	return ArtworkService{
		collections: config.Collections,
		seed:        config.Seed,
		now:         config.Now,
	}
}

func (s ArtworkService) List(ctx context.Context, parentID uint) []models.Artwork {
	uploads := s.UserArtworks(ctx, parentID)
	result := make([]models.Artwork, 0, len(uploads)+len(s.seed))

	for _, artwork := range uploads {
		if artwork.HasImage() {
			result = append(result, artwork)
		}
	}

	for _, artwork := range s.seed {
		if artwork.HasImage() {
			result = append(result, artwork)
		}
	}

	return result
}

func (s ArtworkService) Highlighted(ctx context.Context, parentID uint) []models.Artwork {
	highlighted, _ := gallery.Partition(s.List(ctx, parentID))
	return highlighted
}

func (s ArtworkService) Browsable(ctx context.Context, parentID uint) []models.Artwork {
	_, browsable := gallery.Partition(s.List(ctx, parentID))
	return browsable
}

// UserArtworks returns the parent's uploads, including any without an image.
func (s ArtworkService) UserArtworks(ctx context.Context, parentID uint) []models.Artwork {
	if parentID == 0 {
		return []models.Artwork{}
	}

	return s.collections.Artworks(ctx, parentID).All()
}

/*
UploadsLoadErr is non-nil when the parent's stored uploads exist but could
not be read, in which case UserArtworks is not the full set.
*/
func (s ArtworkService) UploadsLoadErr(ctx context.Context, parentID uint) error {
	if parentID == 0 {
		return nil
	}

	return s.collections.Artworks(ctx, parentID).LoadErr()
}

func (s ArtworkService) ByChild(ctx context.Context, parentID uint, childID int64) []models.Artwork {
	result := []models.Artwork{}

	for _, artwork := range s.UserArtworks(ctx, parentID) {
		if artwork.BelongsTo(childID) {
			result = append(result, artwork)
		}
	}

	return result
}

func (s ArtworkService) Get(ctx context.Context, parentID uint, id int64) (models.Artwork, error) {
	for _, artwork := range s.List(ctx, parentID) {
		if artwork.ID == id {
			return artwork, nil
		}
	}

	return models.Artwork{}, ErrArtworkNotFound
}

/*
Add stores a new upload for the parent. The artwork is stamped as a user
upload and gets an age group from the artist's age when it has none.
*/
func (s ArtworkService) Add(ctx context.Context, parentID uint, artwork models.Artwork) (models.Artwork, error) {
	if parentID == 0 {
		return models.Artwork{}, ErrSignInRequired
	}

	uploadedAt := s.now().UTC()

	artwork.IsUserUpload = true
	artwork.UploadedAt = &uploadedAt

	if strings.TrimSpace(artwork.Artist) == "" {
		artwork.Artist = DefaultArtistName
	}

	if artwork.Age <= 0 {
		artwork.Age = DefaultArtistAge
	}

	if artwork.Theme == "" {
		artwork.Theme = DefaultTheme
	}

	if artwork.AgeGroup == "" {
		artwork.AgeGroup = taxonomy.AgeGroupForAge(artwork.Age)
	}

	return s.collections.Artworks(ctx, parentID).Add(ctx, artwork), nil
}

func (s ArtworkService) Update(ctx context.Context, parentID uint, id int64, patch models.ArtworkPatch) (models.Artwork, error) {
	if parentID == 0 {
		return models.Artwork{}, ErrSignInRequired
	}

	updated, ok := s.collections.Artworks(ctx, parentID).Update(ctx, id, patch.Apply)

	if !ok {
		return models.Artwork{}, s.missing(id)
	}

	return updated, nil
}

func (s ArtworkService) Delete(ctx context.Context, parentID uint, id int64) error {
	if parentID == 0 {
		return ErrSignInRequired
	}

	if !s.collections.Artworks(ctx, parentID).Remove(ctx, id) {
		return s.missing(id)
	}

	return nil
}

func (s ArtworkService) Like(ctx context.Context, parentID uint, id int64) (models.Artwork, error) {
	if parentID == 0 {
		return models.Artwork{}, ErrSignInRequired
	}

	updated, ok := s.collections.Artworks(ctx, parentID).Update(ctx, id, func(a models.Artwork) models.Artwork {
		a.Likes++
		return a
	})

	if !ok {
		return models.Artwork{}, s.missing(id)
	}

	return updated, nil
}

func (s ArtworkService) missing(id int64) error {
	for _, artwork := range s.seed {
		if artwork.ID == id {
			return ErrNotUserUpload
		}
	}

	return ErrArtworkNotFound
}
