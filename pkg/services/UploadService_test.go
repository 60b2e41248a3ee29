package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	uploads int
	err     error
}

func (f *fakeImages) UploadImage(parentID uint, upload ImageUpload) (UploadedImage, error) {
	if f.err != nil {
		return UploadedImage{}, f.err
	}

	f.uploads++
	key := fmt.Sprintf("artwork/%d/originals/%d.png", parentID, f.uploads)
	return UploadedImage{Key: key, URL: "https://cdn.example.com/" + key}, nil
}

type fakeRemoteCatalog struct {
	created []models.Artwork
}

func (f *fakeRemoteCatalog) ListArtworks(filters CatalogFilters) ([]models.Artwork, error) {
	return f.created, nil
}

func (f *fakeRemoteCatalog) CreateArtwork(parentID uint, artwork models.Artwork) (models.Artwork, error) {
	f.created = append(f.created, artwork)
	return artwork, nil
}

func (f *fakeRemoteCatalog) UpdateArtwork(id int64, patch models.ArtworkPatch) (models.Artwork, error) {
	return models.Artwork{}, nil
}

func (f *fakeRemoteCatalog) DeleteArtwork(id int64) error {
	return nil
}

func pngUpload() ImageUpload {
	return ImageUpload{
		Filename:    "drawing.png",
		ContentType: "image/png",
		Size:        1024,
		Body:        strings.NewReader("png bytes"),
	}
}

func newUploadService(s testServices, images ImageServicer, remote RemoteCatalogServicer) UploadService {
	return NewUploadService(UploadServiceConfig{
		ArtworkService: s.artworks,
		ChildService:   s.children,
		ImageService:   images,
		RemoteCatalog:  remote,
	})
}

func TestUploadAttributedToChildBumpsCount(t *testing.T) {
	s := newTestServices(nil)
	remote := &fakeRemoteCatalog{}
	uploads := newUploadService(s, &fakeImages{}, remote)

	mia, err := s.children.Add(ctx(), 7, ChildForm{Name: "Mia", Age: 6})
	require.NoError(t, err)

	artwork, err := uploads.Upload(ctx(), 7, UploadForm{Title: "Horse", Medium: "crayon", ChildID: &mia.ID}, pngUpload())
	require.NoError(t, err)

	assert.Equal(t, "Mia", artwork.Artist)
	assert.Equal(t, 6, artwork.Age)
	assert.Equal(t, "early-elementary", artwork.AgeGroup)
	assert.Equal(t, DefaultTheme, artwork.Theme)
	assert.True(t, strings.HasPrefix(artwork.ImageURL, "https://cdn.example.com/"))

	byChild := s.artworks.ByChild(ctx(), 7, mia.ID)
	require.Len(t, byChild, 1)
	assert.Equal(t, artwork.ID, byChild[0].ID)

	mia, err = s.children.Get(ctx(), 7, mia.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mia.ArtworkCount)

	require.Len(t, remote.created, 1)
	assert.Equal(t, artwork.ID, remote.created[0].ID)
}

func TestUploadRequiresChildWhenProfilesExist(t *testing.T) {
	s := newTestServices(nil)
	images := &fakeImages{}
	uploads := newUploadService(s, images, nil)

	_, err := s.children.Add(ctx(), 7, ChildForm{Name: "Mia", Age: 6})
	require.NoError(t, err)

	_, err = uploads.Upload(ctx(), 7, UploadForm{Title: "Horse", Medium: "crayon"}, pngUpload())

	var v ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.True(t, v.Has("child"))
	assert.Equal(t, 0, images.uploads)
}

func TestUploadReportsEveryInvalidField(t *testing.T) {
	s := newTestServices(nil)
	uploads := newUploadService(s, &fakeImages{}, nil)

	image := pngUpload()
	image.ContentType = "application/pdf"

	_, err := uploads.Upload(ctx(), 7, UploadForm{Title: " ", Medium: "glitter"}, image)

	var v ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.True(t, v.Has("title"))
	assert.True(t, v.Has("medium"))
	assert.True(t, v.Has("image"))
}

func TestUploadStorageFailureAddsNothing(t *testing.T) {
	s := newTestServices(nil)
	uploads := newUploadService(s, &fakeImages{err: fmt.Errorf("bucket unavailable")}, nil)

	_, err := uploads.Upload(ctx(), 7, UploadForm{Title: "Horse", Medium: "crayon"}, pngUpload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
	assert.Empty(t, s.artworks.UserArtworks(ctx(), 7))
}

func TestValidateImageLimits(t *testing.T) {
	image := pngUpload()
	assert.NoError(t, ValidateImage(image))

	image.Size = MaxImageBytes + 1
	assert.ErrorIs(t, ValidateImage(image), ErrValidation)

	image = pngUpload()
	image.ContentType = "IMAGE/WEBP"
	assert.NoError(t, ValidateImage(image))
}

func TestOriginalKeyIsUniquePerUpload(t *testing.T) {
	a := OriginalKey("artwork", 7, "image/jpeg")
	b := OriginalKey("artwork", 7, "image/jpeg")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "artwork/7/originals/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}
