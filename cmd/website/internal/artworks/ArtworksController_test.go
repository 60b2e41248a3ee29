package artworks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController() (ArtworksController, services.ArtworkService) {
	artworkService := services.NewArtworkService(services.ArtworkServiceConfig{
		Collections: services.NewCollectionRegistry(services.CollectionRegistryConfig{Records: collection.NewMemoryRecords()}),
		Seed:        []models.Artwork{{ID: 1, Title: "Seed", ImageURL: "https://example.com/1.jpg"}},
	})

	return NewArtworksController(ArtworksControllerConfig{ArtworkService: artworkService}), artworkService
}

func signedInRequest(method, target string, id int64) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	r.SetPathValue("id", fmt.Sprint(id))
	return r.WithContext(context.WithValue(r.Context(), "parent", &models.Parent{BaseModel: models.BaseModel{ID: 7}, Name: "Jordan"}))
}

func TestLikeActionIncrementsUploadLikes(t *testing.T) {
	controller, artworkService := newTestController()

	added, err := artworkService.Add(context.Background(), 7, models.Artwork{Title: "Cat", Medium: "crayon", ImageURL: "https://example.com/c.jpg"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	controller.LikeAction(w, signedInRequest(http.MethodPut, "/artworks/x/like", added.ID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "</i> 1</span>")
}

func TestLikeActionRejectsSeedArtwork(t *testing.T) {
	controller, _ := newTestController()

	w := httptest.NewRecorder()
	controller.LikeAction(w, signedInRequest(http.MethodPut, "/artworks/1/like", 1))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteActionRemovesUpload(t *testing.T) {
	controller, artworkService := newTestController()

	added, err := artworkService.Add(context.Background(), 7, models.Artwork{Title: "Cat", Medium: "crayon", ImageURL: "https://example.com/c.jpg"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	controller.DeleteAction(w, signedInRequest(http.MethodPost, "/artworks/x/delete", added.ID))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, artworkService.UserArtworks(context.Background(), 7))
}

type fakeRemoteCatalog struct {
	updates map[int64]models.ArtworkPatch
	deleted []int64
	failing bool
}

func newFakeRemoteCatalog() *fakeRemoteCatalog {
	return &fakeRemoteCatalog{updates: map[int64]models.ArtworkPatch{}}
}

func (f *fakeRemoteCatalog) ListArtworks(filters services.CatalogFilters) ([]models.Artwork, error) {
	return []models.Artwork{}, nil
}

func (f *fakeRemoteCatalog) CreateArtwork(parentID uint, artwork models.Artwork) (models.Artwork, error) {
	return artwork, nil
}

func (f *fakeRemoteCatalog) UpdateArtwork(id int64, patch models.ArtworkPatch) (models.Artwork, error) {
	if f.failing {
		return models.Artwork{}, fmt.Errorf("catalog offline")
	}

	f.updates[id] = patch
	return models.Artwork{ID: id}, nil
}

func (f *fakeRemoteCatalog) DeleteArtwork(id int64) error {
	if f.failing {
		return fmt.Errorf("catalog offline")
	}

	f.deleted = append(f.deleted, id)
	return nil
}

func newPublishingController(remote *fakeRemoteCatalog) (ArtworksController, services.ArtworkService) {
	_, artworkService := newTestController()

	return NewArtworksController(ArtworksControllerConfig{
		ArtworkService: artworkService,
		RemoteCatalog:  remote,
	}), artworkService
}

func TestLikeActionMirrorsLikesToRemoteCatalog(t *testing.T) {
	remote := newFakeRemoteCatalog()
	controller, artworkService := newPublishingController(remote)

	added, err := artworkService.Add(context.Background(), 7, models.Artwork{Title: "Cat", Medium: "crayon", ImageURL: "https://example.com/c.jpg"})
	require.NoError(t, err)

	controller.LikeAction(httptest.NewRecorder(), signedInRequest(http.MethodPut, "/artworks/x/like", added.ID))
	w := httptest.NewRecorder()
	controller.LikeAction(w, signedInRequest(http.MethodPut, "/artworks/x/like", added.ID))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, remote.updates, added.ID)
	require.NotNil(t, remote.updates[added.ID].Likes)
	assert.Equal(t, 2, *remote.updates[added.ID].Likes)
}

func TestLikeActionOnSeedArtworkLeavesRemoteCatalogAlone(t *testing.T) {
	remote := newFakeRemoteCatalog()
	controller, _ := newPublishingController(remote)

	controller.LikeAction(httptest.NewRecorder(), signedInRequest(http.MethodPut, "/artworks/1/like", 1))

	assert.Empty(t, remote.updates)
}

func TestDeleteActionRemovesFromRemoteCatalog(t *testing.T) {
	remote := newFakeRemoteCatalog()
	controller, artworkService := newPublishingController(remote)

	added, err := artworkService.Add(context.Background(), 7, models.Artwork{Title: "Cat", Medium: "crayon", ImageURL: "https://example.com/c.jpg"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	controller.DeleteAction(w, signedInRequest(http.MethodPost, "/artworks/x/delete", added.ID))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []int64{added.ID}, remote.deleted)
}

func TestRemoteCatalogFailureDoesNotFailTheRequest(t *testing.T) {
	remote := newFakeRemoteCatalog()
	remote.failing = true
	controller, artworkService := newPublishingController(remote)

	added, err := artworkService.Add(context.Background(), 7, models.Artwork{Title: "Cat", Medium: "crayon", ImageURL: "https://example.com/c.jpg"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	controller.LikeAction(w, signedInRequest(http.MethodPut, "/artworks/x/like", added.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	controller.DeleteAction(w, signedInRequest(http.MethodPost, "/artworks/x/delete", added.ID))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, artworkService.UserArtworks(context.Background(), 7))
}
