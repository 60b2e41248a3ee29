package prints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/stretchr/testify/assert"
)

func newTestController() PrintsController {
	artworkService := services.NewArtworkService(services.ArtworkServiceConfig{
		Collections: services.NewCollectionRegistry(services.CollectionRegistryConfig{Records: collection.NewMemoryRecords()}),
		Seed:        []models.Artwork{{ID: 1, Title: "Rainbow", ImageURL: "https://example.com/1.jpg"}},
	})

	return NewPrintsController(PrintsControllerConfig{
		ArtworkService:     artworkService,
		EmailService:       services.NewEmailService(services.EmailServiceConfig{}),
		FulfillmentService: services.NewFulfillmentService(services.FulfillmentServiceConfig{}),
		PaymentVerifier:    services.NewDemoPaymentService(),
	})
}

func TestPrintShopPageUnknownArtwork(t *testing.T) {
	controller := newTestController()

	r := httptest.NewRequest(http.MethodGet, "/artworks/99/prints", nil)
	r.SetPathValue("id", "99")
	w := httptest.NewRecorder()

	controller.PrintShopPage(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutActionUnknownArtwork(t *testing.T) {
	controller := newTestController()

	r := httptest.NewRequest(http.MethodPost, "/artworks/abc/prints", nil)
	r.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	controller.CheckoutAction(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
