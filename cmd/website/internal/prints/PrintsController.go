package prints

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/mvicenzino/kidzart/cmd/website/internal/viewmodels"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
)

type PrintsControllerConfig struct {
	ArtworkService     services.ArtworkServicer
	EmailService       services.EmailServicer
	FulfillmentService services.FulfillmentServicer
	PaymentVerifier    services.PaymentVerifier
	Renderer           rendering.TemplateRenderer
}

type PrintsController struct {
	artworkService     services.ArtworkServicer
	emailService       services.EmailServicer
	fulfillmentService services.FulfillmentServicer
	paymentVerifier    services.PaymentVerifier
	renderer           rendering.TemplateRenderer
}

func NewPrintsController(config PrintsControllerConfig) PrintsController {
	return PrintsController{
		artworkService:     config.ArtworkService,
		emailService:       config.EmailService,
		fulfillmentService: config.FulfillmentService,
		paymentVerifier:    config.PaymentVerifier,
		renderer:           config.Renderer,
	}
}

func (c PrintsController) newPrintPage(r *http.Request) (viewmodels.PrintPage, models.Artwork, error) {
	parent := viewmodels.GetParentFromContext(r)
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

	viewData := viewmodels.PrintPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r, "/static/js/pages/prints.js"),
		Products:      models.PrintProducts,
		ProductID:     models.PrintProducts[0].ID,
		Recipient:     models.Recipient{Country: services.DefaultCountry},
		Errors:        services.ValidationErrors{},
		SetupNeeded:   !c.fulfillmentService.Configured(),
	}

	if viewData.SetupNeeded {
		viewData.IsWarning = true
		viewData.Message = "The print shop isn't set up yet. Add a PRINTFUL_API_KEY to enable ordering."
	}

	artwork, err := c.artworkService.Get(r.Context(), parent.ID, id)

	if err == nil {
		viewData.Artwork = viewmodels.NewArtCard(artwork)
	}

	return viewData, artwork, err
}

/*
GET /artworks/{id}/prints
*/
func (c PrintsController) PrintShopPage(w http.ResponseWriter, r *http.Request) {
	viewData, _, err := c.newPrintPage(r)

	if err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "artwork not found")
		return
	}

	c.renderer.Render("pages/prints", viewData, w)
}

/*
POST /artworks/{id}/prints
*/
func (c PrintsController) CheckoutAction(w http.ResponseWriter, r *http.Request) {
	var (
		err    error
		result models.OrderResult
	)

	pageName := "pages/prints"
	viewData, artwork, err := c.newPrintPage(r)

	if err != nil {
		httphelpers.WriteText(w, http.StatusNotFound, "artwork not found")
		return
	}

	if viewData.SetupNeeded {
		w.WriteHeader(http.StatusServiceUnavailable)
		c.renderer.Render(pageName, viewData, w)
		return
	}

	order := models.OrderRequest{
		ArtworkURL: artwork.ImageURL,
		ProductID:  httphelpers.GetFromRequest[string](r, "productId"),
		Recipient: models.Recipient{
			Name:     httphelpers.GetFromRequest[string](r, "name"),
			Address1: httphelpers.GetFromRequest[string](r, "address1"),
			City:     httphelpers.GetFromRequest[string](r, "city"),
			State:    httphelpers.GetFromRequest[string](r, "state"),
			Country:  httphelpers.GetFromRequest[string](r, "country"),
			Zip:      httphelpers.GetFromRequest[string](r, "zip"),
		},
		PaymentToken: httphelpers.GetFromRequest[string](r, "paymentToken"),
	}

	viewData.ProductID = order.ProductID
	viewData.Recipient = order.Recipient

	if order, err = services.ValidateOrder(order); err != nil {
		var v services.ValidationErrors
		errors.As(err, &v)

		w.WriteHeader(http.StatusUnprocessableEntity)
		viewData.Errors = v
		viewData.IsWarning = true
		viewData.Message = "Please fill in the shipping details."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	product, _ := models.FindPrintProduct(order.ProductID)

	if err = c.paymentVerifier.Verify(r.Context(), order.PaymentToken, product.Price); err != nil {
		w.WriteHeader(http.StatusPaymentRequired)
		viewData.IsWarning = true
		viewData.Message = "Your payment was declined. No order was placed."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Second*30)
	defer cancel()

	if result, err = c.fulfillmentService.SubmitOrder(ctx, order); err != nil {
		slog.Error("error submitting print order", "error", err, "artworkID", artwork.ID, "product", order.ProductID)
		w.WriteHeader(http.StatusBadGateway)
		viewData.IsError = true
		viewData.Message = "We couldn't place your order: " + err.Error()

		c.renderer.Render(pageName, viewData, w)
		return
	}

	slog.Info("print order placed", "orderID", result.OrderID, "artworkID", artwork.ID, "product", order.ProductID)
	viewData.OrderID = result.OrderID
	viewData.Message = "Your order is on its way!"

	identity := viewData.Identity

	if identity.SignedIn && c.emailService.Configured() {
		go func() {
			if err := c.emailService.SendOrderConfirmation(identity, product, artwork, result); err != nil {
				slog.Error("error sending order confirmation", "error", err, "orderID", result.OrderID)
			}
		}()
	}

	c.renderer.Render(pageName, viewData, w)
}
