package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mvicenzino/kidzart/pkg/models"
)

const (
	DefaultFulfillmentURL = "https://api.printful.com"
	DefaultCountry        = "US"
)

type FulfillmentServicer interface {
	Configured() bool
	SubmitOrder(ctx context.Context, order models.OrderRequest) (models.OrderResult, error)
}

type FulfillmentServiceConfig struct {
	APIURL     string
	APIKey     string
	HTTPClient *http.Client
}

/*
FulfillmentService places print orders with the print-on-demand provider.
*/
type FulfillmentService struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

type orderFile struct {
	URL string `json:"url"`
}

type orderItem struct {
	VariantID int         `json:"variant_id"`
	Quantity  int         `json:"quantity"`
	Files     []orderFile `json:"files"`
}

type orderBody struct {
	Recipient models.Recipient `json:"recipient"`
	Items     []orderItem      `json:"items"`
}

type orderResponse struct {
	Result struct {
		ID json.Number `json:"id"`
	} `json:"result"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewFulfillmentService(config FulfillmentServiceConfig) FulfillmentService {
	if config.APIURL == "" {
		config.APIURL = DefaultFulfillmentURL
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return FulfillmentService{
		apiURL:     strings.TrimSuffix(config.APIURL, "/"),
		apiKey:     config.APIKey,
		httpClient: config.HTTPClient,
	}
}

// Configured reports whether an API key has been provided.
func (s FulfillmentService) Configured() bool {
	return s.apiKey != ""
}

/*
ValidateOrder checks the checkout form. The country defaults to US.
*/
func ValidateOrder(order models.OrderRequest) (models.OrderRequest, error) {
	errs := ValidationErrors{}

	order.Recipient.Name = strings.TrimSpace(order.Recipient.Name)
	order.Recipient.Address1 = strings.TrimSpace(order.Recipient.Address1)
	order.Recipient.City = strings.TrimSpace(order.Recipient.City)
	order.Recipient.State = strings.TrimSpace(order.Recipient.State)
	order.Recipient.Zip = strings.TrimSpace(order.Recipient.Zip)
	order.Recipient.Country = strings.ToUpper(strings.TrimSpace(order.Recipient.Country))

	if order.Recipient.Country == "" {
		order.Recipient.Country = DefaultCountry
	}

	required := map[string]string{
		"name":     order.Recipient.Name,
		"address1": order.Recipient.Address1,
		"city":     order.Recipient.City,
		"state":    order.Recipient.State,
		"zip":      order.Recipient.Zip,
	}

	for field, value := range required {
		if value == "" {
			errs[field] = "This field is required"
		}
	}

	if _, ok := models.FindPrintProduct(order.ProductID); !ok {
		errs["product"] = "Please choose a product"
	}

	if strings.TrimSpace(order.ArtworkURL) == "" {
		errs["artwork"] = "This artwork has no image to print"
	}

	return order, errs.Err()
}

func (s FulfillmentService) SubmitOrder(ctx context.Context, order models.OrderRequest) (models.OrderResult, error) {
	var (
		err      error
		b        []byte
		req      *http.Request
		response *http.Response
	)

	if !s.Configured() {
		return models.OrderResult{}, fmt.Errorf("print fulfillment: %w", ErrNotConfigured)
	}

	if order, err = ValidateOrder(order); err != nil {
		return models.OrderResult{}, err
	}

	product, _ := models.FindPrintProduct(order.ProductID)

	body := orderBody{
		Recipient: order.Recipient,
		Items: []orderItem{
			{
				VariantID: product.VariantID,
				Quantity:  1,
				Files:     []orderFile{{URL: order.ArtworkURL}},
			},
		},
	}

	if b, err = json.Marshal(body); err != nil {
		return models.OrderResult{}, fmt.Errorf("error encoding print order: %w", err)
	}

	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/orders", bytes.NewReader(b)); err != nil {
		return models.OrderResult{}, fmt.Errorf("error building print order request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	if response, err = s.httpClient.Do(req); err != nil {
		return models.OrderResult{}, fmt.Errorf("error sending print order: %w", err)
	}

	defer response.Body.Close()

	if b, err = io.ReadAll(response.Body); err != nil {
		return models.OrderResult{}, fmt.Errorf("error reading print order response: %w", err)
	}

	decoded := orderResponse{}
	_ = json.Unmarshal(b, &decoded)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		message := decoded.Error.Message

		if message == "" {
			message = strings.TrimSpace(string(b))
		}

		return models.OrderResult{}, fmt.Errorf("print provider rejected the order (status %d): %s", response.StatusCode, message)
	}

	if decoded.Result.ID == "" {
		return models.OrderResult{}, fmt.Errorf("print provider response had no order id")
	}

	return models.OrderResult{OrderID: decoded.Result.ID.String()}, nil
}
