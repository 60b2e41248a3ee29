package services

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/adampresley/adamgokit/email"
	"github.com/mvicenzino/kidzart/pkg/models"
)

type EmailServicer interface {
	Configured() bool
	SendOrderConfirmation(to models.Identity, product models.PrintProduct, artwork models.Artwork, result models.OrderResult) error
	SendPortfolioReady(to models.Identity, child models.ChildProfile, downloadURL string, expirationDays int) error
}

type EmailServiceConfig struct {
	ApiKey    string
	FromName  string
	FromEmail string
}

type EmailService struct {
	apiKey    string
	fromName  string
	fromEmail string
}

var (
	orderConfirmationTemplate = template.Must(template.New("order").Parse(`
<h1>Your print is on its way!</h1>
<p>Hello {{.toName}}! We received your order for a {{.productName}} featuring
'{{.artworkTitle}}' by {{.artist}}.</p>
<p>Your order number is <strong>{{.orderID}}</strong>.</p>
`))

	portfolioReadyTemplate = template.Must(template.New("portfolio").Parse(`
<h1>{{.childName}}'s portfolio is ready!</h1>
<p>Hello {{.toName}}! The artwork download you requested is ready. Click the
link below to download every piece as a ZIP file. This link will expire in
{{.expirationDays}} days.</p>
<a href="{{.downloadURL}}">Download Portfolio</a>
`))
)

func NewEmailService(config EmailServiceConfig) EmailService {
	return EmailService{
		apiKey:    config.ApiKey,
		fromName:  config.FromName,
		fromEmail: config.FromEmail,
	}
}

func (s EmailService) Configured() bool {
	return s.apiKey != "" && s.fromEmail != ""
}

func (s EmailService) SendOrderConfirmation(to models.Identity, product models.PrintProduct, artwork models.Artwork, result models.OrderResult) error {
	return s.send(to, "Your Kidzart print order", orderConfirmationTemplate, map[string]any{
		"productName":  product.Name,
		"artworkTitle": artwork.Title,
		"artist":       artwork.Artist,
		"orderID":      result.OrderID,
	})
}

func (s EmailService) SendPortfolioReady(to models.Identity, child models.ChildProfile, downloadURL string, expirationDays int) error {
	return s.send(to, fmt.Sprintf("%s's portfolio is ready!", child.Name), portfolioReadyTemplate, map[string]any{
		"childName":      child.Name,
		"downloadURL":    downloadURL,
		"expirationDays": expirationDays,
	})
}

func (s EmailService) send(to models.Identity, subject string, tmpl *template.Template, data map[string]any) error {
	if !s.Configured() {
		return fmt.Errorf("email: %w", ErrNotConfigured)
	}

	if to.Email == "" {
		return fmt.Errorf("no email address for %s", to.DisplayName)
	}

	parsedTemplate := strings.Builder{}
	data["toName"] = to.DisplayName

	if err := tmpl.Execute(&parsedTemplate, data); err != nil {
		return fmt.Errorf("error rendering email '%s': %w", subject, err)
	}

	service := email.NewResendService(&email.Config{
		ApiKey: s.apiKey,
	})

	return service.Send(email.Mail{
		Body:       parsedTemplate.String(),
		BodyIsHtml: true,
		From: email.EmailAddress{
			Email: s.fromEmail,
			Name:  s.fromName,
		},
		Subject: subject,
		To: []email.EmailAddress{
			{Name: to.DisplayName, Email: to.Email},
		},
	})
}
