package viewmodels

import (
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
)

type PrintPage struct {
	BaseViewModel

	Artwork     ArtCard
	Products    []models.PrintProduct
	ProductID   string
	Recipient   models.Recipient
	Errors      services.ValidationErrors
	SetupNeeded bool
	OrderID     string
}
