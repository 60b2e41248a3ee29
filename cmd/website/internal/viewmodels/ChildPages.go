package viewmodels

import (
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
)

type ChildForm struct {
	ID          int64
	Name        string
	Age         int
	Description string
	AvatarEmoji string
}

type ChildrenPage struct {
	BaseViewModel

	Children     []models.ChildProfile
	Form         ChildForm
	Errors       services.ValidationErrors
	AvatarEmojis []string
	ImportCode   string
	Pending      []models.ChildProfile
	ExportCode   string
}

type ChildPage struct {
	BaseViewModel

	Child         models.ChildProfile
	Artworks      []ArtCard
	ConfirmDelete bool
	PortfolioFile string
}
