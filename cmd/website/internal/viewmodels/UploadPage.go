package viewmodels

import (
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

type UploadForm struct {
	Title       string
	Description string
	Medium      string
	Theme       string
	ChildID     int64
}

type UploadPage struct {
	BaseViewModel

	Form     UploadForm
	Errors   services.ValidationErrors
	Children []models.ChildProfile
	Mediums  []taxonomy.Entry
	Themes   []taxonomy.Entry
	MaxMB    int
}
