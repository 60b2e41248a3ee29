package viewmodels

import (
	"github.com/mvicenzino/kidzart/pkg/gallery"
)

type GalleryPage struct {
	BaseViewModel

	Highlighted []ArtCard
	Artworks    []ArtCard
	TotalCount  int
	FilterBar   FilterBar
}

type FilterBar struct {
	Sections     []FilterSection
	Chips        []FilterChip
	ShowClearAll bool
	ActiveCount  int
	ClearURL     string
}

type FilterSection struct {
	gallery.Section

	ToggleURL string
	Options   []FilterOption
}

type FilterOption struct {
	gallery.Option

	URL string
}

type FilterChip struct {
	gallery.Chip

	RemoveURL string
}

type ArtworkPage struct {
	BaseViewModel

	Artwork  ArtCard
	CanPrint bool
}
