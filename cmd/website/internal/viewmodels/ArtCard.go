package viewmodels

import (
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

type ArtCard struct {
	ID            int64
	Title         string
	Description   string
	Artist        string
	Age           int
	ImageURL      string
	FullImageURL  string
	AgeGroupLabel string
	MediumLabel   string
	ThemeLabel    string
	Likes         int
	Highlight     bool
	IsUserUpload  bool
}

func NewArtCard(artwork models.Artwork) ArtCard {
	result := ArtCard{
		ID:           artwork.ID,
		Title:        artwork.Title,
		Description:  artwork.Description,
		Artist:       artwork.Artist,
		Age:          artwork.Age,
		ImageURL:     artwork.ImageURL,
		FullImageURL: artwork.ImageURL,
		Likes:        artwork.Likes,
		Highlight:    artwork.Highlight,
		IsUserUpload: artwork.IsUserUpload,
	}

	if artwork.ThumbnailURL != "" {
		result.ImageURL = artwork.ThumbnailURL
	}

	result.AgeGroupLabel = entryLabel(taxonomy.AgeGroups, artwork.AgeGroup)
	result.MediumLabel = entryLabel(taxonomy.Mediums, artwork.Medium)
	result.ThemeLabel = entryLabel(taxonomy.Themes, artwork.Theme)

	return result
}

func NewArtCards(artworks []models.Artwork) []ArtCard {
	result := make([]ArtCard, 0, len(artworks))

	for _, artwork := range artworks {
		result = append(result, NewArtCard(artwork))
	}

	return result
}

func entryLabel(axis taxonomy.Axis, id string) string {
	if entry, ok := axis.Find(id); ok {
		return entry.Emoji + " " + entry.Label
	}

	return ""
}
