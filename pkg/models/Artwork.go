package models

import (
	"strings"
	"time"
)

type Artwork struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Artist       string     `json:"artist"`
	Age          int        `json:"age"`
	AgeGroup     string     `json:"ageGroup,omitempty"`
	Medium       string     `json:"medium"`
	Theme        string     `json:"theme"`
	Category     string     `json:"category,omitempty"`
	Style        string     `json:"style,omitempty"`
	ImageURL     string     `json:"imageUrl"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	ImageKey     string     `json:"imageKey,omitempty"`
	Likes        int        `json:"likes"`
	Highlight    bool       `json:"highlight,omitempty"`
	IsUserUpload bool       `json:"isUserUpload,omitempty"`
	UploadedAt   *time.Time `json:"uploadedAt,omitempty"`
	ChildID      *int64     `json:"childId,omitempty"`
}

func (a Artwork) Key() int64 {
	return a.ID
}

func (a Artwork) WithKey(id int64) Artwork {
	a.ID = id
	return a
}

// HasImage reports whether the artwork can be shown in the gallery.
func (a Artwork) HasImage() bool {
	return strings.TrimSpace(a.ImageURL) != ""
}

func (a Artwork) BelongsTo(childID int64) bool {
	return a.ChildID != nil && *a.ChildID == childID
}

/*
ArtworkPatch carries the fields an update may change. Nil fields are left
untouched.
*/
type ArtworkPatch struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Medium       *string `json:"medium,omitempty"`
	Theme        *string `json:"theme,omitempty"`
	Likes        *int    `json:"likes,omitempty"`
	Highlight    *bool   `json:"highlight,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

func (p ArtworkPatch) Apply(a Artwork) Artwork {
	if p.Title != nil {
		a.Title = *p.Title
	}

	if p.Description != nil {
		a.Description = *p.Description
	}

	if p.Medium != nil {
		a.Medium = *p.Medium
	}

	if p.Theme != nil {
		a.Theme = *p.Theme
	}

	if p.Likes != nil {
		a.Likes = *p.Likes
	}

	if p.Highlight != nil {
		a.Highlight = *p.Highlight
	}

	if p.ThumbnailURL != nil {
		a.ThumbnailURL = *p.ThumbnailURL
	}

	return a
}
