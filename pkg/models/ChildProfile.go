package models

import "time"

const (
	DefaultAvatarEmoji = "🎨"
	MinChildAge        = 1
	MaxChildAge        = 18
)

// AvatarEmojis is the palette offered on the child profile form.
var AvatarEmojis = []string{"🎨", "🦄", "🚀", "🌟", "🎪", "🦋", "🐱", "🐶", "🌈", "🎸", "⚽", "🎮"}

type ChildProfile struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	Description  string     `json:"description,omitempty"`
	AvatarEmoji  string     `json:"avatarEmoji"`
	ArtworkCount int        `json:"artworkCount"`
	ImportedFrom string     `json:"importedFrom,omitempty"`
	ImportedAt   *time.Time `json:"importedAt,omitempty"`
}

func (c ChildProfile) Key() int64 {
	return c.ID
}

func (c ChildProfile) WithKey(id int64) ChildProfile {
	c.ID = id
	return c
}

/*
ChildProfilePatch is the edit-form payload. Nil fields are left untouched.
*/
type ChildProfilePatch struct {
	Name        *string
	Age         *int
	Description *string
	AvatarEmoji *string
}

func (p ChildProfilePatch) Apply(c ChildProfile) ChildProfile {
	if p.Name != nil {
		c.Name = *p.Name
	}

	if p.Age != nil {
		c.Age = *p.Age
	}

	if p.Description != nil {
		c.Description = *p.Description
	}

	if p.AvatarEmoji != nil {
		c.AvatarEmoji = *p.AvatarEmoji
	}

	return c
}
