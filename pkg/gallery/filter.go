/*
Package gallery decides which artwork the gallery shows. A Filter holds one
value per taxonomy axis and narrows a catalog down to the artwork matching
every active axis.
*/
package gallery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

// All is the axis value meaning "no constraint".
const All = "all"

var (
	ErrUnknownAxis = fmt.Errorf("unknown filter axis")
)

type Selection struct {
	AgeGroup string `json:"ageGroup"`
	Medium   string `json:"medium"`
	Theme    string `json:"theme"`
}

func NewSelection() Selection {
	return Selection{
		AgeGroup: All,
		Medium:   All,
		Theme:    All,
	}
}

/*
ParseSelection reads a selection from query values. Missing, empty or
unknown values default to All.
*/
func ParseSelection(values url.Values) Selection {
	result := NewSelection()

	for _, axis := range taxonomy.Axes() {
		value := strings.TrimSpace(values.Get(axis.ID))

		if !axis.Has(value) {
			value = All
		}

		_ = result.set(axis.ID, value)
	}

	return result
}

func (s Selection) Value(axis string) string {
	switch axis {
	case taxonomy.AxisAgeGroup:
		return s.AgeGroup
	case taxonomy.AxisMedium:
		return s.Medium
	case taxonomy.AxisTheme:
		return s.Theme
	}

	return All
}

func (s *Selection) set(axis, value string) error {
	value = strings.TrimSpace(value)

	if value == "" {
		value = All
	}

	switch axis {
	case taxonomy.AxisAgeGroup:
		s.AgeGroup = value
	case taxonomy.AxisMedium:
		s.Medium = value
	case taxonomy.AxisTheme:
		s.Theme = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAxis, axis)
	}

	return nil
}

// With returns a copy of the selection with one axis replaced.
func (s Selection) With(axis, value string) Selection {
	_ = s.set(axis, value)
	return s
}

func (s Selection) ActiveCount() int {
	count := 0

	for _, axis := range taxonomy.Axes() {
		if s.Value(axis.ID) != All {
			count++
		}
	}

	return count
}

// Query encodes the active axes as URL query values.
func (s Selection) Query() url.Values {
	result := url.Values{}

	for _, axis := range taxonomy.Axes() {
		if v := s.Value(axis.ID); v != All {
			result.Set(axis.ID, v)
		}
	}

	return result
}

/*
Matches reports whether the artwork satisfies every active axis. An artwork
with no value for an axis never matches an active filter on it.
*/
func (s Selection) Matches(artwork models.Artwork) bool {
	if s.AgeGroup != All && artwork.AgeGroup != s.AgeGroup {
		return false
	}

	if s.Medium != All && artwork.Medium != s.Medium {
		return false
	}

	if s.Theme != All && artwork.Theme != s.Theme {
		return false
	}

	return true
}

/*
Apply returns the artwork matching the selection, in input order. It does
not modify its input.
*/
func Apply(selection Selection, artworks []models.Artwork) []models.Artwork {
	result := make([]models.Artwork, 0, len(artworks))

	for _, artwork := range artworks {
		if selection.Matches(artwork) {
			result = append(result, artwork)
		}
	}

	return result
}

/*
Partition splits artwork into the featured highlights and everything else,
keeping the input order within each group.
*/
func Partition(artworks []models.Artwork) (highlighted, browsable []models.Artwork) {
	highlighted = []models.Artwork{}
	browsable = []models.Artwork{}

	for _, artwork := range artworks {
		if artwork.Highlight {
			highlighted = append(highlighted, artwork)
			continue
		}

		browsable = append(browsable, artwork)
	}

	return highlighted, browsable
}

/*
Filter is the mutable filter state behind the gallery's filter bar.
*/
type Filter struct {
	selection Selection
}

func NewFilter() *Filter {
	return &Filter{
		selection: NewSelection(),
	}
}

func NewFilterFrom(selection Selection) *Filter {
	return &Filter{
		selection: selection,
	}
}

func (f *Filter) Selection() Selection {
	return f.selection
}

// SetFilter replaces the value of one axis and leaves the others alone.
func (f *Filter) SetFilter(axis, value string) error {
	next := f.selection

	if err := next.set(axis, value); err != nil {
		return err
	}

	f.selection = next
	return nil
}

func (f *Filter) Clear() {
	f.selection = NewSelection()
}

func (f *Filter) ActiveCount() int {
	return f.selection.ActiveCount()
}

func (f *Filter) Apply(artworks []models.Artwork) []models.Artwork {
	return Apply(f.selection, artworks)
}
