package gallery

import (
	"fmt"

	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

type Option struct {
	ID       string
	Label    string
	Sublabel string
	Selected bool
	Focused  bool
}

type Section struct {
	ID          string
	Label       string
	Icon        string
	Options     []Option
	Active      bool
	ActiveLabel string
	Expanded    bool
}

// Chip is a removable marker for one active filter.
type Chip struct {
	Axis  string
	Label string
}

/*
FilterBar is the interaction state of the filter bar: which axis dropdown is
open and which option has keyboard focus. The selection itself lives in a
Filter.
*/
type FilterBar struct {
	axes     []taxonomy.Axis
	expanded string
	cursor   int
}

func NewFilterBar(axes []taxonomy.Axis) *FilterBar {
	return &FilterBar{
		axes: axes,
	}
}

func (b *FilterBar) Expanded() string {
	return b.expanded
}

func (b *FilterBar) Cursor() int {
	return b.cursor
}

/*
Toggle opens the dropdown for an axis, or closes it when it is already open.
Opening a dropdown puts focus on the option currently selected.
*/
func (b *FilterBar) Toggle(axisID string, filter *Filter) {
	if b.expanded == axisID {
		b.Close()
		return
	}

	axis, ok := b.axis(axisID)

	if !ok {
		return
	}

	b.expanded = axisID
	b.cursor = 0

	current := filter.Selection().Value(axisID)

	for index, entry := range axis.Entries {
		if entry.ID == current {
			b.cursor = index + 1
		}
	}
}

/*
Restore reopens a dropdown with focus on the given option, as carried over
from a previous request. Unknown axes leave the bar closed and the cursor is
clamped to the options of the axis.
*/
func (b *FilterBar) Restore(axisID string, cursor int) {
	axis, ok := b.axis(axisID)

	if !ok {
		b.Close()
		return
	}

	b.expanded = axis.ID
	b.cursor = min(max(cursor, 0), len(axis.Entries))
}

func (b *FilterBar) Close() {
	b.expanded = ""
	b.cursor = 0
}

// Select applies a value to the filter and closes the dropdown.
func (b *FilterBar) Select(filter *Filter, axisID, value string) error {
	if err := filter.SetFilter(axisID, value); err != nil {
		return err
	}

	b.Close()
	return nil
}

/*
HandleKey moves focus inside the open dropdown. Enter selects the focused
option, Escape closes the dropdown. It reports whether the selection changed.
*/
func (b *FilterBar) HandleKey(filter *Filter, key string) (bool, error) {
	if b.expanded == "" {
		return false, nil
	}

	axis, _ := b.axis(b.expanded)
	count := len(axis.Entries) + 1

	switch key {
	case "ArrowDown":
		b.cursor = (b.cursor + 1) % count

	case "ArrowUp":
		b.cursor = (b.cursor - 1 + count) % count

	case "Home":
		b.cursor = 0

	case "End":
		b.cursor = count - 1

	case "Escape":
		b.Close()

	case "Enter", " ":
		value := All

		if b.cursor > 0 {
			value = axis.Entries[b.cursor-1].ID
		}

		if err := b.Select(filter, axis.ID, value); err != nil {
			return false, err
		}

		return true, nil
	}

	return false, nil
}

/*
Sections describes every axis for rendering. Each section starts with an
"All" option followed by the taxonomy entries.
*/
func (b *FilterBar) Sections(selection Selection) []Section {
	result := make([]Section, 0, len(b.axes))

	for _, axis := range b.axes {
		current := selection.Value(axis.ID)
		expanded := b.expanded == axis.ID

		section := Section{
			ID:       axis.ID,
			Label:    axis.Label,
			Icon:     axis.Icon,
			Expanded: expanded,
			Options: []Option{
				{
					ID:       All,
					Label:    fmt.Sprintf("All %ss", axis.Label),
					Selected: current == All,
					Focused:  expanded && b.cursor == 0,
				},
			},
		}

		for index, entry := range axis.Entries {
			option := Option{
				ID:       entry.ID,
				Label:    optionLabel(entry),
				Sublabel: entry.Range,
				Selected: current == entry.ID,
				Focused:  expanded && b.cursor == index+1,
			}

			if option.Selected {
				section.Active = true
				section.ActiveLabel = option.Label
			}

			section.Options = append(section.Options, option)
		}

		result = append(result, section)
	}

	return result
}

/*
Chips lists the active filters in axis order. Values that are not part of
the taxonomy get no chip.
*/
func (b *FilterBar) Chips(selection Selection) []Chip {
	result := []Chip{}

	for _, axis := range b.axes {
		if entry, ok := axis.Find(selection.Value(axis.ID)); ok {
			result = append(result, Chip{Axis: axis.ID, Label: optionLabel(entry)})
		}
	}

	return result
}

func (b *FilterBar) ShowClearAll(selection Selection) bool {
	return selection.ActiveCount() > 0
}

func (b *FilterBar) axis(id string) (taxonomy.Axis, bool) {
	for _, axis := range b.axes {
		if axis.ID == id {
			return axis, true
		}
	}

	return taxonomy.Axis{}, false
}

func optionLabel(entry taxonomy.Entry) string {
	return fmt.Sprintf("%s %s", entry.Emoji, entry.Label)
}
