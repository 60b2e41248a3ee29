package gallery

import (
	"testing"

	"github.com/mvicenzino/kidzart/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleOpensAndClosesOneSection(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())
	filter := NewFilter()

	bar.Toggle(taxonomy.AxisMedium, filter)
	assert.Equal(t, taxonomy.AxisMedium, bar.Expanded())

	bar.Toggle(taxonomy.AxisTheme, filter)
	assert.Equal(t, taxonomy.AxisTheme, bar.Expanded())

	bar.Toggle(taxonomy.AxisTheme, filter)
	assert.Equal(t, "", bar.Expanded())

	bar.Toggle("color", filter)
	assert.Equal(t, "", bar.Expanded())
}

func TestToggleFocusesCurrentSelection(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())
	filter := NewFilter()
	require.NoError(t, filter.SetFilter(taxonomy.AxisAgeGroup, "preschool"))

	bar.Toggle(taxonomy.AxisAgeGroup, filter)

	// "All" sits at 0, toddler at 1, preschool at 2
	assert.Equal(t, 2, bar.Cursor())
}

func TestKeyboardNavigationSelectsAndCloses(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())
	filter := NewFilter()

	bar.Toggle(taxonomy.AxisAgeGroup, filter)

	changed, err := bar.HandleKey(filter, "ArrowUp")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, len(taxonomy.AgeGroups.Entries), bar.Cursor())

	_, _ = bar.HandleKey(filter, "ArrowDown")
	assert.Equal(t, 0, bar.Cursor())

	_, _ = bar.HandleKey(filter, "ArrowDown")
	changed, err = bar.HandleKey(filter, "Enter")
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, "toddler", filter.Selection().AgeGroup)
	assert.Equal(t, "", bar.Expanded())
}

func TestEscapeClosesWithoutChangingSelection(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())
	filter := NewFilter()

	bar.Toggle(taxonomy.AxisTheme, filter)
	_, _ = bar.HandleKey(filter, "End")
	changed, _ := bar.HandleKey(filter, "Escape")

	assert.False(t, changed)
	assert.Equal(t, "", bar.Expanded())
	assert.Equal(t, NewSelection(), filter.Selection())
}

func TestKeysIgnoredWhenClosed(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())
	filter := NewFilter()

	changed, err := bar.HandleKey(filter, "Enter")

	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, NewSelection(), filter.Selection())
}

func TestSectionsAndChips(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())
	selection := NewSelection().With(taxonomy.AxisMedium, "crayon").With(taxonomy.AxisTheme, "unknown")

	sections := bar.Sections(selection)
	require.Len(t, sections, 3)

	ageGroups := sections[0]
	assert.Equal(t, "All Age Groups", ageGroups.Options[0].Label)
	assert.True(t, ageGroups.Options[0].Selected)
	assert.Equal(t, "2-3 years", ageGroups.Options[1].Sublabel)
	assert.False(t, ageGroups.Active)

	mediums := sections[1]
	assert.True(t, mediums.Active)
	assert.Equal(t, "🖍️ Crayon", mediums.ActiveLabel)

	chips := bar.Chips(selection)
	require.Len(t, chips, 1)
	assert.Equal(t, Chip{Axis: taxonomy.AxisMedium, Label: "🖍️ Crayon"}, chips[0])

	assert.True(t, bar.ShowClearAll(selection))
	assert.False(t, bar.ShowClearAll(NewSelection()))
}

func TestRestoreClampsCursor(t *testing.T) {
	bar := NewFilterBar(taxonomy.Axes())

	bar.Restore(taxonomy.AxisAgeGroup, 99)
	assert.Equal(t, taxonomy.AxisAgeGroup, bar.Expanded())
	assert.Equal(t, len(taxonomy.AgeGroups.Entries), bar.Cursor())

	bar.Restore(taxonomy.AxisAgeGroup, -3)
	assert.Equal(t, 0, bar.Cursor())

	bar.Restore("color", 1)
	assert.Equal(t, "", bar.Expanded())
}
