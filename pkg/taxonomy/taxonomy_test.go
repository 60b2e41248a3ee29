package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAxisIDsAreUnique(t *testing.T) {
	for _, axis := range Axes() {
		seen := map[string]bool{}

		for _, e := range axis.Entries {
			assert.False(t, seen[e.ID], "duplicate id %q in axis %s", e.ID, axis.ID)
			seen[e.ID] = true
		}
	}
}

func TestAgeGroupForAge(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{age: 2, want: "toddler"},
		{age: 3, want: "toddler"},
		{age: 4, want: "preschool"},
		{age: 5, want: "preschool"},
		{age: 7, want: "early-elementary"},
		{age: 9, want: "elementary"},
		{age: 12, want: "tween"},
	}

	for _, tt := range tests {
		got := AgeGroupForAge(tt.age)
		assert.Equal(t, tt.want, got, "age %d", tt.age)
		assert.True(t, AgeGroups.Has(got))
	}
}

func TestAxisByID(t *testing.T) {
	axis, ok := AxisByID(AxisMedium)
	assert.True(t, ok)
	assert.Equal(t, "Medium", axis.Label)

	_, ok = AxisByID("color")
	assert.False(t, ok)
}
