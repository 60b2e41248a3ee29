/*
Package taxonomy holds the fixed reference data used to classify artwork:
age groups, mediums and themes. Axis membership never changes at runtime.
*/
package taxonomy

type Entry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
	Range string `json:"range,omitempty"`
}

type Axis struct {
	ID      string
	Label   string
	Icon    string
	Entries []Entry
}

func (a Axis) Find(id string) (Entry, bool) {
	for _, e := range a.Entries {
		if e.ID == id {
			return e, true
		}
	}

	return Entry{}, false
}

func (a Axis) Has(id string) bool {
	_, ok := a.Find(id)
	return ok
}

const (
	AxisAgeGroup = "ageGroup"
	AxisMedium   = "medium"
	AxisTheme    = "theme"
)

var AgeGroups = Axis{
	ID:    AxisAgeGroup,
	Label: "Age Group",
	Icon:  "👶",
	Entries: []Entry{
		{ID: "toddler", Label: "Toddler", Emoji: "🍼", Range: "2-3 years"},
		{ID: "preschool", Label: "Preschool", Emoji: "🧸", Range: "4-5 years"},
		{ID: "early-elementary", Label: "Early Elementary", Emoji: "✏️", Range: "6-7 years"},
		{ID: "elementary", Label: "Elementary", Emoji: "📚", Range: "8-9 years"},
		{ID: "tween", Label: "Tween", Emoji: "🎧", Range: "10-12 years"},
	},
}

var Mediums = Axis{
	ID:    AxisMedium,
	Label: "Medium",
	Icon:  "🎨",
	Entries: []Entry{
		{ID: "crayon", Label: "Crayon", Emoji: "🖍️"},
		{ID: "markers", Label: "Markers", Emoji: "🖊️"},
		{ID: "watercolor", Label: "Watercolor", Emoji: "💧"},
		{ID: "colored-pencils", Label: "Colored Pencils", Emoji: "✏️"},
		{ID: "digital", Label: "Digital", Emoji: "💻"},
		{ID: "mixed-media", Label: "Mixed Media", Emoji: "✂️"},
		{ID: "finger-paint", Label: "Finger Paint", Emoji: "🖐️"},
	},
}

var Themes = Axis{
	ID:    AxisTheme,
	Label: "Theme",
	Icon:  "✨",
	Entries: []Entry{
		{ID: "animals", Label: "Animals", Emoji: "🐾"},
		{ID: "nature", Label: "Nature", Emoji: "🌳"},
		{ID: "family", Label: "Family", Emoji: "👨‍👩‍👧"},
		{ID: "fantasy", Label: "Fantasy", Emoji: "🐉"},
		{ID: "space", Label: "Space", Emoji: "🚀"},
		{ID: "vehicles", Label: "Vehicles", Emoji: "🚗"},
		{ID: "abstract", Label: "Abstract", Emoji: "🌀"},
		{ID: "food", Label: "Food", Emoji: "🍕"},
		{ID: "ocean", Label: "Ocean", Emoji: "🌊"},
		{ID: "buildings", Label: "Buildings", Emoji: "🏰"},
		{ID: "imaginative-play", Label: "Imaginative Play", Emoji: "🎭"},
	},
}

// Axes returns every filterable axis in display order.
func Axes() []Axis {
	return []Axis{AgeGroups, Mediums, Themes}
}

func AxisByID(id string) (Axis, bool) {
	for _, a := range Axes() {
		if a.ID == id {
			return a, true
		}
	}

	return Axis{}, false
}

/*
AgeGroupForAge maps a child's age in years onto an age group id.
*/
func AgeGroupForAge(age int) string {
	switch {
	case age <= 3:
		return "toddler"
	case age <= 5:
		return "preschool"
	case age <= 7:
		return "early-elementary"
	case age <= 9:
		return "elementary"
	default:
		return "tween"
	}
}
