package importer

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/models"
)

const (
	DefaultName = "Unnamed"
	DefaultAge  = 5
)

/*
fieldRule picks the first present, non-empty value among keys and falls
back to a default.
*/
type fieldRule struct {
	keys     []string
	fallback string
}

var (
	nameRule        = fieldRule{keys: []string{"name", "childName"}, fallback: DefaultName}
	ageRule         = fieldRule{keys: []string{"age", "childAge"}}
	descriptionRule = fieldRule{keys: []string{"description", "bio"}, fallback: ""}
	avatarRule      = fieldRule{keys: []string{"avatarEmoji", "avatar"}, fallback: models.DefaultAvatarEmoji}
)

func (f fieldRule) resolve(record Record) string {
	for _, key := range f.keys {
		if value, ok := scalarText(record[key]); ok {
			return value
		}
	}

	return f.fallback
}

/*
scalarText renders a JSON scalar as text. Strings are trimmed; blank
strings, zero, false and null count as absent.
*/
func scalarText(raw json.RawMessage) (string, bool) {
	var (
		value any
	)

	if len(raw) == 0 {
		return "", false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), v != 0
	case bool:
		return "true", v
	}

	return "", false
}

/*
parseAge reads the leading integer of s. Anything unparseable yields
DefaultAge. So does an age outside the allowed child range, since an
imported profile must be as valid as one entered by hand.
*/
func parseAge(s string) int {
	s = strings.TrimSpace(s)
	end := 0

	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	age, err := strconv.Atoi(s[:end])

	if err != nil || age < models.MinChildAge || age > models.MaxChildAge {
		return DefaultAge
	}

	return age
}

type NormalizerConfig struct {
	IDs *collection.IDGenerator
	Now func() time.Time
}

type Normalizer struct {
	ids *collection.IDGenerator
	now func() time.Time
}

func NewNormalizer(config NormalizerConfig) Normalizer {
	if config.IDs == nil {
		config.IDs = collection.NewIDGenerator(config.Now)
	}

	if config.Now == nil {
		config.Now = time.Now
	}

	return Normalizer{
		ids: config.IDs,
		now: config.Now,
	}
}

/*
Normalize parses a code and converts every record into a child profile
stamped with its provenance. Nothing is returned on a parse failure.
*/
func (n Normalizer) Normalize(code string) ([]models.ChildProfile, error) {
	payload, err := Parse(code)

	if err != nil {
		return nil, err
	}

	return n.Profiles(payload), nil
}

func (n Normalizer) Profiles(payload Payload) []models.ChildProfile {
	importedAt := n.now().UTC()
	result := make([]models.ChildProfile, 0, len(payload.Records))

	for _, record := range payload.Records {
		stamp := importedAt

		result = append(result, models.ChildProfile{
			ID:           n.ids.Next(),
			Name:         nameRule.resolve(record),
			Age:          parseAge(ageRule.resolve(record)),
			Description:  descriptionRule.resolve(record),
			AvatarEmoji:  avatarRule.resolve(record),
			ArtworkCount: 0,
			ImportedFrom: ProviderSource,
			ImportedAt:   &stamp,
		})
	}

	return result
}
