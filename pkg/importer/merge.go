package importer

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mvicenzino/kidzart/pkg/models"
)

type MergeResult struct {
	Profiles []models.ChildProfile
	Added    []models.ChildProfile
	Skipped  int
}

/*
Merge appends incoming profiles to existing ones. An incoming profile whose
name matches an existing profile, ignoring case and surrounding space, is
skipped and counted.
*/
func Merge(existing, incoming []models.ChildProfile) MergeResult {
	names := make(map[string]struct{}, len(existing))

	for _, child := range existing {
		names[nameKey(child.Name)] = struct{}{}
	}

	result := MergeResult{
		Profiles: append([]models.ChildProfile{}, existing...),
		Added:    []models.ChildProfile{},
	}

	for _, child := range incoming {
		if _, ok := names[nameKey(child.Name)]; ok {
			result.Skipped++
			continue
		}

		child.ArtworkCount = 0
		result.Added = append(result.Added, child)
	}

	result.Profiles = append(result.Profiles, result.Added...)
	return result
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type exportedProfile struct {
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	Description  string     `json:"description,omitempty"`
	AvatarEmoji  string     `json:"avatarEmoji,omitempty"`
	ImportedFrom string     `json:"importedFrom,omitempty"`
	ImportedAt   *time.Time `json:"importedAt,omitempty"`
}

/*
Export encodes profiles as a provider code. Identifiers and artwork counts
stay behind.
*/
func Export(profiles []models.ChildProfile) (string, error) {
	exported := make([]exportedProfile, 0, len(profiles))

	for _, p := range profiles {
		exported = append(exported, exportedProfile{
			Name:         p.Name,
			Age:          p.Age,
			Description:  p.Description,
			AvatarEmoji:  p.AvatarEmoji,
			ImportedFrom: p.ImportedFrom,
			ImportedAt:   p.ImportedAt,
		})
	}

	b, err := json.Marshal(exported)

	if err != nil {
		return "", fmt.Errorf("error encoding profiles for export: %w", err)
	}

	return ProviderPrefix + base64.StdEncoding.EncodeToString(b), nil
}
