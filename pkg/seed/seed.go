/*
Package seed ships the example artwork bundled with the gallery. The seed
catalog is read-only.
*/
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/mvicenzino/kidzart/pkg/models"
)

var (
	//go:embed artworks.json
	artworksJSON []byte

	artworks []models.Artwork
)

func init() {
	if err := json.Unmarshal(artworksJSON, &artworks); err != nil {
		panic(fmt.Errorf("error reading bundled seed catalog: %w", err))
	}
}

// Artworks returns a copy of the seed catalog in its bundled order.
func Artworks() []models.Artwork {
	result := make([]models.Artwork, len(artworks))
	copy(result, artworks)
	return result
}
