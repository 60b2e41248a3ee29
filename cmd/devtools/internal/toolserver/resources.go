package toolserver

import (
	"fmt"
	"strings"

	"github.com/mvicenzino/kidzart/pkg/taxonomy"
)

const (
	structureURI = "kidzart://structure"
	taxonomyURI  = "kidzart://taxonomy"
)

const structureText = `Kidzart App Structure:

cmd/
├── website/            - HTTP server, routes and templates
│   └── internal/
│       ├── account/    - Parent sign-in and sign-out
│       ├── artworks/   - Upload, like and delete
│       ├── cache/      - Thumbnail worker
│       ├── children/   - Child profiles, import, export, portfolios
│       ├── home/       - Gallery page and filter bar
│       └── prints/     - Print shop checkout
└── devtools/           - This tool server
pkg/
├── collection/         - Persisted collection store
├── database/           - Connection and migrations
├── gallery/            - Filter state and filter bar
├── importer/           - Kindora import codes and export
├── models/             - Artwork, child profile, parent, print order
├── seed/               - Built-in gallery artwork
├── services/           - Catalog, children, storage, fulfillment, email
└── taxonomy/           - Age groups, mediums and themes

Key Features:
- Gallery with filtering by age group, medium and theme
- Highlights section for featured artwork
- Child profiles with Kindora import and export
- Artwork upload with thumbnails
- Order prints through Printful
- Portfolio downloads by email`

func resourceDefinitions() []resourceDefinition {
	return []resourceDefinition{
		{URI: structureURI, Name: "App Structure", Description: "Overview of the Kidzart app structure", MimeType: "text/plain"},
		{URI: taxonomyURI, Name: "Art Taxonomy", Description: "Categories and filters available for artwork", MimeType: "text/plain"},
	}
}

func (s *Server) readResource(uri string) ([]resourceContent, error) {
	switch uri {
	case structureURI:
		return []resourceContent{{URI: uri, MimeType: "text/plain", Text: structureText}}, nil

	case taxonomyURI:
		return []resourceContent{{URI: uri, MimeType: "text/plain", Text: TaxonomyText()}}, nil
	}

	return nil, fmt.Errorf("unknown resource: %s", uri)
}

// TaxonomyText renders every axis and its entries as plain text.
func TaxonomyText() string {
	b := strings.Builder{}
	b.WriteString("Kidzart Art Taxonomy:\n")

	for _, axis := range taxonomy.Axes() {
		fmt.Fprintf(&b, "\n%s:\n", axis.Label)

		for _, entry := range axis.Entries {
			if entry.Range != "" {
				fmt.Fprintf(&b, "- %s: %s\n", entry.ID, entry.Range)
				continue
			}

			fmt.Fprintf(&b, "- %s %s (%s)\n", entry.Emoji, entry.Label, entry.ID)
		}
	}

	return b.String()
}
