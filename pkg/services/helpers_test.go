package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/database"
	"github.com/mvicenzino/kidzart/pkg/importer"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/rfberaldo/sqlz"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlz.DB {
	t.Helper()

	db, err := database.Connect(database.DriverSqlite, "file:"+filepath.Join(t.TempDir(), "kidzart.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, database.DriverSqlite))

	return db
}

type testServices struct {
	records  *collection.MemoryRecords
	registry *CollectionRegistry
	artworks ArtworkService
	children ChildService
}

func newTestServices(seed []models.Artwork) testServices {
	clock := func() time.Time { return testNow }
	ids := collection.NewIDGenerator(clock)
	records := collection.NewMemoryRecords()

	registry := NewCollectionRegistry(CollectionRegistryConfig{
		IDs:     ids,
		Records: records,
	})

	return testServices{
		records:  records,
		registry: registry,
		artworks: NewArtworkService(ArtworkServiceConfig{
			Collections: registry,
			Seed:        seed,
			Now:         clock,
		}),
		children: NewChildService(ChildServiceConfig{
			Collections: registry,
			Normalizer:  importer.NewNormalizer(importer.NormalizerConfig{IDs: ids, Now: clock}),
		}),
	}
}

func ctx() context.Context {
	return context.Background()
}

func ptr[T any](v T) *T {
	return &v
}
