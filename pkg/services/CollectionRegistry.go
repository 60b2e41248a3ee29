package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/models"
)

const (
	ArtworksRecordName = "kidzart_user_artworks"
	ChildrenRecordName = "kidzart_children"
)

type CollectionRegistryConfig struct {
	IDs     *collection.IDGenerator
	Records collection.RecordStore
}

/*
CollectionRegistry hands out the persisted collections of each parent. A
collection is loaded the first time it is asked for and kept for the life
of the process.
*/
type CollectionRegistry struct {
	ids     *collection.IDGenerator
	records collection.RecordStore

	mu       sync.Mutex
	artworks map[uint]*collection.Store[models.Artwork]
	children map[uint]*collection.Store[models.ChildProfile]
}

func NewCollectionRegistry(config CollectionRegistryConfig) *CollectionRegistry {
	return &CollectionRegistry{
		ids:      config.IDs,
		records:  config.Records,
		artworks: map[uint]*collection.Store[models.Artwork]{},
		children: map[uint]*collection.Store[models.ChildProfile]{},
	}
}

func (r *CollectionRegistry) Artworks(ctx context.Context, parentID uint) *collection.Store[models.Artwork] {
	r.mu.Lock()
	store, ok := r.artworks[parentID]

	if !ok {
		store = collection.NewStore[models.Artwork](r.config(ArtworksRecordName, parentID))
		r.artworks[parentID] = store
	}

	r.mu.Unlock()

	store.Load(ctx)
	return store
}

func (r *CollectionRegistry) Children(ctx context.Context, parentID uint) *collection.Store[models.ChildProfile] {
	r.mu.Lock()
	store, ok := r.children[parentID]

	if !ok {
		store = collection.NewStore[models.ChildProfile](r.config(ChildrenRecordName, parentID))
		r.children[parentID] = store
	}

	r.mu.Unlock()

	store.Load(ctx)
	return store
}

func (r *CollectionRegistry) config(name string, parentID uint) collection.StoreConfig {
	return collection.StoreConfig{
		Name:    fmt.Sprintf("%s:%d", name, parentID),
		Records: r.records,
		IDs:     r.ids,
	}
}
