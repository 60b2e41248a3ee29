package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/adampresley/adamgokit/slices"
	"github.com/mvicenzino/kidzart/pkg/importer"
	"github.com/mvicenzino/kidzart/pkg/models"
)

type ChildServicer interface {
	List(ctx context.Context, parentID uint) []models.ChildProfile
	Get(ctx context.Context, parentID uint, id int64) (models.ChildProfile, error)
	Add(ctx context.Context, parentID uint, form ChildForm) (models.ChildProfile, error)
	Edit(ctx context.Context, parentID uint, id int64, form ChildForm) (models.ChildProfile, error)
	Delete(ctx context.Context, parentID uint, id int64, confirmed bool) error
	IncrementArtworkCount(ctx context.Context, parentID uint, id int64) error
	PreviewImport(ctx context.Context, parentID uint, code string) ([]models.ChildProfile, error)
	PendingImport(parentID uint) ([]models.ChildProfile, bool)
	ConfirmImport(ctx context.Context, parentID uint) (importer.MergeResult, error)
	CancelImport(parentID uint)
	Export(ctx context.Context, parentID uint) (string, error)
}

/*
ChildForm is what the add and edit forms submit.
*/
type ChildForm struct {
	Name        string
	Age         int
	Description string
	AvatarEmoji string
}

/*
Validate trims the form and checks it. The returned form is the one that
should be stored.
*/
func (f ChildForm) Validate() (ChildForm, error) {
	errs := ValidationErrors{}

	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	if f.Name == "" {
		errs["name"] = "Please enter a name"
	}

	if f.Age < models.MinChildAge || f.Age > models.MaxChildAge {
		errs["age"] = fmt.Sprintf("Age must be between %d and %d", models.MinChildAge, models.MaxChildAge)
	}

	if f.AvatarEmoji == "" {
		f.AvatarEmoji = models.DefaultAvatarEmoji
	}

	if !slices.IsInSlice(f.AvatarEmoji, models.AvatarEmojis) {
		errs["avatarEmoji"] = "Please pick one of the avatars"
	}

	return f, errs.Err()
}

type ChildServiceConfig struct {
	Collections *CollectionRegistry
	Normalizer  importer.Normalizer
}

type ChildService struct {
	collections *CollectionRegistry
	normalizer  importer.Normalizer

	mu      *sync.Mutex
	pending map[uint][]models.ChildProfile
}

func NewChildService(config ChildServiceConfig) ChildService {
	return ChildService{
		collections: config.Collections,
		normalizer:  config.Normalizer,
		mu:          &sync.Mutex{},
		pending:     map[uint][]models.ChildProfile{},
	}
}

func (s ChildService) List(ctx context.Context, parentID uint) []models.ChildProfile {
	if parentID == 0 {
		return []models.ChildProfile{}
	}

	return s.collections.Children(ctx, parentID).All()
}

func (s ChildService) Get(ctx context.Context, parentID uint, id int64) (models.ChildProfile, error) {
	if parentID == 0 {
		return models.ChildProfile{}, ErrSignInRequired
	}

	child, ok := s.collections.Children(ctx, parentID).Get(id)

	if !ok {
		return models.ChildProfile{}, ErrChildNotFound
	}

	return child, nil
}

func (s ChildService) Add(ctx context.Context, parentID uint, form ChildForm) (models.ChildProfile, error) {
	var (
		err error
	)

	if parentID == 0 {
		return models.ChildProfile{}, ErrSignInRequired
	}

	if form, err = form.Validate(); err != nil {
		return models.ChildProfile{}, err
	}

	child := models.ChildProfile{
		Name:        form.Name,
		Age:         form.Age,
		Description: form.Description,
		AvatarEmoji: form.AvatarEmoji,
	}

	return s.collections.Children(ctx, parentID).Add(ctx, child), nil
}

func (s ChildService) Edit(ctx context.Context, parentID uint, id int64, form ChildForm) (models.ChildProfile, error) {
	var (
		err error
	)

	if parentID == 0 {
		return models.ChildProfile{}, ErrSignInRequired
	}

	if form, err = form.Validate(); err != nil {
		return models.ChildProfile{}, err
	}

	patch := models.ChildProfilePatch{
		Name:        &form.Name,
		Age:         &form.Age,
		Description: &form.Description,
		AvatarEmoji: &form.AvatarEmoji,
	}

	updated, ok := s.collections.Children(ctx, parentID).Update(ctx, id, patch.Apply)

	if !ok {
		return models.ChildProfile{}, ErrChildNotFound
	}

	return updated, nil
}

/*
Delete removes a child profile once the parent has confirmed. Artwork
attributed to the child is kept.
*/
func (s ChildService) Delete(ctx context.Context, parentID uint, id int64, confirmed bool) error {
	if parentID == 0 {
		return ErrSignInRequired
	}

	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	if !s.collections.Children(ctx, parentID).Remove(ctx, id) {
		return ErrChildNotFound
	}

	return nil
}

func (s ChildService) IncrementArtworkCount(ctx context.Context, parentID uint, id int64) error {
	_, ok := s.collections.Children(ctx, parentID).Update(ctx, id, func(c models.ChildProfile) models.ChildProfile {
		c.ArtworkCount++
		return c
	})

	if !ok {
		return ErrChildNotFound
	}

	return nil
}

/*
PreviewImport decodes an import code and holds the profiles until the
parent confirms or cancels. A new preview replaces any earlier one.
*/
func (s ChildService) PreviewImport(ctx context.Context, parentID uint, code string) ([]models.ChildProfile, error) {
	if parentID == 0 {
		return nil, ErrSignInRequired
	}

	profiles, err := s.normalizer.Normalize(code)

	if err != nil {
		if errors.Is(err, importer.ErrInvalidImportCode) {
			return nil, ValidationErrors{"code": "Invalid import code. Please check and try again."}
		}

		return nil, fmt.Errorf("error reading import code: %w", err)
	}

	s.mu.Lock()
	s.pending[parentID] = profiles
	s.mu.Unlock()

	return profiles, nil
}

func (s ChildService) PendingImport(parentID uint) ([]models.ChildProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, ok := s.pending[parentID]
	return profiles, ok
}

/*
ConfirmImport appends the pending profiles whose names are not already
taken. Skipped reports how many were dropped as duplicates.
*/
func (s ChildService) ConfirmImport(ctx context.Context, parentID uint) (importer.MergeResult, error) {
	s.mu.Lock()
	incoming, ok := s.pending[parentID]
	delete(s.pending, parentID)
	s.mu.Unlock()

	if !ok {
		return importer.MergeResult{}, ErrNoPendingImport
	}

	store := s.collections.Children(ctx, parentID)
	result := importer.Merge(store.All(), incoming)

	if len(result.Added) > 0 {
		result.Added = store.Import(ctx, result.Added)
	}

	result.Profiles = store.All()
	return result, nil
}

func (s ChildService) CancelImport(parentID uint) {
	s.mu.Lock()
	delete(s.pending, parentID)
	s.mu.Unlock()
}

func (s ChildService) Export(ctx context.Context, parentID uint) (string, error) {
	if parentID == 0 {
		return "", ErrSignInRequired
	}

	return importer.Export(s.List(ctx, parentID))
}
