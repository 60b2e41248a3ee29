package services

import (
	"testing"

	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentSignInByPasscode(t *testing.T) {
	service := NewParentService(ParentServiceConfig{DB: newTestDB(t)})

	created, err := service.Create("Jordan", "jordan@example.com", "sunflower-42")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	found, err := service.GetByPassword("sunflower-42")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Jordan", found.Name)

	identity := found.Identity()
	assert.True(t, identity.SignedIn)
	assert.Equal(t, "jordan@example.com", identity.Email)

	_, err = service.GetByPassword("wrong")
	assert.ErrorIs(t, err, models.ErrParentNotFound)
}

func TestGetAllParentsSortedByName(t *testing.T) {
	service := NewParentService(ParentServiceConfig{DB: newTestDB(t)})

	_, err := service.Create("Riley", "", "pass-1")
	require.NoError(t, err)
	_, err = service.Create("Alex", "", "pass-2")
	require.NoError(t, err)

	parents, err := service.GetAll()
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Equal(t, "Alex", parents[0].Name)
	assert.Equal(t, "Riley", parents[1].Name)
}

func TestCreateParentRequiresNameAndPasscode(t *testing.T) {
	service := NewParentService(ParentServiceConfig{DB: newTestDB(t)})

	_, err := service.Create(" ", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSignedOutIdentity(t *testing.T) {
	var parent *models.Parent
	assert.False(t, parent.Identity().SignedIn)
}
