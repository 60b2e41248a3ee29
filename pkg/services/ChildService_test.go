package services

import (
	"encoding/base64"
	"testing"

	"github.com/mvicenzino/kidzart/pkg/importer"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importCode(json string) string {
	return importer.ProviderPrefix + base64.StdEncoding.EncodeToString([]byte(json))
}

func TestChildFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		form   ChildForm
		fields []string
	}{
		{name: "valid", form: ChildForm{Name: " Mia ", Age: 6}},
		{name: "blank name", form: ChildForm{Name: "   ", Age: 6}, fields: []string{"name"}},
		{name: "too young", form: ChildForm{Name: "Mia", Age: 0}, fields: []string{"age"}},
		{name: "too old", form: ChildForm{Name: "Mia", Age: 19}, fields: []string{"age"}},
		{name: "unknown avatar", form: ChildForm{Name: "Mia", Age: 6, AvatarEmoji: "x"}, fields: []string{"avatarEmoji"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := tt.form.Validate()

			if len(tt.fields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Mia", form.Name)
				assert.Equal(t, models.DefaultAvatarEmoji, form.AvatarEmoji)
				return
			}

			var v ValidationErrors
			require.ErrorAs(t, err, &v)
			assert.ErrorIs(t, err, ErrValidation)

			for _, field := range tt.fields {
				assert.True(t, v.Has(field), field)
			}
		})
	}
}

func TestAddEditAndDeleteChild(t *testing.T) {
	s := newTestServices(nil)

	mia, err := s.children.Add(ctx(), 7, ChildForm{Name: "Mia", Age: 6, AvatarEmoji: "🦄"})
	require.NoError(t, err)
	assert.NotZero(t, mia.ID)
	assert.Equal(t, 0, mia.ArtworkCount)

	edited, err := s.children.Edit(ctx(), 7, mia.ID, ChildForm{Name: "Mia Rose", Age: 7, AvatarEmoji: "🦄"})
	require.NoError(t, err)
	assert.Equal(t, mia.ID, edited.ID)
	assert.Equal(t, "Mia Rose", edited.Name)

	err = s.children.Delete(ctx(), 7, mia.ID, false)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Len(t, s.children.List(ctx(), 7), 1)

	require.NoError(t, s.children.Delete(ctx(), 7, mia.ID, true))
	assert.Empty(t, s.children.List(ctx(), 7))

	_, err = s.children.Get(ctx(), 7, mia.ID)
	assert.ErrorIs(t, err, ErrChildNotFound)
}

func TestImportPreviewConfirmSkipsDuplicates(t *testing.T) {
	s := newTestServices(nil)

	_, err := s.children.Add(ctx(), 7, ChildForm{Name: "Sam", Age: 7})
	require.NoError(t, err)

	preview, err := s.children.PreviewImport(ctx(), 7, importCode(`[{"name":"sam","age":8},{"childName":"Lee","childAge":"9"}]`))
	require.NoError(t, err)
	require.Len(t, preview, 2)
	assert.Len(t, s.children.List(ctx(), 7), 1)

	pending, ok := s.children.PendingImport(7)
	require.True(t, ok)
	assert.Len(t, pending, 2)

	result, err := s.children.ConfirmImport(ctx(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Added, 1)
	assert.Equal(t, "Lee", result.Added[0].Name)
	assert.Equal(t, importer.ProviderSource, result.Added[0].ImportedFrom)

	children := s.children.List(ctx(), 7)
	require.Len(t, children, 2)
	assert.Equal(t, "Sam", children[0].Name)
	assert.Equal(t, "Lee", children[1].Name)

	_, ok = s.children.PendingImport(7)
	assert.False(t, ok)
}

func TestImportInvalidCodeLeavesProfilesAlone(t *testing.T) {
	s := newTestServices(nil)

	_, err := s.children.PreviewImport(ctx(), 7, "not a code")
	require.Error(t, err)

	var v ValidationErrors
	require.ErrorAs(t, err, &v)
	assert.True(t, v.Has("code"))

	_, ok := s.children.PendingImport(7)
	assert.False(t, ok)

	_, err = s.children.ConfirmImport(ctx(), 7)
	assert.ErrorIs(t, err, ErrNoPendingImport)
}

func TestCancelImportDiscardsPreview(t *testing.T) {
	s := newTestServices(nil)

	_, err := s.children.PreviewImport(ctx(), 7, importCode(`{"name":"Ava"}`))
	require.NoError(t, err)

	s.children.CancelImport(7)

	_, err = s.children.ConfirmImport(ctx(), 7)
	assert.ErrorIs(t, err, ErrNoPendingImport)
	assert.Empty(t, s.children.List(ctx(), 7))
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	s := newTestServices(nil)

	_, err := s.children.Add(ctx(), 7, ChildForm{Name: "Mia", Age: 6, Description: "Loves horses", AvatarEmoji: "🦄"})
	require.NoError(t, err)

	code, err := s.children.Export(ctx(), 7)
	require.NoError(t, err)

	preview, err := s.children.PreviewImport(ctx(), 8, code)
	require.NoError(t, err)
	require.Len(t, preview, 1)
	assert.Equal(t, "Mia", preview[0].Name)
	assert.Equal(t, 6, preview[0].Age)
	assert.Equal(t, "Loves horses", preview[0].Description)
	assert.Equal(t, "🦄", preview[0].AvatarEmoji)
}
