package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mvicenzino/kidzart/pkg/collection"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/taxonomy"
	"github.com/rfberaldo/sqlz"
)

type RemoteCatalogServicer interface {
	ListArtworks(filters CatalogFilters) ([]models.Artwork, error)
	CreateArtwork(parentID uint, artwork models.Artwork) (models.Artwork, error)
	UpdateArtwork(id int64, patch models.ArtworkPatch) (models.Artwork, error)
	DeleteArtwork(id int64) error
}

/*
CatalogFilters narrows ListArtworks. Empty strings and the "all" sentinel
match everything.
*/
type CatalogFilters struct {
	AgeGroup    string
	Medium      string
	Theme       string
	IsHighlight *bool
}

type RemoteCatalogServiceConfig struct {
	DB  *sqlz.DB
	IDs *collection.IDGenerator
}

/*
RemoteCatalogService is the shared relational artwork catalog. It is the
optional remote counterpart of the per-parent collections.
*/
type RemoteCatalogService struct {
	db  *sqlz.DB
	ids *collection.IDGenerator
}

type artworkRow struct {
	ID           int64         `db:"id"`
	ParentID     uint          `db:"parent_id"`
	ChildID      sql.NullInt64 `db:"child_id"`
	Title        string        `db:"title"`
	Description  string        `db:"description"`
	Artist       string        `db:"artist"`
	Age          int           `db:"age"`
	AgeGroup     string        `db:"age_group"`
	Medium       string        `db:"medium"`
	Theme        string        `db:"theme"`
	Category     string        `db:"category"`
	Style        string        `db:"style"`
	ImageURL     string        `db:"image_url"`
	ThumbnailURL string        `db:"thumbnail_url"`
	Likes        int           `db:"likes"`
	IsHighlight  bool          `db:"is_highlight"`
	CreatedAt    time.Time     `db:"created_at"`
}

func (r artworkRow) artwork() models.Artwork {
	createdAt := r.CreatedAt

	result := models.Artwork{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Artist:       r.Artist,
		Age:          r.Age,
		AgeGroup:     r.AgeGroup,
		Medium:       r.Medium,
		Theme:        r.Theme,
		Category:     r.Category,
		Style:        r.Style,
		ImageURL:     r.ImageURL,
		ThumbnailURL: r.ThumbnailURL,
		Likes:        r.Likes,
		Highlight:    r.IsHighlight,
		IsUserUpload: r.ParentID != 0,
		UploadedAt:   &createdAt,
	}

	if r.ChildID.Valid {
		childID := r.ChildID.Int64
		result.ChildID = &childID
	}

	return result
}

const artworkColumns = `
   a.id
   , a.parent_id
   , a.child_id
   , a.title
   , a.description
   , a.artist
   , a.age
   , a.age_group
   , a.medium
   , a.theme
   , a.category
   , a.style
   , a.image_url
   , a.thumbnail_url
   , a.likes
   , a.is_highlight
   , a.created_at
`

func NewRemoteCatalogService(config RemoteCatalogServiceConfig) RemoteCatalogService {
	if config.IDs == nil {
		config.IDs = collection.NewIDGenerator(nil)
	}

	return RemoteCatalogService{
		db:  config.DB,
		ids: config.IDs,
	}
}

func (s RemoteCatalogService) ListArtworks(filters CatalogFilters) ([]models.Artwork, error) {
	var (
		err  error
		rows []artworkRow
	)

	b := strings.Builder{}
	params := []any{}

	b.WriteString("SELECT" + artworkColumns + "FROM artworks AS a\nWHERE 1=1\n")

	addFilter := func(column, value string) {
		if value == "" || value == "all" {
			return
		}

		b.WriteString("   AND a." + column + "=?\n")
		params = append(params, value)
	}

	addFilter("age_group", filters.AgeGroup)
	addFilter("medium", filters.Medium)
	addFilter("theme", filters.Theme)

	if filters.IsHighlight != nil {
		b.WriteString("   AND a.is_highlight=?\n")
		params = append(params, *filters.IsHighlight)
	}

	b.WriteString("ORDER BY a.created_at DESC, a.id DESC\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &rows, b.String(), params...); err != nil {
		return nil, fmt.Errorf("error querying for artworks: %w", err)
	}

	result := make([]models.Artwork, 0, len(rows))

	for _, row := range rows {
		result = append(result, row.artwork())
	}

	return result, nil
}

/*
CreateArtwork inserts an artwork for a parent. The age group is always
derived from the artist's age.
*/
func (s RemoteCatalogService) CreateArtwork(parentID uint, artwork models.Artwork) (models.Artwork, error) {
	var (
		err error
	)

	if artwork.ID == 0 {
		artwork.ID = s.ids.Next()
	}

	artwork.AgeGroup = taxonomy.AgeGroupForAge(artwork.Age)

	createdAt := time.Now().UTC()

	if artwork.UploadedAt != nil {
		createdAt = artwork.UploadedAt.UTC()
	}

	var childID sql.NullInt64

	if artwork.ChildID != nil {
		childID = sql.NullInt64{Int64: *artwork.ChildID, Valid: true}
	}

	query := `
INSERT INTO artworks (
   id,
   parent_id,
   child_id,
   title,
   description,
   artist,
   age,
   age_group,
   medium,
   theme,
   category,
   style,
   image_url,
   thumbnail_url,
   likes,
   is_highlight,
   created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		artwork.ID,
		parentID,
		childID,
		artwork.Title,
		artwork.Description,
		artwork.Artist,
		artwork.Age,
		artwork.AgeGroup,
		artwork.Medium,
		artwork.Theme,
		artwork.Category,
		artwork.Style,
		artwork.ImageURL,
		artwork.ThumbnailURL,
		artwork.Likes,
		artwork.Highlight,
		createdAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, query, params...); err != nil {
		return models.Artwork{}, fmt.Errorf("error inserting artwork '%s': %w", artwork.Title, err)
	}

	return s.getArtwork(artwork.ID)
}

func (s RemoteCatalogService) UpdateArtwork(id int64, patch models.ArtworkPatch) (models.Artwork, error) {
	var (
		err     error
		current models.Artwork
	)

	if current, err = s.getArtwork(id); err != nil {
		return models.Artwork{}, err
	}

	updated := patch.Apply(current)

	query := `
UPDATE artworks SET
   title=?
   , description=?
   , medium=?
   , theme=?
   , likes=?
   , is_highlight=?
   , thumbnail_url=?
WHERE 1=1
   AND id=?
`

	params := []any{
		updated.Title,
		updated.Description,
		updated.Medium,
		updated.Theme,
		updated.Likes,
		updated.Highlight,
		updated.ThumbnailURL,
		id,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, query, params...); err != nil {
		return models.Artwork{}, fmt.Errorf("error updating artwork %d: %w", id, err)
	}

	return updated, nil
}

func (s RemoteCatalogService) DeleteArtwork(id int64) error {
	var (
		err      error
		result   sql.Result
		affected int64
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if result, err = s.db.Exec(ctx, "DELETE FROM artworks WHERE id=?", id); err != nil {
		return fmt.Errorf("error deleting artwork %d: %w", id, err)
	}

	if affected, err = result.RowsAffected(); err == nil && affected == 0 {
		return ErrArtworkNotFound
	}

	return nil
}

func (s RemoteCatalogService) getArtwork(id int64) (models.Artwork, error) {
	var (
		err error
		row artworkRow
	)

	query := "SELECT" + artworkColumns + "FROM artworks AS a\nWHERE 1=1\n   AND a.id=?\n"

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &row, query, id); err != nil {
		if sqlz.IsNotFound(err) {
			return models.Artwork{}, ErrArtworkNotFound
		}

		return models.Artwork{}, fmt.Errorf("error querying for artwork %d: %w", id, err)
	}

	return row.artwork(), nil
}
