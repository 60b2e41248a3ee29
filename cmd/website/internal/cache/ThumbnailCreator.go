package cache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/geturloptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/alitto/pond/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/mvicenzino/kidzart/pkg/services"
	"github.com/nfnt/resize"
)

const (
	ThumbnailSize uint = 400
)

// Extensions the thumbnail worker can decode.
var thumbnailExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

type ThumbnailCreator interface {
	CreateThumbnails()
}

type ThumbnailCreatorConfig struct {
	ArtworkService services.ArtworkServicer
	AwsBucket      string
	AwsRegion      string
	Folder         string
	MaxWorkers     int
	OrphanAge      time.Duration
	ParentService  services.ParentServicer
	PublicBaseURL  string
	S3Client       s3.S3Client
	ShutdownCtx    context.Context
}

/*
ThumbnailCreatorService makes a small JPEG for every uploaded artwork that
does not have one yet, and removes uploaded originals no artwork points at
any more.
*/
type ThumbnailCreatorService struct {
	artworkService services.ArtworkServicer
	awsBucket      string
	awsRegion      string
	folder         string
	maxWorkers     int
	orphanAge      time.Duration
	parentService  services.ParentServicer
	publicBaseURL  string
	s3Client       s3.S3Client
	shutdownCtx    context.Context
}

func NewThumbnailCreatorService(config ThumbnailCreatorConfig) ThumbnailCreatorService {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}

	if config.OrphanAge <= 0 {
		config.OrphanAge = 24 * time.Hour
	}

	if config.ShutdownCtx == nil {
		config.ShutdownCtx = context.Background()
	}

	return ThumbnailCreatorService{
		artworkService: config.ArtworkService,
		awsBucket:      config.AwsBucket,
		awsRegion:      config.AwsRegion,
		folder:         config.Folder,
		maxWorkers:     config.MaxWorkers,
		orphanAge:      config.OrphanAge,
		parentService:  config.ParentService,
		publicBaseURL:  strings.TrimSuffix(config.PublicBaseURL, "/"),
		s3Client:       config.S3Client,
		shutdownCtx:    config.ShutdownCtx,
	}
}

func (c ThumbnailCreatorService) CreateThumbnails() {
	var (
		err     error
		parents []models.Parent
	)

	slog.Info("starting thumbnail creation...")

	if err = c.ensureBucketExists(c.awsBucket); err != nil {
		slog.Error("error ensuring bucket exists. skipping this run", "bucket", c.awsBucket, "error", err)
		return
	}

	if parents, err = c.parentService.GetAll(); err != nil {
		slog.Error("error retrieving parents from database", "error", err)
		return
	}

	pool := pond.NewPool(c.maxWorkers, pond.WithContext(c.shutdownCtx))

	for _, parent := range parents {
		plan := c.planParent(c.shutdownCtx, parent.ID)

		for _, artwork := range plan.pending {
			pool.Submit(func() {
				slog.Info("creating thumbnail...", "parentID", parent.ID, "artworkID", artwork.ID, "key", artwork.ImageKey)

				if err := c.createThumbnail(parent.ID, artwork); err != nil {
					slog.Error("error creating thumbnail", "parentID", parent.ID, "artworkID", artwork.ID, "error", err)
				}
			})
		}

		if !plan.sweepOrphans {
			continue
		}

		pool.Submit(func() {
			c.removeOrphans(parent.ID, plan.referenced)
		})
	}

	_ = pool.Stop().Wait()
	slog.Info("thumbnail creation finished", "parents", len(parents))
}

type parentPlan struct {
	pending      []models.Artwork
	referenced   map[string]struct{}
	sweepOrphans bool
}

/*
planParent works out which of a parent's uploads need a thumbnail and which
originals are still referenced. Orphans are only swept when the uploads
loaded cleanly; otherwise every original would look unreferenced.
*/
func (c ThumbnailCreatorService) planParent(ctx context.Context, parentID uint) parentPlan {
	plan := parentPlan{
		pending:    []models.Artwork{},
		referenced: map[string]struct{}{},
	}

	if err := c.artworkService.UploadsLoadErr(ctx, parentID); err != nil {
		slog.Error("uploads did not load. skipping orphan cleanup", "parentID", parentID, "error", err)
	} else {
		plan.sweepOrphans = true
	}

	for _, artwork := range c.artworkService.UserArtworks(ctx, parentID) {
		if artwork.ImageKey == "" {
			continue
		}

		plan.referenced[artwork.ImageKey] = struct{}{}

		if NeedsThumbnail(artwork) {
			plan.pending = append(plan.pending, artwork)
		}
	}

	return plan
}

/*
NeedsThumbnail reports whether the worker should build a thumbnail for the
artwork.
*/
func NeedsThumbnail(artwork models.Artwork) bool {
	if artwork.ImageKey == "" || artwork.ThumbnailURL != "" {
		return false
	}

	ext := strings.ToLower(path.Ext(artwork.ImageKey))
	return slices.IsInSlice(ext, thumbnailExtensions)
}

// ThumbnailKey is where the thumbnail of an original is stored.
func ThumbnailKey(folder string, parentID uint, originalKey string) string {
	name := strings.TrimSuffix(path.Base(originalKey), path.Ext(originalKey)) + ".jpg"
	return path.Join(folder, fmt.Sprint(parentID), "thumbnails", name)
}

func (c ThumbnailCreatorService) ensureBucketExists(bucketName string) error {
	var (
		err    error
		exists bool
	)

	exists, err = c.s3Client.BucketExists(bucketName)

	if err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", bucketName, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", bucketName)

	err = c.s3Client.CreateBucket(
		bucketName,
		createbucketoptions.WithRegion(c.awsRegion),
	)

	if err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", bucketName, err)
	}

	return nil
}

func (c ThumbnailCreatorService) createThumbnail(parentID uint, artwork models.Artwork) error {
	var (
		err      error
		img      image.Image
		original s3.GetObjectResponse
		buf      bytes.Buffer
		url      string
	)

	original, err = c.s3Client.Get(
		c.awsBucket,
		artwork.ImageKey,
	)

	if err != nil {
		return fmt.Errorf("error retrieving original image %s: %w", artwork.ImageKey, err)
	}

	defer original.Body.Close()

	if img, err = resizeReader(original.Body, ThumbnailSize); err != nil {
		return fmt.Errorf("error resizing image: %w", err)
	}

	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return fmt.Errorf("error encoding image for thumbnail: %w", err)
	}

	putKey := ThumbnailKey(c.folder, parentID, artwork.ImageKey)

	if _, err = c.s3Client.Put(c.awsBucket, putKey, &buf); err != nil {
		return fmt.Errorf("error uploading thumbnail to S3: %w", err)
	}

	if url, err = c.urlFor(putKey); err != nil {
		return err
	}

	if _, err = c.artworkService.Update(c.shutdownCtx, parentID, artwork.ID, models.ArtworkPatch{ThumbnailURL: &url}); err != nil {
		return fmt.Errorf("error saving thumbnail URL for artwork %d: %w", artwork.ID, err)
	}

	return nil
}

/*
removeOrphans deletes originals that no artwork references. Recent objects
are left alone since their artwork may still be on its way into the
collection.
*/
func (c ThumbnailCreatorService) removeOrphans(parentID uint, referenced map[string]struct{}) {
	cutoff := time.Now().Add(-c.orphanAge)
	prefix := path.Join(c.folder, fmt.Sprint(parentID), "originals")

	response, err := c.s3Client.List(
		c.awsBucket,
		prefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			if _, ok := referenced[aws.ToString(obj.Key)]; ok {
				return false
			}

			return obj.LastModified != nil && obj.LastModified.Before(cutoff)
		}),
	)

	if err != nil {
		slog.Error("error listing originals", "parentID", parentID, "prefix", prefix, "error", err)
		return
	}

	if len(response.Objects) == 0 {
		return
	}

	keys := make([]string, 0, len(response.Objects))

	for _, obj := range response.Objects {
		keys = append(keys, obj.Key)
	}

	if _, err = c.s3Client.Delete(c.awsBucket, keys); err != nil {
		slog.Error("error removing orphaned originals", "parentID", parentID, "count", len(keys), "error", err)
		return
	}

	slog.Info("removed orphaned originals", "parentID", parentID, "count", len(keys))
}

func (c ThumbnailCreatorService) urlFor(key string) (string, error) {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + key, nil
	}

	response, err := c.s3Client.List(
		c.awsBucket,
		key,
		listoptions.WithGetUrls(),
		listoptions.WithGetUrlOptions(
			geturloptions.WithExpiration(time.Hour*24*7),
		),
	)

	if err != nil {
		return "", fmt.Errorf("error getting URL for thumbnail '%s': %w", key, err)
	}

	for _, obj := range response.Objects {
		if obj.Key == key {
			return obj.Url, nil
		}
	}

	return "", fmt.Errorf("thumbnail '%s' was not found after upload", key)
}

func resizeReader(r io.Reader, maxSize uint) (image.Image, error) {
	var (
		err error
		img image.Image
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return fitWithin(img, maxSize), nil
}

/*
fitWithin scales img so its longest edge is maxSize, keeping the aspect
ratio.
*/
func fitWithin(img image.Image, maxSize uint) image.Image {
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	var newWidth, newHeight uint

	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
