package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/putoptions"
	"github.com/mvicenzino/kidzart/pkg/models"
)

type PortfolioServiceConfig struct {
	ArtworkService  ArtworkServicer
	BaseDownloadURL string
	Bucket          string
	ChildService    ChildServicer
	EmailService    EmailServicer
	ExpirationDays  int
	Folder          string
	ParentService   ParentServicer
	S3Client        s3.S3Client
}

type PortfolioServicer interface {
	CreatePortfolioAsync(parent models.Identity, childID int64) (string, error)
	DownloadKey(parentID uint, filename string) string
	StartCleanupRoutine(interval time.Duration)
	StopCleanupRoutine()
}

/*
PortfolioService bundles every uploaded piece by one child into a ZIP in
object storage and mails the parent a download link. Old bundles are
removed by a periodic cleanup routine.
*/
type PortfolioService struct {
	config        PortfolioServiceConfig
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	wg            *sync.WaitGroup
}

func NewPortfolioService(config PortfolioServiceConfig) *PortfolioService {
	if config.ExpirationDays <= 0 {
		config.ExpirationDays = 7
	}

	return &PortfolioService{
		config:      config,
		stopCleanup: make(chan struct{}),
		wg:          &sync.WaitGroup{},
	}
}

// PortfolioFilename is the download name of a child's bundle.
func PortfolioFilename(child models.ChildProfile) string {
	name := strings.Join(strings.Fields(strings.ToLower(child.Name)), "-")
	return fmt.Sprintf("%s-%d.zip", name, child.ID)
}

func (s *PortfolioService) downloadsKey(parentID uint) string {
	return path.Join(s.config.Folder, fmt.Sprint(parentID), "downloads")
}

// DownloadKey is the object key of a parent's bundle. Path segments in filename are dropped.
func (s *PortfolioService) DownloadKey(parentID uint, filename string) string {
	return path.Join(s.downloadsKey(parentID), path.Base("/"+filename))
}

func (s *PortfolioService) downloadURL(filename string) string {
	return fmt.Sprintf("%s/downloads/%s", strings.TrimSuffix(s.config.BaseDownloadURL, "/"), filename)
}

/*
CreatePortfolioAsync starts building the bundle in the background and
returns its filename. An existing bundle is mailed again without being
rebuilt.
*/
func (s *PortfolioService) CreatePortfolioAsync(parent models.Identity, childID int64) (string, error) {
	var (
		err        error
		child      models.ChildProfile
		objectData *s3.ObjectMetadata
	)

	if !parent.SignedIn {
		return "", ErrSignInRequired
	}

	if child, err = s.config.ChildService.Get(context.Background(), parent.ID, childID); err != nil {
		return "", err
	}

	artworks := s.config.ArtworkService.ByChild(context.Background(), parent.ID, childID)
	keys := make([]string, 0, len(artworks))

	for _, artwork := range artworks {
		if artwork.ImageKey != "" {
			keys = append(keys, artwork.ImageKey)
		}
	}

	if len(keys) == 0 {
		return "", ValidationErrors{"portfolio": fmt.Sprintf("%s has no uploaded artwork yet", child.Name)}
	}

	filename := PortfolioFilename(child)
	zipKey := path.Join(s.downloadsKey(parent.ID), filename)

	if objectData, err = s.config.S3Client.StatObject(s.config.Bucket, zipKey); err == nil && objectData != nil {
		slog.Info("portfolio already exists, sending email only", "zipKey", zipKey, "childID", childID)

		if err = s.config.EmailService.SendPortfolioReady(parent, child, s.downloadURL(filename), s.config.ExpirationDays); err != nil {
			slog.Error("failed to send portfolio email", "error", err, "email", parent.Email, "childID", childID)
			return filename, err
		}

		return filename, nil
	}

	go s.processPortfolio(zipKey, filename, keys, parent, child)

	return filename, nil
}

func (s *PortfolioService) processPortfolio(zipKey, filename string, keys []string, parent models.Identity, child models.ChildProfile) {
	l := slog.With("childID", child.ID, "zipKey", zipKey)
	l.Info("starting portfolio creation")

	addFile := func(zipWriter *zip.Writer, key string) error {
		imageName := path.Base(key)

		src, err := s.config.S3Client.Get(s.config.Bucket, key)

		if err != nil {
			return fmt.Errorf("failed to get source file '%s' from S3: %w", key, err)
		}

		defer src.Body.Close()

		dest, err := zipWriter.Create(imageName)

		if err != nil {
			return fmt.Errorf("failed to create file '%s' in zip: %w", imageName, err)
		}

		if _, err := io.Copy(dest, src.Body); err != nil {
			return fmt.Errorf("failed to copy file '%s' to zip: %w", imageName, err)
		}

		return nil
	}

	stream, err := s.config.S3Client.PutStream(s.config.Bucket, zipKey, putoptions.WithContentType("application/zip"))

	if err != nil {
		l.Error("failed to setup s3 stream", "error", err)
		return
	}

	zipWriter := zip.NewWriter(stream.Writer)

	for _, key := range keys {
		if err = addFile(zipWriter, key); err != nil {
			l.Error("failed to add artwork to portfolio", "error", err, "key", key)
			continue
		}
	}

	if err = zipWriter.Close(); err != nil {
		l.Error("failed to close zip writer", "error", err)
		return
	}

	if err = stream.Writer.Close(); err != nil {
		l.Error("failed to close s3 stream writer", "error", err)
		return
	}

	if _, err = stream.Wait(); err != nil {
		l.Error("failed to wait for s3 stream", "error", err)
		return
	}

	if err = s.config.EmailService.SendPortfolioReady(parent, child, s.downloadURL(filename), s.config.ExpirationDays); err != nil {
		l.Error("failed to send portfolio email", "error", err, "email", parent.Email)
		return
	}

	l.Info("portfolio created", "pieces", len(keys))
}

func (s *PortfolioService) StartCleanupRoutine(interval time.Duration) {
	s.stopCleanup = make(chan struct{})
	s.cleanupTicker = time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case <-s.cleanupTicker.C:
				s.cleanupExpiredPortfolios()
			case <-s.stopCleanup:
				s.cleanupTicker.Stop()
				return
			}
		}
	}()

	slog.Info("portfolio cleanup routine started", "interval", interval)
}

func (s *PortfolioService) StopCleanupRoutine() {
	if s.cleanupTicker != nil {
		close(s.stopCleanup)
		s.wg.Wait()
		slog.Info("portfolio cleanup routine stopped")
	}
}

func (s *PortfolioService) cleanupExpiredPortfolios() {
	var (
		err     error
		parents []models.Parent
		removed int
	)

	l := slog.With("function", "cleanupExpiredPortfolios")
	cutoff := time.Now().AddDate(0, 0, -s.config.ExpirationDays)

	if parents, err = s.config.ParentService.GetAll(); err != nil {
		l.Error("error retrieving parents", "error", err)
		return
	}

	for _, parent := range parents {
		prefix := s.downloadsKey(parent.ID)
		listResponse, err := s.config.S3Client.List(s.config.Bucket, prefix)

		if err != nil {
			l.Error("failed to list downloads", "error", err, "path", prefix)
			continue
		}

		for _, file := range listResponse.Objects {
			if !strings.HasSuffix(strings.ToLower(file.Key), ".zip") || !file.LastModified.Before(cutoff) {
				continue
			}

			if _, err := s.config.S3Client.Delete(s.config.Bucket, []string{file.Key}); err != nil {
				l.Error("failed to remove expired portfolio", "error", err, "path", file.Key)
				continue
			}

			removed++
		}
	}

	l.Info("completed cleanup of expired portfolios", "removed", removed)
}
