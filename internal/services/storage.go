package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chanotech/chanote-backend/internal/platform/gcs"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/platform/openai"
)

// StorageReference always carries a dereferenceable URL. When the bucket
// upload fails the URL is a data: URI of the original bytes and the key is a
// temp_ identifier; Degraded marks that case for logs and callers.
type StorageReference struct {
	URL      string `json:"imageUrl"`
	Key      string `json:"imageKey"`
	Degraded bool   `json:"-"`
}

type BatchUploadItem struct {
	Index    int
	FileName string
	Data     []byte
	MimeType string
}

type BatchUploadOutcome struct {
	Index    int    `json:"index"`
	FileName string `json:"fileName"`
	ImageURL string `json:"imageUrl"`
	ImageKey string `json:"imageKey"`
	Uploaded bool   `json:"uploaded"`
}

type StorageService interface {
	Store(ctx context.Context, data []byte, mimeType string, category gcs.UploadCategory, filename string) StorageReference
	StoreBatch(ctx context.Context, category gcs.UploadCategory, items []BatchUploadItem) []BatchUploadOutcome
}

type storageService struct {
	log    *logger.Logger
	bucket gcs.BucketService
}

func NewStorageService(log *logger.Logger, bucket gcs.BucketService) StorageService {
	return &storageService{
		log:    log.With("service", "StorageService"),
		bucket: bucket,
	}
}

func (s *storageService) Store(ctx context.Context, data []byte, mimeType string, category gcs.UploadCategory, filename string) StorageReference {
	key := objectKey(filename)

	if err := s.bucket.UploadFile(ctx, category, key, bytes.NewReader(data), mimeType); err != nil {
		s.log.Warn("bucket upload failed, falling back to inline data URI",
			"category", string(category), "key", key, "error", err)
		return StorageReference{
			URL:      openai.DataURI(mimeType, data),
			Key:      "temp_" + uuid.NewString(),
			Degraded: true,
		}
	}

	return StorageReference{
		URL: s.bucket.GetPublicURL(category, key),
		Key: key,
	}
}

func (s *storageService) StoreBatch(ctx context.Context, category gcs.UploadCategory, items []BatchUploadItem) []BatchUploadOutcome {
	outcomes := make([]BatchUploadOutcome, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			ref := s.Store(gctx, item.Data, item.MimeType, category, item.FileName)
			outcomes[i] = BatchUploadOutcome{
				Index:    item.Index,
				FileName: item.FileName,
				ImageURL: ref.URL,
				ImageKey: ref.Key,
				Uploaded: !ref.Degraded,
			}
			return nil
		})
	}
	// Store never errors, so Wait only synchronizes the goroutines.
	_ = g.Wait()

	return outcomes
}

func objectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s%s", uuid.NewString(), ext)
}
