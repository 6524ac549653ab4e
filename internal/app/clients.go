package app

import (
	"fmt"

	"github.com/chanotech/chanote-backend/internal/platform/dol"
	"github.com/chanotech/chanote-backend/internal/platform/gcs"
	"github.com/chanotech/chanote-backend/internal/platform/logger"
	"github.com/chanotech/chanote-backend/internal/platform/openai"
)

type Clients struct {
	Bucket   gcs.BucketService
	Openai   openai.Client
	Registry *dol.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcs.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	openaiClient, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	registry, err := dol.NewClientFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init land registry client: %w", err)
	}

	return Clients{
		Bucket:   bucket,
		Openai:   openaiClient,
		Registry: registry,
	}, nil
}
