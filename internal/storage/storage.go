// Package storage defines the persistence interface for datasets.
package storage

import (
	"context"
	"errors"

	"github.com/relmap/relmap/internal/models"
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store defines dataset persistence operations. The projection pipeline only
// reads records; the store is the single owner of dataset mutation.
type Store interface {
	CreateDataset(ctx context.Context, ds *models.Dataset) error
	GetDataset(ctx context.Context, id string) (*models.Dataset, error)
	UpsertDataset(ctx context.Context, ds *models.Dataset) error
	DeleteDataset(ctx context.Context, id string) error
	ListDatasets(ctx context.Context, offset, limit int) ([]*models.DatasetInfo, error)

	CountDatasets(ctx context.Context) (int64, error)
	CountRecords(ctx context.Context) (int64, error)

	Close() error
}
