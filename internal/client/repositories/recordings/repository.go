// Package recordings implements the local cache of recording overviews.
// The cache is refreshed from list responses and lets the client show the
// last known state without a network round-trip.
package recordings

import (
	"context"

	"github.com/vetsoap/vetsoap-go/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, rec *models.Recording) error
	ReplaceAll(ctx context.Context, recs []models.Recording) error
	GetByID(ctx context.Context, id string) (*models.Recording, error)
	GetAll(ctx context.Context) ([]models.Recording, error)
	DeleteByID(ctx context.Context, id string) error
}
