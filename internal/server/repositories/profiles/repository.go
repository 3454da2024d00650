package profiles

import (
	"context"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

type Repository interface {
	GetByUser(ctx context.Context, userID string) (*models.Profile, error)
	// LockByUser reads the profile and holds a row lock until the enclosing
	// transaction ends.
	LockByUser(ctx context.Context, userID string) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	DeleteByUser(ctx context.Context, userID string) error
}
