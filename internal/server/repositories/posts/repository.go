package posts

import (
	"context"

	"github.com/dmitrijs2005/devconnector/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	// Like prepends userID to the post's likes unless it is already there.
	Like(ctx context.Context, id, userID string) ([]models.Like, error)
	// Unlike removes userID from the post's likes.
	Unlike(ctx context.Context, id, userID string) ([]models.Like, error)
}
