package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/models"
)

// Repository is the auth persistence boundary.
type Repository interface {
	Register(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, user *models.User) (*models.User, error)
	CreateApiKey(ctx context.Context, apiKey string, userID string) error
	GetStorageUsage(ctx context.Context, userID uuid.UUID) (*models.StorageUsage, error)
}
