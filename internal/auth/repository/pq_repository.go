package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vidforge/vidforge/internal/auth"
	"github.com/vidforge/vidforge/internal/models"
)

type authRepo struct {
	db *sqlx.DB
}

func NewAuthRepo(db *sqlx.DB) auth.Repository {
	return &authRepo{
		db: db,
	}
}

func (a *authRepo) Register(ctx context.Context, user *models.User) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		createUserQuery,
		user.Fullname,
		user.Email,
		user.Password,
		user.Username,
		user.Role,
		user.APIkey,
	).StructScan(u); err != nil {
		return nil, errors.Wrap(err, "authRepo.Register.StructScan")
	}
	return u, nil
}

func (a *authRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		updateUserQuery,
		user.Fullname,
		user.Email,
		user.Role,
		user.UserID,
	).StructScan(u); err != nil {
		return nil, errors.Wrap(err, "authRepo.Update.StructScan")
	}
	return u, nil
}

func (a *authRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := a.db.ExecContext(ctx, deleteUserQuery, userID)
	if err != nil {
		return errors.Wrap(err, "authRepo.Delete.ExecContext")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "authRepo.Delete.RowsAffected")
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (a *authRepo) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		getUserQuery,
		userID,
	).StructScan(u); err != nil {
		return nil, errors.Wrap(err, "authRepo.GetByID.StructScan")
	}
	return u, nil
}

func (a *authRepo) FindByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	u := &models.User{}
	if err := a.db.QueryRowxContext(
		ctx,
		getUserByEmailQuery,
		user.Email,
	).StructScan(u); err != nil {
		return nil, errors.Wrap(err, "authRepo.FindByEmail.StructScan")
	}
	return u, nil
}

func (a *authRepo) CreateApiKey(ctx context.Context, apiKey string, userID string) error {
	if _, err := a.db.ExecContext(ctx, createApiKeyQuery, apiKey, userID); err != nil {
		return errors.Wrap(err, "authRepo.CreateApiKey.ExecContext")
	}
	return nil
}

func (a *authRepo) GetStorageUsage(ctx context.Context, userID uuid.UUID) (*models.StorageUsage, error) {
	usage := &models.StorageUsage{}
	if err := a.db.QueryRowxContext(
		ctx,
		getStorageUsageQuery,
		userID,
	).StructScan(usage); err != nil {
		// A user with no videos has no aggregate row.
		if errors.Is(err, sql.ErrNoRows) {
			return &models.StorageUsage{UserID: userID}, nil
		}
		return nil, errors.Wrap(err, "authRepo.GetStorageUsage.StructScan")
	}
	return usage, nil
}
