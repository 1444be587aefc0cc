// Package users declares the server-side repository contract for account
// records in persistent storage.
package users

import (
	"context"

	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
