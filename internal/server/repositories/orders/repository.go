// Package orders declares the server-side repository contract for customer
// orders.
package orders

import (
	"context"

	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error

	// NextOrderNumber allocates the next sequential number in the ORD001,
	// ORD002, ... series.
	NextOrderNumber(ctx context.Context) (string, error)

	// UpdateTotalAmount recomputes the order total from its items.
	UpdateTotalAmount(ctx context.Context, orderID string) error
}
