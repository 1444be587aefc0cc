// Package orderitems declares the server-side repository contract for the
// line items belonging to an order.
package orderitems

import (
	"context"

	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

type Repository interface {
	ListByOrder(ctx context.Context, orderID string) ([]*models.OrderItem, error)
	Get(ctx context.Context, id string) (*models.OrderItem, error)
	Create(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	Update(ctx context.Context, item *models.OrderItem) error
	Delete(ctx context.Context, id string) error
}
