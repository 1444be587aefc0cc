package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/repomanager"
)

// OrderService implements CRUD over customer orders. Order numbers are
// allocated server-side as a sequential ORD-prefixed series; the total
// amount is derived from the order's items and never set directly.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager) *OrderService {
	return &OrderService{db: db, repomanager: m}
}

func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	result, err := s.repomanager.Orders(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %v", err)
	}
	return result, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repomanager.Orders(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Create allocates the next order number and inserts the order in a single
// transaction so concurrent creations never share a number.
func (s *OrderService) Create(ctx context.Context, customerName string, orderDate time.Time) (*models.Order, error) {
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", common.ErrorValidation)
	}

	order := &models.Order{CustomerName: customerName, OrderDate: orderDate}
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Orders(tx)
		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return fmt.Errorf("error allocating order number: %v", err)
		}
		order.OrderNumber = number
		_, err = repo.Create(ctx, order)
		return err
	}); err != nil {
		return nil, err
	}

	return order, nil
}

// Update changes the customer name and order date. The order number and the
// total amount are immutable here.
func (s *OrderService) Update(ctx context.Context, id, customerName string, orderDate time.Time) (*models.Order, error) {
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", common.ErrorValidation)
	}

	order := &models.Order{ID: id, CustomerName: customerName, OrderDate: orderDate}
	if err := s.repomanager.Orders(s.db).Update(ctx, order); err != nil {
		return nil, err
	}

	return s.repomanager.Orders(s.db).Get(ctx, id)
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Orders(s.db).Delete(ctx, id)
}
