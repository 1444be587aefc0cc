package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/repomanager"
)

// OrderItemService implements CRUD over order line items. Every mutation
// recomputes the item's total price from quantity and unit price, and runs
// together with the parent order's total update in one transaction.
type OrderItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewOrderItemService(db *sql.DB, m repomanager.RepositoryManager) *OrderItemService {
	return &OrderItemService{db: db, repomanager: m}
}

func (s *OrderItemService) ListByOrder(ctx context.Context, orderID string) ([]*models.OrderItem, error) {
	if _, err := s.repomanager.Orders(s.db).Get(ctx, orderID); err != nil {
		return nil, err
	}
	result, err := s.repomanager.OrderItems(s.db).ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("error listing order items: %v", err)
	}
	return result, nil
}

func (s *OrderItemService) Get(ctx context.Context, id string) (*models.OrderItem, error) {
	return s.repomanager.OrderItems(s.db).Get(ctx, id)
}

func (s *OrderItemService) Create(ctx context.Context, orderID, productName string, quantity int, unitPrice float64) (*models.OrderItem, error) {
	if err := validateItem(productName, quantity, unitPrice); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Orders(s.db).Get(ctx, orderID); err != nil {
		return nil, err
	}

	item := &models.OrderItem{
		OrderID:     orderID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  float64(quantity) * unitPrice,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.OrderItems(tx).Create(ctx, item); err != nil {
			return err
		}
		return s.repomanager.Orders(tx).UpdateTotalAmount(ctx, orderID)
	}); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *OrderItemService) Update(ctx context.Context, id, productName string, quantity int, unitPrice float64) (*models.OrderItem, error) {
	if err := validateItem(productName, quantity, unitPrice); err != nil {
		return nil, err
	}

	item, err := s.repomanager.OrderItems(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.ProductName = productName
	item.Quantity = quantity
	item.UnitPrice = unitPrice
	item.TotalPrice = float64(quantity) * unitPrice

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.OrderItems(tx).Update(ctx, item); err != nil {
			return err
		}
		return s.repomanager.Orders(tx).UpdateTotalAmount(ctx, item.OrderID)
	}); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *OrderItemService) Delete(ctx context.Context, id string) error {
	item, err := s.repomanager.OrderItems(s.db).Get(ctx, id)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.OrderItems(tx).Delete(ctx, id); err != nil {
			return err
		}
		err := s.repomanager.Orders(tx).UpdateTotalAmount(ctx, item.OrderID)
		// The parent order may have been deleted concurrently; the item
		// removal still stands.
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	})
}

func validateItem(productName string, quantity int, unitPrice float64) error {
	if productName == "" {
		return fmt.Errorf("%w: product name is required", common.ErrorValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", common.ErrorValidation)
	}
	if unitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", common.ErrorValidation)
	}
	return nil
}
