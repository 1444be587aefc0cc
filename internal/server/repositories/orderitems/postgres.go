package orderitems

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

// PostgresRepository implements order item storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID string) ([]*models.OrderItem, error) {
	query :=
		`SELECT id, order_id, product_name, quantity, unit_price, total_price FROM order_items
		 WHERE order_id = $1
		 ORDER BY product_name
		 `

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.TotalPrice); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.OrderItem, error) {
	query :=
		`SELECT id, order_id, product_name, quantity, unit_price, total_price FROM order_items
		 WHERE id = $1
		 `

	item := &models.OrderItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OrderID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.TotalPrice)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	query :=
		`INSERT INTO order_items (order_id, product_name, quantity, unit_price, total_price)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.OrderID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice).Scan(&item.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) Update(ctx context.Context, item *models.OrderItem) error {
	query :=
		`UPDATE order_items
		 SET product_name = $2, quantity = $3, unit_price = $4, total_price = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		item.ID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM order_items
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
