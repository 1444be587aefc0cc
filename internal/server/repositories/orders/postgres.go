package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

// PostgresRepository implements order storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Order, error) {
	query :=
		`SELECT id, order_number, customer_name, order_date, total_amount FROM orders
		 ORDER BY order_date DESC, order_number DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.OrderNumber, &order.CustomerName, &order.OrderDate, &order.TotalAmount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	query :=
		`SELECT id, order_number, customer_name, order_date, total_amount FROM orders
		 WHERE id = $1
		 `

	order := &models.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.OrderNumber, &order.CustomerName, &order.OrderDate, &order.TotalAmount)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return order, nil
}

func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query :=
		`INSERT INTO orders (order_number, customer_name, order_date, total_amount)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		order.OrderNumber, order.CustomerName, order.OrderDate, order.TotalAmount).Scan(&order.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return order, nil
}

func (r *PostgresRepository) Update(ctx context.Context, order *models.Order) error {
	query :=
		`UPDATE orders
		 SET customer_name = $2, order_date = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, order.ID, order.CustomerName, order.OrderDate)
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
		`DELETE FROM orders
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

// NextOrderNumber derives the next number from the current maximum of the
// ORD-prefixed series.
func (r *PostgresRepository) NextOrderNumber(ctx context.Context) (string, error) {
	query :=
		`SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM 4) AS INTEGER)), 0) + 1
		 FROM orders
		 WHERE order_number ~ '^ORD[0-9]+$'
		 `

	var next int
	if err := r.db.QueryRowContext(ctx, query).Scan(&next); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}

	return fmt.Sprintf("ORD%03d", next), nil
}

// UpdateTotalAmount sets the order total to the sum of its item totals.
func (r *PostgresRepository) UpdateTotalAmount(ctx context.Context, orderID string) error {
	query :=
		`UPDATE orders
		 SET total_amount = (
		     SELECT COALESCE(SUM(total_price), 0) FROM order_items WHERE order_id = $1
		 )
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, orderID)
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
