package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/dbx"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

// PostgresRepository implements attachment metadata storage over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {
	query :=
		`INSERT INTO order_attachments (order_id, file_name, storage_key, upload_status)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		attachment.OrderID, attachment.FileName, attachment.StorageKey, attachment.UploadStatus).
		Scan(&attachment.ID, &attachment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Attachment, error) {
	query :=
		`SELECT id, order_id, file_name, storage_key, upload_status, created_at FROM order_attachments
		 WHERE id = $1
		 `

	attachment := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&attachment.ID, &attachment.OrderID, &attachment.FileName,
		&attachment.StorageKey, &attachment.UploadStatus, &attachment.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

func (r *PostgresRepository) ListByOrder(ctx context.Context, orderID string) ([]*models.Attachment, error) {
	query :=
		`SELECT id, order_id, file_name, storage_key, upload_status, created_at FROM order_attachments
		 WHERE order_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		attachment := &models.Attachment{}
		if err := rows.Scan(&attachment.ID, &attachment.OrderID, &attachment.FileName,
			&attachment.StorageKey, &attachment.UploadStatus, &attachment.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query :=
		`UPDATE order_attachments
		 SET upload_status = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, models.UploadStatusUploaded)
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
