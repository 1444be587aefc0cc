// Package attachments declares the server-side repository contract for
// order attachment metadata. File content itself lives in object storage;
// the repository tracks the key and upload status.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	Get(ctx context.Context, id string) (*models.Attachment, error)
	ListByOrder(ctx context.Context, orderID string) ([]*models.Attachment, error)

	// MarkUploaded moves a pending attachment to the uploaded status after
	// the client confirms the object was stored.
	MarkUploaded(ctx context.Context, id string) error
}
