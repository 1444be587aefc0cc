package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	"github.com/dmitrijs2005/ordermanager/internal/server/services"
)

// AttachmentProvider is the attachment surface the handlers need.
// Satisfied by services.AttachmentService.
type AttachmentProvider interface {
	Register(ctx context.Context, orderID, fileName string) (*services.AttachmentUploadTask, error)
	ListByOrder(ctx context.Context, orderID string) ([]*models.Attachment, error)
	MarkUploaded(ctx context.Context, id string) error
	GetDownloadURL(ctx context.Context, id string) (string, error)
}

type attachmentBody struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"orderId"`
	FileName     string    `json:"fileName"`
	UploadStatus string    `json:"uploadStatus"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toAttachmentBody(a *models.Attachment) attachmentBody {
	return attachmentBody{
		ID:           a.ID,
		OrderID:      a.OrderID,
		FileName:     a.FileName,
		UploadStatus: a.UploadStatus,
		CreatedAt:    a.CreatedAt,
	}
}

type attachmentHandler struct {
	attachments AttachmentProvider
}

type registerAttachmentRequest struct {
	FileName string `json:"fileName"`
}

type registerAttachmentResponse struct {
	Attachment attachmentBody `json:"attachment"`
	UploadURL  string         `json:"uploadUrl"`
}

func (h *attachmentHandler) register(w http.ResponseWriter, r *http.Request) {
	var req registerAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	task, err := h.attachments.Register(r.Context(), r.PathValue("id"), req.FileName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerAttachmentResponse{
		Attachment: toAttachmentBody(task.Attachment),
		UploadURL:  task.UploadURL,
	})
}

func (h *attachmentHandler) listByOrder(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.attachments.ListByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	result := make([]attachmentBody, 0, len(attachments))
	for _, a := range attachments {
		result = append(result, toAttachmentBody(a))
	}
	writeJSON(w, http.StatusOK, result)
}

type downloadURLResponse struct {
	URL string `json:"url"`
}

func (h *attachmentHandler) downloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.attachments.GetDownloadURL(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, downloadURLResponse{URL: url})
}

func (h *attachmentHandler) markUploaded(w http.ResponseWriter, r *http.Request) {
	if err := h.attachments.MarkUploaded(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
