package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

// OrderItemProvider is the line-item surface the handlers need. Satisfied
// by services.OrderItemService.
type OrderItemProvider interface {
	ListByOrder(ctx context.Context, orderID string) ([]*models.OrderItem, error)
	Get(ctx context.Context, id string) (*models.OrderItem, error)
	Create(ctx context.Context, orderID, productName string, quantity int, unitPrice float64) (*models.OrderItem, error)
	Update(ctx context.Context, id, productName string, quantity int, unitPrice float64) (*models.OrderItem, error)
	Delete(ctx context.Context, id string) error
}

type orderItemBody struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"orderId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

func toOrderItemBody(i *models.OrderItem) orderItemBody {
	return orderItemBody{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		TotalPrice:  i.TotalPrice,
	}
}

type orderItemHandler struct {
	items OrderItemProvider
}

func (h *orderItemHandler) listByOrder(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	result := make([]orderItemBody, 0, len(items))
	for _, i := range items {
		result = append(result, toOrderItemBody(i))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *orderItemHandler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderItemBody(item))
}

type orderItemRequest struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

func (h *orderItemHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	item, err := h.items.Create(r.Context(), r.PathValue("id"), req.ProductName, req.Quantity, req.UnitPrice)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderItemBody(item))
}

func (h *orderItemHandler) update(w http.ResponseWriter, r *http.Request) {
	var req orderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	item, err := h.items.Update(r.Context(), r.PathValue("id"), req.ProductName, req.Quantity, req.UnitPrice)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemBody(item))
}

func (h *orderItemHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
