package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
)

// OrderProvider is the order surface the handlers need. Satisfied by
// services.OrderService.
type OrderProvider interface {
	List(ctx context.Context) ([]*models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, customerName string, orderDate time.Time) (*models.Order, error)
	Update(ctx context.Context, id, customerName string, orderDate time.Time) (*models.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderBody struct {
	ID           string    `json:"id"`
	OrderNumber  string    `json:"orderNumber"`
	CustomerName string    `json:"customerName"`
	OrderDate    time.Time `json:"orderDate"`
	TotalAmount  float64   `json:"totalAmount"`
}

func toOrderBody(o *models.Order) orderBody {
	return orderBody{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate,
		TotalAmount:  o.TotalAmount,
	}
}

type orderHandler struct {
	orders OrderProvider
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	result := make([]orderBody, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderBody(o))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderBody(order))
}

type orderRequest struct {
	CustomerName string    `json:"customerName"`
	OrderDate    time.Time `json:"orderDate"`
}

func (h *orderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}
	if req.OrderDate.IsZero() {
		req.OrderDate = time.Now()
	}

	order, err := h.orders.Create(r.Context(), req.CustomerName, req.OrderDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderBody(order))
}

func (h *orderHandler) update(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}

	order, err := h.orders.Update(r.Context(), r.PathValue("id"), req.CustomerName, req.OrderDate)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderBody(order))
}

func (h *orderHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
