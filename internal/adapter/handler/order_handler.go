package handler

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/core/domain"
)

type orderService interface {
	CreateOrder(ctx context.Context, userID string, lines []domain.OrderLine) (domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (domain.OrderDetail, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (domain.Order, error)
}

type OrderHandler struct {
	orders orderService
	logger *zap.Logger
}

type CreateOrderRequest struct {
	Items []domain.OrderLine `json:"items"`
}

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func NewOrderHandler(orders orderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

func (h *OrderHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.GetOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.UpdateStatus)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	auth, err := trust.Require(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	var req CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), auth.SubjectID, req.Items)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusCreated, order)
}

// ListOrders returns every order in the system, not only the caller's.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if _, err := trust.Require(r.Context()); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	writeData(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := trust.Require(r.Context()); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	detail, err := h.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, detail)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	auth, err := trust.Require(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if !auth.IsAdmin() {
		writeServiceError(w, h.logger, r, fmt.Errorf("%w: admin role required", domain.ErrUnauthorized))
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, order)
}
