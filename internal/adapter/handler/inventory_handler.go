package handler

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/core/service"
)

type inventoryService interface {
	Upsert(ctx context.Context, productID string, stock int) (domain.Inventory, error)
	Adjust(ctx context.Context, in service.AdjustInput) (domain.Inventory, bool, error)
	Get(ctx context.Context, productID string) (domain.Inventory, error)
	ListAll(ctx context.Context) ([]domain.Inventory, error)
}

type InventoryHandler struct {
	inventory inventoryService
	logger    *zap.Logger
}

type InventoryRequest struct {
	ProductID string `json:"productId"`
	Stock     int    `json:"stock"`
	Version   *int   `json:"version,omitempty"`
}

type AdjustResponse struct {
	Deleted   bool              `json:"deleted"`
	Inventory *domain.Inventory `json:"inventory,omitempty"`
}

func NewInventoryHandler(inventory inventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, logger: logger}
}

func (h *InventoryHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/inventory", h.Upsert)
	mux.HandleFunc("PUT /api/inventory", h.Adjust)
	mux.HandleFunc("GET /api/inventory", h.ListAll)
	mux.HandleFunc("GET /api/inventory/{productId}", h.Get)
}

func (h *InventoryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req InventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	inv, err := h.inventory.Upsert(r.Context(), req.ProductID, req.Stock)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, inv)
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req InventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	inv, deleted, err := h.inventory.Adjust(r.Context(), service.AdjustInput{
		ProductID: req.ProductID,
		Stock:     req.Stock,
		Version:   req.Version,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if deleted {
		writeData(w, http.StatusOK, AdjustResponse{Deleted: true})
		return
	}
	writeData(w, http.StatusOK, AdjustResponse{Inventory: &inv})
}

func (h *InventoryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if _, err := trust.Require(r.Context()); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	items, err := h.inventory.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if items == nil {
		items = []domain.Inventory{}
	}
	writeData(w, http.StatusOK, items)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, err := trust.Require(r.Context()); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	inv, err := h.inventory.Get(r.Context(), r.PathValue("productId"))
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	writeData(w, http.StatusOK, inv)
}

func (h *InventoryHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth, err := trust.Require(r.Context())
	if err == nil && !auth.IsAdmin() {
		err = fmt.Errorf("%w: admin role required", domain.ErrUnauthorized)
	}
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return false
	}
	return true
}
