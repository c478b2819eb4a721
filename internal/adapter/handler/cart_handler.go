package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/rl1809/shopcore/internal/adapter/trust"
	"github.com/rl1809/shopcore/internal/core/domain"
	"github.com/rl1809/shopcore/internal/core/service"
)

type cartService interface {
	AddItem(ctx context.Context, userID string, in service.AddItemInput) error
	GetCart(ctx context.Context, userID string) (domain.Cart, bool, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	RemoveAll(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts  cartService
	logger *zap.Logger
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	ColorID   string `json:"colorId"`
	SizeID    string `json:"sizeId"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	Exists        bool              `json:"exists"`
	UserID        string            `json:"userId,omitempty"`
	Items         []domain.CartItem `json:"items,omitempty"`
	TotalPrice    int64             `json:"totalPrice"`
	TotalQuantity int               `json:"totalQuantity"`
}

func NewCartHandler(carts cartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/cart", h.AddItem)
	mux.HandleFunc("GET /api/cart", h.GetCart)
	mux.HandleFunc("DELETE /api/cart", h.RemoveAll)
	mux.HandleFunc("DELETE /api/cart/{productId}", h.RemoveItem)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	auth, err := trust.Require(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	err = h.carts.AddItem(r.Context(), auth.SubjectID, service.AddItemInput{
		ProductID: req.ProductID,
		ColorID:   req.ColorID,
		SizeID:    req.SizeID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	h.writeCart(w, r, auth.SubjectID, http.StatusOK)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	auth, err := trust.Require(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	h.writeCart(w, r, auth.SubjectID, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	auth, err := trust.Require(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	if err := h.carts.RemoveItem(r.Context(), auth.SubjectID, r.PathValue("productId")); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	h.writeCart(w, r, auth.SubjectID, http.StatusOK)
}

func (h *CartHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	auth, err := trust.Require(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}

	if err := h.carts.RemoveAll(r.Context(), auth.SubjectID); err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeCart reads the cart back so totals are always computed from the
// current items.
func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, userID string, status int) {
	cart, ok, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, r, err)
		return
	}
	if !ok {
		writeData(w, status, CartResponse{Exists: false})
		return
	}
	writeData(w, status, CartResponse{
		Exists:        true,
		UserID:        cart.UserID,
		Items:         cart.Items,
		TotalPrice:    cart.TotalPrice(),
		TotalQuantity: cart.TotalQuantity(),
	})
}
