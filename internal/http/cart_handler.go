package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
)

type cartView struct {
	UserID    string            `json:"userId"`
	Items     []cart.Line       `json:"items"`
	ItemCount int               `json:"itemCount"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Discount  *discount.Applied `json:"discount,omitempty"`
	Total     decimal.Decimal   `json:"total"`
}

// viewOf renders the session's cart with amounts rounded for display. The
// stored lines stay at full precision.
func viewOf(sess *session.Session) cartView {
	items := sess.Cart().Lines()
	if items == nil {
		items = []cart.Line{}
	}

	subtotal := sess.Cart().Total()
	total := subtotal

	view := cartView{
		UserID:    sess.UserID(),
		Items:     items,
		ItemCount: sess.Cart().ItemCount(),
		Subtotal:  subtotal.Round(2),
	}

	if applied, ok := sess.Applied(); ok {
		amount := applied.Amount
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
		total = subtotal.Sub(amount)
		applied.Amount = amount.Round(2)
		view.Discount = &applied
	}

	view.Total = total.Round(2)
	return view
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r.Context(), chi.URLParam(r, "userId"))
	writeJSON(w, http.StatusOK, viewOf(sess))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	p, ok := h.catalog.Get(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if !p.InStock {
		writeError(w, http.StatusConflict, "product out of stock")
		return
	}

	sess := h.session(r.Context(), chi.URLParam(r, "userId"))
	sess.Cart().AddItem(p)
	h.persistCart(r.Context(), sess)

	writeJSON(w, http.StatusOK, viewOf(sess))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	sess := h.session(r.Context(), chi.URLParam(r, "userId"))
	sess.Cart().UpdateQuantity(chi.URLParam(r, "productId"), req.Quantity)
	h.persistCart(r.Context(), sess)

	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r.Context(), chi.URLParam(r, "userId"))
	sess.Cart().RemoveItem(chi.URLParam(r, "productId"))
	h.persistCart(r.Context(), sess)

	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r.Context(), chi.URLParam(r, "userId"))
	sess.Cart().Clear()
	h.persistCart(r.Context(), sess)

	writeJSON(w, http.StatusOK, viewOf(sess))
}
