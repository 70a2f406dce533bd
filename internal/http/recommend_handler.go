package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/recommend"
)

// ProductRecommendations returns the "you might also like" items for a
// product page. An empty list means the caller should hide the panel.
func (h *Handler) ProductRecommendations(w http.ResponseWriter, r *http.Request) {
	current, ok := h.catalog.Get(chi.URLParam(r, "productId"))
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	limit, ok := h.limitParam(w, r)
	if !ok {
		return
	}

	var lines []cart.Line
	if userID := r.URL.Query().Get("userId"); userID != "" {
		lines = h.session(r.Context(), userID).Cart().Lines()
	}

	items := recommend.Recommend(h.catalog, lines, &current, limit)
	if items == nil {
		items = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, items)
}

// IntentPanel returns a ranked storefront panel such as "trending".
func (h *Handler) IntentPanel(w http.ResponseWriter, r *http.Request) {
	intent, ok := recommend.ParseIntent(r.URL.Query().Get("intent"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown intent")
		return
	}

	limit, ok := h.limitParam(w, r)
	if !ok {
		return
	}

	items := recommend.RankByIntent(h.catalog, intent, limit)
	if items == nil {
		items = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) limitParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.recLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return 0, false
	}
	return limit, true
}
