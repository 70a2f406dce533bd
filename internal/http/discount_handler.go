package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
)

type applyDiscountRequest struct {
	Code string `json:"code"`
}

func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req applyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	sess := h.session(r.Context(), chi.URLParam(r, "userId"))

	_, err := sess.ApplyDiscount(r.Context(), h.validator, req.Code)
	if err != nil {
		var belowMin *discount.BelowMinimumError
		switch {
		case errors.Is(err, discount.ErrNotFound):
			writeError(w, http.StatusNotFound, "discount code not found")
		case errors.As(err, &belowMin):
			writeError(w, http.StatusUnprocessableEntity, belowMin.Error())
		case errors.Is(err, discount.ErrInactive),
			errors.Is(err, discount.ErrExpired),
			errors.Is(err, discount.ErrLimitReached):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, session.ErrSuperseded):
			writeError(w, http.StatusConflict, "superseded by a newer attempt")
		case errors.Is(err, discount.ErrLookupFailed):
			writeError(w, http.StatusServiceUnavailable, "could not verify discount code, try again")
		default:
			writeError(w, http.StatusInternalServerError, "failed to apply discount")
		}
		return
	}

	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (h *Handler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r.Context(), chi.URLParam(r, "userId"))
	sess.RemoveDiscount()
	writeJSON(w, http.StatusOK, viewOf(sess))
}
