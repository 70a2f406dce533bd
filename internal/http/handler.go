package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/shipping"
)

type Handler struct {
	catalog   *catalog.Catalog
	sessions  *session.Manager
	validator *discount.Validator
	carts     cart.Repository
	shipping  shipping.Repository
	orders    order.Repository
	placement *order.PlacementService
	recLimit  int
	logger    *log.Logger
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Catalog        *catalog.Catalog
	Sessions       *session.Manager
	Validator      *discount.Validator
	Carts          cart.Repository
	Shipping       shipping.Repository
	Orders         order.Repository
	Placement      *order.PlacementService
	RecommendLimit int
	Logger         *log.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		catalog:   d.Catalog,
		sessions:  d.Sessions,
		validator: d.Validator,
		carts:     d.Carts,
		shipping:  d.Shipping,
		orders:    d.Orders,
		placement: d.Placement,
		recLimit:  d.RecommendLimit,
		logger:    d.Logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront-service",
	})
}

// session returns the user's session, hydrating a newly created one from the
// stored cart snapshot.
func (h *Handler) session(ctx context.Context, userID string) *session.Session {
	sess, created := h.sessions.GetOrCreate(userID)
	if created {
		snap, err := h.carts.Get(ctx, userID)
		if err != nil {
			h.logger.Printf("load stored cart for %s: %v", userID, err)
		} else if snap != nil {
			sess.Cart().Restore(snap.Lines)
		}
	}
	return sess
}

func (h *Handler) persistCart(ctx context.Context, sess *session.Session) {
	snap := &cart.Snapshot{
		UserID: sess.UserID(),
		Lines:  sess.Cart().Lines(),
		Total:  sess.Cart().Total(),
	}
	if err := h.carts.Upsert(ctx, snap); err != nil {
		h.logger.Printf("store cart for %s: %v", sess.UserID(), err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
