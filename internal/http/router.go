package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.BrowseProducts)
		r.Get("/categories", h.ListCategories)
		r.Get("/{productId}", h.GetProduct)
		r.Get("/{productId}/recommendations", h.ProductRecommendations)
	})

	r.Get("/api/recommendations", h.IntentPanel)
	r.Get("/api/shipping-methods", h.ListShippingMethods)

	r.Route("/api/users/{userId}", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Put("/items/{productId}", h.UpdateCartItem)
			r.Delete("/items/{productId}", h.RemoveCartItem)
		})
		r.Post("/discount", h.ApplyDiscount)
		r.Delete("/discount", h.RemoveDiscount)
		r.Post("/checkout", h.Checkout)
		r.Get("/orders", h.ListOrdersByUser)
	})

	r.Get("/api/orders/{orderId}", h.GetOrder)

	return r
}
