package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sokocargo/sokocargo/internal/httpx/middlewares"
)

// NewRouter builds the HTTP surface: storefront quoting and tracking,
// plus the operator endpoints under /admin.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/quotes", handler.Quote)

	r.Get("/variants", handler.ListVariants)
	r.Get("/variants/{id}", handler.GetVariant)

	r.Post("/orders", handler.CreateOrder)
	r.Get("/orders", handler.ListOrders)
	r.Get("/orders/{id}", handler.GetOrder)
	r.Get("/orders/{id}/tracking", handler.GetTracking)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/variants", handler.CreateVariant)
		r.Put("/variants/{id}/price", handler.SetManualPrice)
		r.Delete("/variants/{id}/price", handler.ClearManualPrice)
		r.Post("/reprice", handler.RepriceAll)

		r.Post("/orders/{id}/advance", handler.AdvanceOrder)
		r.Put("/orders/{id}/status", handler.SetOrderStatus)
		r.Post("/orders/{id}/paid", handler.MarkOrderPaid)
		r.Get("/orders/{id}/history", handler.GetOrderHistory)
	})

	return otelhttp.NewHandler(r, "sokocargo-http")
}
