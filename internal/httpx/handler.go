package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sokocargo/sokocargo/internal/catalog"
	"github.com/sokocargo/sokocargo/internal/httpx/middlewares"
	"github.com/sokocargo/sokocargo/internal/orders"
	"github.com/sokocargo/sokocargo/internal/pkg/cache"
	"github.com/sokocargo/sokocargo/internal/pricing"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

const quoteCacheTTL = 10 * time.Minute

// Handler serves the storefront and admin HTTP API.
type Handler struct {
	engine     *pricing.Engine
	catalogSvc *catalog.Service
	orderSvc   *orders.Service
	quoteCache cache.Cache // nil-safe: caching skipped if nil
}

// NewHandler wires the handler with its domain services. quoteCache may be
// nil — quotes are then recomputed on every request.
func NewHandler(engine *pricing.Engine, catalogSvc *catalog.Service, orderSvc *orders.Service, quoteCache cache.Cache) *Handler {
	return &Handler{
		engine:     engine,
		catalogSvc: catalogSvc,
		orderSvc:   orderSvc,
		quoteCache: quoteCache,
	}
}

// Quote prices a foreign listing. An unpriceable input is not an error:
// the response carries available=false and a zero total.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if resp, ok := h.cachedQuote(r, req.PriceUSD); ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := mapQuoteToResponse(h.engine.Quote(req.PriceUSD))
	h.storeQuote(r, req.PriceUSD, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) cachedQuote(r *http.Request, priceUSD float64) (QuoteResponse, bool) {
	if h.quoteCache == nil {
		return QuoteResponse{}, false
	}
	key := h.quoteCache.GenerateKey("quote", fmt.Sprintf("%.2f", priceUSD))
	raw, err := h.quoteCache.Get(r.Context(), key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.WarnContext(r.Context(), "quote cache read failed", "error", err)
		}
		return QuoteResponse{}, false
	}
	var resp QuoteResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return QuoteResponse{}, false
	}
	return resp, true
}

func (h *Handler) storeQuote(r *http.Request, priceUSD float64, resp QuoteResponse) {
	if h.quoteCache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	key := h.quoteCache.GenerateKey("quote", fmt.Sprintf("%.2f", priceUSD))
	if err := h.quoteCache.Set(r.Context(), key, string(raw), quoteCacheTTL); err != nil {
		slog.WarnContext(r.Context(), "quote cache write failed", "error", err)
	}
}

// CreateVariant adds a catalog variant priced from its listing price.
func (h *Handler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req CreateVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Product == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "product is required")
		return
	}

	v, err := h.catalogSvc.AddVariant(r.Context(), req.Product, req.Description, req.PriceUSD)
	if err != nil {
		writeError(w, http.StatusBadRequest, "create_variant_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, mapVariantToResponse(v))
}

// ListVariants returns the catalog.
func (h *Handler) ListVariants(w http.ResponseWriter, r *http.Request) {
	variants, err := h.catalogSvc.ListVariants(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_variants_failed", err.Error())
		return
	}
	out := make([]VariantResponse, len(variants))
	for i, v := range variants {
		out[i] = mapVariantToResponse(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetVariant returns one variant by ID.
func (h *Handler) GetVariant(w http.ResponseWriter, r *http.Request) {
	v, err := h.catalogSvc.GetVariant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVariantToResponse(v))
}

// SetManualPrice pins an operator-entered price pair on a variant.
func (h *Handler) SetManualPrice(w http.ResponseWriter, r *http.Request) {
	var req ManualPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	v, err := h.catalogSvc.SetManualPrice(r.Context(), chi.URLParam(r, "id"), req.PriceUSD, req.PriceKES)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVariantToResponse(v))
}

// ClearManualPrice removes the override and recomputes the landed cost.
func (h *Handler) ClearManualPrice(w http.ResponseWriter, r *http.Request) {
	v, err := h.catalogSvc.ClearManualPrice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVariantToResponse(v))
}

// RepriceAll recomputes every non-overridden variant price.
func (h *Handler) RepriceAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalogSvc.RepriceAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reprice_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateOrder confirms a sourcing request and creates an order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id is required")
		return
	}
	if req.PriceUSD <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "price_usd must be positive")
		return
	}

	o, err := h.orderSvc.CreateFromQuote(r.Context(), req.CustomerID, req.Description, req.Origin, req.ShippingMode, req.PriceUSD)
	if err != nil {
		writeError(w, http.StatusBadRequest, "create_order_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, mapOrderToResponse(o))
}

// ListOrders returns orders, optionally filtered by ?customer_id=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orderSvc.ListOrders(r.Context(), r.URL.Query().Get("customer_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_orders_failed", err.Error())
		return
	}
	out := make([]OrderResponse, len(list))
	for i, o := range list {
		out[i] = mapOrderToResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOrder returns one order by ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orderSvc.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

// GetTracking returns the customer progress view.
func (h *Handler) GetTracking(w http.ResponseWriter, r *http.Request) {
	view, err := h.orderSvc.Tracking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TrackingResponse{
		OrderID:         view.OrderID,
		Status:          string(view.Status),
		StageIndex:      view.StageIndex,
		ProgressPercent: view.ProgressPercent,
		Delivered:       view.Delivered,
		StatusUnknown:   view.StatusUnknown,
	})
}

// AdvanceOrder moves an order one lifecycle step forward.
func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orderSvc.Advance(r.Context(), chi.URLParam(r, "id"), middlewares.ActorFromContext(r.Context()))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

// SetOrderStatus is the admin correction endpoint.
func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	o, err := h.orderSvc.SetStatus(r.Context(), chi.URLParam(r, "id"), tracking.Stage(req.Status), middlewares.ActorFromContext(r.Context()))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

// MarkOrderPaid flips the paid flag.
func (h *Handler) MarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.orderSvc.MarkPaid(r.Context(), id); err != nil {
		writeOrderError(w, err)
		return
	}
	o, err := h.orderSvc.GetOrder(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o))
}

// GetOrderHistory returns the status audit trail.
func (h *Handler) GetOrderHistory(w http.ResponseWriter, r *http.Request) {
	hist, err := h.orderSvc.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeOrderError(w, err)
		return
	}
	out := make([]HistoryEntryResponse, len(hist))
	for i, e := range hist {
		out[i] = HistoryEntryResponse{
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			Actor:      e.Actor,
			TraceID:    e.TraceID,
			RecordedAt: e.RecordedAt.Format(time.RFC3339Nano),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, orders.ErrAlreadyDone):
		writeError(w, http.StatusConflict, "order_already_delivered", err.Error())
	case errors.Is(err, orders.ErrBackwardJump):
		writeError(w, http.StatusConflict, "backward_transition", err.Error())
	case errors.Is(err, orders.ErrUnknownStatus):
		writeError(w, http.StatusUnprocessableEntity, "unknown_status", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "order_error", err.Error())
	}
}

func writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "variant_not_found", err.Error())
	case errors.Is(err, catalog.ErrInvalidMoney):
		writeError(w, http.StatusBadRequest, "invalid_money", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "catalog_error", err.Error())
	}
}

func mapQuoteToResponse(q pricing.Breakdown) QuoteResponse {
	return QuoteResponse{
		Available:      q.Available,
		BasePriceUSD:   q.BasePriceUSD,
		ShippingUSD:    q.ShippingUSD,
		ServiceFeeUSD:  q.ServiceFeeUSD,
		HandlingFeeUSD: q.HandlingFeeUSD,
		TotalUSD:       q.TotalUSD,
		TotalKES:       q.TotalKES,
	}
}

func mapVariantToResponse(v *catalog.Variant) VariantResponse {
	return VariantResponse{
		ID:             v.ID,
		Product:        v.Product,
		Description:    v.Description,
		PriceUSD:       v.PriceUSD,
		PriceKES:       v.PriceKES,
		ManualOverride: v.ManualOverride,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:      v.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func mapOrderToResponse(o *orders.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		Description:    o.Description,
		BuyingPriceKES: o.BuyingPriceKES,
		ShippingFeeKES: o.ShippingFeeKES,
		ServiceFeeKES:  o.ServiceFeeKES,
		TotalKES:       o.TotalKES,
		Status:         string(o.Status),
		Origin:         o.Origin,
		ShippingMode:   o.ShippingMode,
		Paid:           o.Paid,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:      o.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
