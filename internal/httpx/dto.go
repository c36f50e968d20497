package httpx

type QuoteRequest struct {
	PriceUSD float64 `json:"price_usd"`
}

type QuoteResponse struct {
	Available      bool    `json:"available"`
	BasePriceUSD   float64 `json:"base_price_usd"`
	ShippingUSD    float64 `json:"shipping_usd"`
	ServiceFeeUSD  float64 `json:"service_fee_usd"`
	HandlingFeeUSD float64 `json:"handling_fee_usd,omitempty"`
	TotalUSD       float64 `json:"total_usd"`
	TotalKES       int64   `json:"total_kes"`
}

type CreateVariantRequest struct {
	Product     string  `json:"product"`
	Description string  `json:"description"`
	PriceUSD    float64 `json:"price_usd"`
}

type ManualPriceRequest struct {
	PriceUSD float64 `json:"price_usd"`
	PriceKES int64   `json:"price_kes"`
}

type VariantResponse struct {
	ID             string  `json:"id"`
	Product        string  `json:"product"`
	Description    string  `json:"description,omitempty"`
	PriceUSD       float64 `json:"price_usd"`
	PriceKES       int64   `json:"price_kes"`
	ManualOverride bool    `json:"manual_override"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type CreateOrderRequest struct {
	CustomerID   string  `json:"customer_id"`
	Description  string  `json:"description"`
	Origin       string  `json:"origin"`
	ShippingMode string  `json:"shipping_mode"`
	PriceUSD     float64 `json:"price_usd"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customer_id"`
	Description    string `json:"description,omitempty"`
	BuyingPriceKES int64  `json:"buying_price_kes"`
	ShippingFeeKES int64  `json:"shipping_fee_kes"`
	ServiceFeeKES  int64  `json:"service_fee_kes"`
	TotalKES       int64  `json:"total_kes"`
	Status         string `json:"status"`
	Origin         string `json:"origin,omitempty"`
	ShippingMode   string `json:"shipping_mode,omitempty"`
	Paid           bool   `json:"paid"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type TrackingResponse struct {
	OrderID         string `json:"order_id"`
	Status          string `json:"status"`
	StageIndex      int    `json:"stage_index"`
	ProgressPercent int    `json:"progress_percent"`
	Delivered       bool   `json:"delivered"`
	StatusUnknown   bool   `json:"status_unknown,omitempty"`
}

type HistoryEntryResponse struct {
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status"`
	Actor      string `json:"actor"`
	TraceID    string `json:"trace_id,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
