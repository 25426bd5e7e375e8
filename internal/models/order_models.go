package models

import (
	"encoding/json"
	"time"
)

// Order source channels.
const (
	SourcePOS      = "pos"
	SourceKiosk    = "kiosk"
	SourceDelivery = "delivery"
)

// Delivery platforms with notification adapters.
const (
	PlatformYemeksepeti = "yemeksepeti"
	PlatformGetir       = "getir"
	PlatformTrendyol    = "trendyol"
	PlatformMigros      = "migros"
)

// Display code schemes. The code prefix always matches the scheme:
// MASA- for table, PKT- for takeaway, ONLNPKT- for delivery.
const (
	CodeTypeTable    = "table"
	CodeTypeTakeaway = "takeaway"
	CodeTypeDelivery = "delivery"
)

// OrderItem is a single line on a kitchen ticket.
type OrderItem struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Note     string  `json:"note,omitempty"`
}

// KitchenOrder is the normalized order every channel adapter produces and
// every kitchen reader consumes. Not to be confused with dealer wholesale
// purchase orders, which live in a different subsystem entirely.
type KitchenOrder struct {
	ID              string      `json:"id"`
	OrderSource     string      `json:"order_source"`
	Platform        string      `json:"platform,omitempty"`
	ExternalID      string      `json:"external_id,omitempty"`
	DisplayCode     string      `json:"display_code"`
	CodeType        string      `json:"code_type"`
	TableNumber     int         `json:"table_number,omitempty"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	DeliveryFee     float64     `json:"delivery_fee,omitempty"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	CustomerAddress string      `json:"customer_address,omitempty"`
	Note            string      `json:"note,omitempty"`
	Status          Status      `json:"status"`
	// RawData keeps the untouched platform payload for audit on delivery orders.
	RawData     json.RawMessage `json:"raw_data,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	AcceptedAt  *time.Time      `json:"accepted_at,omitempty"`
	RejectedAt  *time.Time      `json:"rejected_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

// CreateOrderRequest is the POS/kiosk submission body.
type CreateOrderRequest struct {
	OrderType     string      `json:"order_type" validate:"required,oneof=table takeaway"`
	TableNumber   int         `json:"table_number" validate:"required_if=OrderType table,omitempty,gt=0"`
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
	CustomerName  string      `json:"customer_name,omitempty"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Note          string      `json:"note,omitempty"`
}

// CreateOrderResponse echoes the allocated queue position back to the terminal.
type CreateOrderResponse struct {
	ID          string  `json:"id"`
	QueueNumber string  `json:"queue_number"`
	CodeType    string  `json:"code_type"`
	Total       float64 `json:"total"`
	Status      Status  `json:"status"`
}

// CreateDeliveryOrderRequest is the manual-entry body for delivery orders
// phoned in or typed from a platform portal when the webhook is down.
type CreateDeliveryOrderRequest struct {
	Platform        string      `json:"platform" validate:"required,oneof=yemeksepeti getir trendyol migros"`
	ExternalID      string      `json:"external_id,omitempty"`
	Items           []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total           float64     `json:"total" validate:"gte=0"`
	DeliveryFee     float64     `json:"delivery_fee" validate:"gte=0"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	CustomerName    string      `json:"customer_name,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	CustomerAddress string      `json:"customer_address,omitempty"`
	Note            string      `json:"note,omitempty"`
}

// UpdateStatusRequest carries the requested next state.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatusResponse confirms an applied transition.
type UpdateStatusResponse struct {
	ID        string `json:"id"`
	NewStatus Status `json:"new_status"`
}

// RejectOrderRequest carries the reason relayed to the platform.
type RejectOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SourceCounts is the per-source slice of the kitchen stats breakdown.
type SourceCounts struct {
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
}

// StatsResponse is the kitchen dashboard summary. Top-level counts are the
// sums of the per-source breakdown.
type StatsResponse struct {
	Pending   int                     `json:"pending"`
	Preparing int                     `json:"preparing"`
	Ready     int                     `json:"ready"`
	Breakdown map[string]SourceCounts `json:"breakdown"`
}

// SalonOrder is the public projection of a ready order: display code and
// readiness marker only, never customer data or line items.
type SalonOrder struct {
	DisplayCode string    `json:"display_code"`
	ReadySince  time.Time `json:"ready_since"`
}

// SalonDisplayResponse feeds the customer-facing pickup screens.
type SalonDisplayResponse struct {
	ReadyOrders []SalonOrder `json:"ready_orders"`
	Timestamp   time.Time    `json:"timestamp"`
}

// PrintTicketRequest asks the printer collaborator for a kitchen ticket.
type PrintTicketRequest struct {
	OrderID string `json:"order_id" validate:"required"`
}

// WebhookAck is the fixed body returned to delivery platforms. Webhooks are
// always acknowledged, even when the payload was dropped, so the platform
// does not enter a retry storm.
type WebhookAck struct {
	Status string `json:"status"`
}
