package delivery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"kitchen-dispatch/internal/models"
)

// NormalizedOrder is what an adapter extracts from a platform payload. A
// partially filled struct is fine; only structurally unparseable payloads
// are rejected.
type NormalizedOrder struct {
	ExternalID      string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Items           []models.OrderItem
	Total           float64
	DeliveryFee     float64
	PaymentMethod   string
	Note            string
	Cancelled       bool
}

// aliasTable lists the candidate field paths per normalized field, in
// priority order; the first non-empty hit wins. The platforms rename fields
// between API revisions, so adding or fixing a platform is a data change
// here, not new extraction code.
type aliasTable struct {
	externalID    []string
	customerName  []string
	customerPhone []string
	address       []string
	items         []string
	itemName      []string
	itemPrice     []string
	itemQuantity  []string
	itemNote      []string
	total         []string
	deliveryFee   []string
	paymentMethod []string
	note          []string
	eventType     []string
}

var aliasTables = map[string]aliasTable{
	models.PlatformYemeksepeti: {
		externalID:    []string{"token", "code", "shortCode"},
		customerName:  []string{"customer.fullName", "customer.firstName", "customerName"},
		customerPhone: []string{"customer.mobilePhone", "customer.phone"},
		address:       []string{"delivery.address.street", "deliveryAddress", "address"},
		items:         []string{"products", "items"},
		itemName:      []string{"name", "productName"},
		itemPrice:     []string{"paidPrice", "unitPrice", "price"},
		itemQuantity:  []string{"quantity", "count"},
		itemNote:      []string{"comment", "note"},
		total:         []string{"price.grandTotal", "grandTotal", "totalPrice"},
		deliveryFee:   []string{"price.deliveryFee", "deliveryFee", "minimumDeliveryValue"},
		paymentMethod: []string{"payment.type", "paymentMethod"},
		note:          []string{"comments.customerComment", "comment"},
		eventType:     []string{"status", "event"},
	},
	models.PlatformGetir: {
		externalID:    []string{"id", "foodOrderId", "confirmationId"},
		customerName:  []string{"client.name", "clientName"},
		customerPhone: []string{"client.contactPhoneNumber", "client.clientPhoneNumber"},
		address:       []string{"client.deliveryAddress.address", "deliveryAddress"},
		items:         []string{"products", "items"},
		itemName:      []string{"name.tr", "name", "productName"},
		itemPrice:     []string{"priceWithOption", "price"},
		itemQuantity:  []string{"count", "quantity"},
		itemNote:      []string{"note"},
		total:         []string{"totalDiscountedPrice", "totalPrice"},
		deliveryFee:   []string{"deliveryFee", "courierFee"},
		paymentMethod: []string{"paymentMethodText.tr", "paymentMethod"},
		note:          []string{"clientNote", "note"},
		eventType:     []string{"status", "event"},
	},
	models.PlatformTrendyol: {
		externalID:    []string{"orderNumber", "orderId", "id"},
		customerName:  []string{"customer.fullName", "customer.firstName"},
		customerPhone: []string{"callCenterPhone", "customer.phone"},
		address:       []string{"address.address1", "address.fullAddress"},
		items:         []string{"lines", "items"},
		itemName:      []string{"name", "productName"},
		itemPrice:     []string{"price", "unitPrice"},
		itemQuantity:  []string{"quantity", "amount"},
		itemNote:      []string{"note"},
		total:         []string{"totalPrice", "grossAmount"},
		deliveryFee:   []string{"deliveryCharge", "deliveryFee"},
		paymentMethod: []string{"payment.paymentType", "paymentMethod"},
		note:          []string{"customerNote", "note"},
		eventType:     []string{"packageStatus", "status", "event"},
	},
	models.PlatformMigros: {
		externalID:    []string{"orderId", "id"},
		customerName:  []string{"customerInfo.name", "customer.name"},
		customerPhone: []string{"customerInfo.phoneNumber", "customer.phone"},
		address:       []string{"deliveryAddress.detail", "deliveryAddress.address"},
		items:         []string{"items", "products"},
		itemName:      []string{"name", "itemName"},
		itemPrice:     []string{"amount", "price"},
		itemQuantity:  []string{"quantity", "count"},
		itemNote:      []string{"note"},
		total:         []string{"totalAmount", "total"},
		deliveryFee:   []string{"deliveryFee"},
		paymentMethod: []string{"paymentType", "paymentMethod"},
		note:          []string{"orderNote", "note"},
		eventType:     []string{"status", "event"},
	},
}

// Normalize translates one platform webhook body into the normalized order
// shape. Missing optional fields fall back to safe defaults; only a body
// that is not valid JSON at all comes back as ErrMalformedPayload.
func Normalize(platform string, body []byte) (*NormalizedOrder, error) {
	table, ok := aliasTables[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownPlatform, platform)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedPayload, err)
	}

	norm := &NormalizedOrder{
		ExternalID:      lookupString(payload, table.externalID),
		CustomerName:    lookupString(payload, table.customerName),
		CustomerPhone:   lookupString(payload, table.customerPhone),
		CustomerAddress: lookupString(payload, table.address),
		Total:           lookupFloat(payload, table.total),
		DeliveryFee:     lookupFloat(payload, table.deliveryFee),
		PaymentMethod:   lookupString(payload, table.paymentMethod),
		Note:            lookupString(payload, table.note),
	}
	if norm.PaymentMethod == "" {
		norm.PaymentMethod = "online"
	}

	event := strings.ToLower(lookupString(payload, table.eventType))
	norm.Cancelled = strings.Contains(event, "cancel")

	for _, raw := range lookupSlice(payload, table.items) {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		item := models.OrderItem{
			Name:     lookupString(entry, table.itemName),
			Price:    lookupFloat(entry, table.itemPrice),
			Quantity: int(lookupFloat(entry, table.itemQuantity)),
			Note:     lookupString(entry, table.itemNote),
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		norm.Items = append(norm.Items, item)
	}

	return norm, nil
}

// dig walks a dot-separated path through nested JSON objects.
func dig(payload map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var current any = payload
	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func lookupString(payload map[string]any, paths []string) string {
	for _, path := range paths {
		v, ok := dig(payload, path)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

func lookupFloat(payload map[string]any, paths []string) float64 {
	for _, path := range paths {
		v, ok := dig(payload, path)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func lookupSlice(payload map[string]any, paths []string) []any {
	for _, path := range paths {
		if v, ok := dig(payload, path); ok {
			if list, ok := v.([]any); ok {
				return list
			}
		}
	}
	return nil
}
