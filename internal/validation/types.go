package validation

// Item represents a single order line item at the API boundary.
type Item struct {
	SKU      string  `json:"sku" validate:"required"`            // stock keeping unit
	Quantity int     `json:"quantity" validate:"required,min=1"` // must be >= 1
	Price    float64 `json:"price" validate:"gte=0"`             // unit price, cent precision
}

// PlaceOrderRequest is the payload for POST /orders.
type PlaceOrderRequest struct {
	CustomerID string                 `json:"customer_id" validate:"required"`
	Items      []Item                 `json:"items" validate:"required,min=1,dive"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ModifyOrderRequest is the payload for PATCH /orders/{orderID}. Absent
// fields leave the order untouched; items, when present, replace the whole
// item list.
type ModifyOrderRequest struct {
	Items    []Item                 `json:"items,omitempty" validate:"omitempty,dive"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
