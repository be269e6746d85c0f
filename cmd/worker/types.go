package main

// OrderEvent is the payload the API publishes to SQS after each successful
// order mutation.
type OrderEvent struct {
	EventType  string `json:"event_type"`
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Version    int64  `json:"version"`
}
