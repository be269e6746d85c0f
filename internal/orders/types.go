package orders

import "time"

// Item is a single order line.
type Item struct {
	SKU      string  `dynamodbav:"sku" json:"sku"`
	Quantity int     `dynamodbav:"quantity" json:"quantity"`
	Price    float64 `dynamodbav:"price" json:"price"`
}

// Order represents the item stored in the orders DynamoDB table.
// PK and SK are both derived from OrderID so that every point operation and
// conditional write addresses exactly one item; CustomerID is a plain
// attribute backing the customer-index GSI for customer-scoped queries.
type Order struct {
	PK         string                 `dynamodbav:"pk" json:"-"`
	SK         string                 `dynamodbav:"sk" json:"-"`
	OrderID    string                 `dynamodbav:"order_id" json:"order_id"`
	CustomerID string                 `dynamodbav:"customer_id" json:"customer_id"`
	Items      []Item                 `dynamodbav:"items" json:"items"`
	Status     Status                 `dynamodbav:"status" json:"status"`
	Version    int64                  `dynamodbav:"version" json:"version"`
	Metadata   map[string]interface{} `dynamodbav:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time              `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt  time.Time              `dynamodbav:"updated_at" json:"updated_at"`
}

// OrderPK returns the partition key value for an order id.
func OrderPK(orderID string) string { return "ORDER#" + orderID }

// OrderSK returns the sort key value for an order id.
func OrderSK(orderID string) string { return "ORDER#" + orderID }
