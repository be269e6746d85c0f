package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-orders-api/internal/aws"
	"github.com/imrishuroy/go-orders-api/internal/orders"
	"github.com/imrishuroy/go-orders-api/internal/validation"
)

// HandlerConfig groups dependencies for the orders handlers.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	OrdersTable    string
	QueueURL       string
}

// Event types published to the order event queue after successful mutations.
const (
	EventOrderPlaced    = "order_placed"
	EventOrderModified  = "order_modified"
	EventOrderCancelled = "order_cancelled"
)

// RegisterOrdersRoutes registers the order API routes.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	svc := orders.NewService(orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable))

	var publisher *aws.Publisher
	if cfg.SQSClient != nil && cfg.QueueURL != "" {
		publisher = aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	}

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.PlaceOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote the 400
			return
		}

		order, err := svc.Place(ctx, req.CustomerID, toDomainItems(req.Items), req.Metadata)
		if err != nil {
			writeError(c, err)
			return
		}

		publishEvent(ctx, publisher, EventOrderPlaced, order, c.GetHeader("X-Request-Id"))

		c.Header("Location", fmt.Sprintf("/orders/%s", order.OrderID))
		c.JSON(http.StatusCreated, order)
	})

	r.GET("/orders/:orderID", func(c *gin.Context) {
		order, err := svc.Fetch(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	r.PATCH("/orders/:orderID", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.ModifyOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		if req.Items == nil && req.Metadata == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation_failed",
				"fields": gin.H{"patch": "must change at least one field"},
			})
			return
		}

		order, err := svc.Modify(ctx, c.Param("orderID"), orders.Patch{
			Items:    toDomainItems(req.Items),
			Metadata: req.Metadata,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		publishEvent(ctx, publisher, EventOrderModified, order, c.GetHeader("X-Request-Id"))
		c.JSON(http.StatusOK, order)
	})

	r.DELETE("/orders/:orderID", func(c *gin.Context) {
		ctx := c.Request.Context()

		order, err := svc.Cancel(ctx, c.Param("orderID"))
		if err != nil {
			writeError(c, err)
			return
		}

		publishEvent(ctx, publisher, EventOrderCancelled, order, c.GetHeader("X-Request-Id"))
		c.JSON(http.StatusOK, order)
	})

	r.GET("/customers/:customerID/orders", func(c *gin.Context) {
		result, err := svc.ListByCustomer(c.Request.Context(), c.Param("customerID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": result})
	})
}

func toDomainItems(in []validation.Item) []orders.Item {
	if in == nil {
		return nil
	}
	out := make([]orders.Item, 0, len(in))
	for _, it := range in {
		out = append(out, orders.Item{
			SKU:      it.SKU,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return out
}

// writeError maps domain errors to stable external codes. Retryable failures
// (conflict, storage_unavailable) are distinguishable from non-retryable ones
// by status code alone.
func writeError(c *gin.Context, err error) {
	var ve *orders.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": gin.H{ve.Field: ve.Reason},
		})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, orders.ErrInvalidStateTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid_state_transition", "detail": err.Error()})
	case errors.Is(err, orders.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, orders.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage_unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

// publishEvent sends a best-effort order event after a committed mutation.
// The conditioned write is the commit point; a publish failure is logged and
// never rolls back or fails the request.
func publishEvent(ctx context.Context, publisher *aws.Publisher, eventType string, o *orders.Order, correlationID string) {
	if publisher == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event_type":  eventType,
		"order_id":    o.OrderID,
		"customer_id": o.CustomerID,
		"status":      o.Status,
		"version":     o.Version,
	})
	if err != nil {
		log.Printf("marshal %s event for order %s: %v", eventType, o.OrderID, err)
		return
	}

	attrs := map[string]string{
		"event_type": eventType,
		"order_id":   o.OrderID,
	}
	if correlationID != "" {
		attrs["correlation_id"] = correlationID
	}

	if err := publisher.Publish(ctx, string(payload), attrs); err != nil {
		log.Printf("publish %s event for order %s: %v", eventType, o.OrderID, err)
	}
}
