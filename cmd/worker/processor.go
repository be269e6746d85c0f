package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-orders-api/internal/aws"
)

// metricNames maps event types to the CloudWatch metric each one increments.
var metricNames = map[string]string{
	"order_placed":    "OrdersPlaced",
	"order_modified":  "OrdersModified",
	"order_cancelled": "OrdersCancelled",
}

// Processor consumes order events from SQS and emits CloudWatch metrics.
// Order state itself only ever advances through the API's conditioned
// writes; the worker is a pure observer.
type Processor struct {
	emitter *aws.MetricsEmitter
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, namespace string) *Processor {
	return &Processor{
		emitter: aws.NewMetricsEmitter(clients.CloudWatch, namespace),
	}
}

// Handle receives an SQS batch event and processes each message. Returning
// an error makes the Lambda runtime retry the batch (and eventually DLQ it).
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev OrderEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	metric, ok := metricNames[ev.EventType]
	if !ok {
		// unknown event types are skipped, not retried
		log.Printf("[worker] skipping unknown event_type=%q order=%s", ev.EventType, ev.OrderID)
		return nil
	}

	log.Printf("[worker] received %s order=%s version=%d", ev.EventType, ev.OrderID, ev.Version)

	dims := map[string]string{"Status": ev.Status}
	if err := p.emitter.Count(ctx, metric, 1, dims); err != nil {
		return fmt.Errorf("emit %s: %w", metric, err)
	}
	return nil
}
