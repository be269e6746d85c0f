package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-orders-api/internal/aws"
)

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	namespace := os.Getenv("METRICS_NAMESPACE")
	if namespace == "" {
		namespace = "OrdersAPI"
	}

	p := NewProcessor(clients, namespace)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"event_type":"order_placed","order_id":"local-order-1","status":"PLACED","version":1}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{Body: testBody}},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
