package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/imrishuroy/go-orders-api/internal/aws"
)

// mockCloudWatch records PutMetricData calls.
type mockCloudWatch struct {
	inputs []cw.PutMetricDataInput
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cw.PutMetricDataInput, optFns ...func(*cw.Options)) (*cw.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, *params)
	return &cw.PutMetricDataOutput{}, nil
}

func newTestProcessor(mock *mockCloudWatch) *Processor {
	return NewProcessor(&aws.AWSClients{CloudWatch: mock}, "OrdersAPITest")
}

func TestHandle_PlacedEventEmitsMetric(t *testing.T) {
	mock := &mockCloudWatch{}
	p := newTestProcessor(mock)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"event_type":"order_placed","order_id":"o-1","customer_id":"c-1","status":"PLACED","version":1}`},
	}}
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(mock.inputs) != 1 {
		t.Fatalf("expected 1 PutMetricData call, got %d", len(mock.inputs))
	}
	input := mock.inputs[0]
	if *input.Namespace != "OrdersAPITest" {
		t.Fatalf("wrong namespace %q", *input.Namespace)
	}
	datum := input.MetricData[0]
	if *datum.MetricName != "OrdersPlaced" {
		t.Fatalf("wrong metric %q", *datum.MetricName)
	}
	if len(datum.Dimensions) != 1 || *datum.Dimensions[0].Name != "Status" || *datum.Dimensions[0].Value != "PLACED" {
		t.Fatalf("wrong dimensions %+v", datum.Dimensions)
	}
}

func TestHandle_BatchEmitsPerMessage(t *testing.T) {
	mock := &mockCloudWatch{}
	p := newTestProcessor(mock)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"event_type":"order_modified","order_id":"o-1","status":"MODIFIED","version":2}`},
		{Body: `{"event_type":"order_cancelled","order_id":"o-1","status":"CANCELLED","version":3}`},
	}}
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mock.inputs) != 2 {
		t.Fatalf("expected 2 PutMetricData calls, got %d", len(mock.inputs))
	}
	if *mock.inputs[0].MetricData[0].MetricName != "OrdersModified" {
		t.Fatalf("wrong first metric %q", *mock.inputs[0].MetricData[0].MetricName)
	}
	if *mock.inputs[1].MetricData[0].MetricName != "OrdersCancelled" {
		t.Fatalf("wrong second metric %q", *mock.inputs[1].MetricData[0].MetricName)
	}
}

func TestHandle_UnknownEventTypeSkipped(t *testing.T) {
	mock := &mockCloudWatch{}
	p := newTestProcessor(mock)

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{Body: `{"event_type":"order_shipped","order_id":"o-1"}`},
	}}
	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("unknown event should be skipped, got %v", err)
	}
	if len(mock.inputs) != 0 {
		t.Fatalf("expected no metrics for unknown event, got %d", len(mock.inputs))
	}
}

func TestHandle_MalformedBodyFailsBatch(t *testing.T) {
	mock := &mockCloudWatch{}
	p := newTestProcessor(mock)

	ev := events.SQSEvent{Records: []events.SQSMessage{{Body: `not json`}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
