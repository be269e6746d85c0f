package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsEmitter publishes counter metrics to a CloudWatch namespace.
type MetricsEmitter struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetricsEmitter returns an emitter bound to a namespace.
func NewMetricsEmitter(cwClient CloudWatchAPI, namespace string) *MetricsEmitter {
	return &MetricsEmitter{
		CloudWatch: cwClient,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// Count emits a single count datum with the given metric name and dimensions.
func (m *MetricsEmitter) Count(ctx context.Context, name string, value float64, dimensions map[string]string) error {
	datum := cwtypes.MetricDatum{
		MetricName: &name,
		Value:      &value,
		Unit:       cwtypes.StandardUnitCount,
	}
	ts := m.nowFunc().UTC()
	datum.Timestamp = &ts

	for k, v := range dimensions {
		k, v := k, v
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{Name: &k, Value: &v})
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  &m.Namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	}
	if _, err := m.CloudWatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
