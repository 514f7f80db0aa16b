package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics wraps a CloudWatch client and a metric namespace.
// A nil *Metrics is a no-op, so handlers never have to guard the call.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
}

// NewMetrics returns a Metrics bound to a namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{
		CloudWatch: client,
		Namespace:  namespace,
	}
}

// Count emits a single count metric. dimensions map[string]string -> sent as metric Dimensions.
func (m *Metrics) Count(ctx context.Context, name string, value float64, dimensions map[string]string) error {
	if m == nil || m.CloudWatch == nil {
		return nil
	}

	now := time.Now()
	datum := cwtypes.MetricDatum{
		MetricName: &name,
		Value:      &value,
		Unit:       cwtypes.StandardUnitCount,
		Timestamp:  &now,
	}
	if len(dimensions) > 0 {
		dims := make([]cwtypes.Dimension, 0, len(dimensions))
		for k, v := range dimensions {
			dims = append(dims, cwtypes.Dimension{Name: awsString(k), Value: awsString(v)})
		}
		datum.Dimensions = dims
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  &m.Namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	}

	_, err := m.CloudWatch.PutMetricData(ctx, input)
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
