package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hoursFromBase float64) *time.Time {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	v := base.Add(time.Duration(hoursFromBase * float64(time.Hour)))
	return &v
}

func hours(v float64) *float64 { return &v }

func TestAggregateOutcomePartition(t *testing.T) {
	timelines := []Timeline{
		{DeliveredAt: ts(30), DeliveryDurationHours: hours(30)},
		{DeliveredAt: ts(50), DeliveryDurationHours: hours(50)},
		{FailedAt: ts(20)},
		{ReturnedAt: ts(60), ReturnCycleHours: hours(60)},
		{}, // no outcome timestamps: still in transit
	}

	metrics := Aggregate("aramex", timelines)

	assert.Equal(t, 5, metrics.Total)
	assert.Equal(t, 2, metrics.Delivered)
	assert.Equal(t, 1, metrics.Failed)
	assert.Equal(t, 1, metrics.Returned)
	assert.Equal(t, 1, metrics.InTransit)
	assert.InDelta(t, 40.0, metrics.DeliverySuccessRate, 0.001)
	assert.InDelta(t, 20.0, metrics.FailureRate, 0.001)
	assert.InDelta(t, 20.0, metrics.ReturnRate, 0.001)
}

func TestAggregateFailedRequiresNoDelivery(t *testing.T) {
	// A failed attempt followed by a successful delivery counts as
	// delivered, not failed.
	timelines := []Timeline{
		{FailedAt: ts(10), DeliveredAt: ts(40), DeliveryDurationHours: hours(40)},
	}

	metrics := Aggregate("smsa", timelines)
	assert.Equal(t, 1, metrics.Delivered)
	assert.Equal(t, 0, metrics.Failed)
	assert.Equal(t, 0, metrics.InTransit)
}

func TestAggregateAveragesSkipMissingSamples(t *testing.T) {
	timelines := []Timeline{
		{DeliveredAt: ts(24), DeliveryDurationHours: hours(24), PickupDelayHours: hours(4)},
		{DeliveredAt: ts(48), DeliveryDurationHours: hours(48)},
	}

	metrics := Aggregate("aramex", timelines)

	require.NotNil(t, metrics.AvgDeliveryTimeHours)
	assert.InDelta(t, 36.0, *metrics.AvgDeliveryTimeHours, 0.001)

	// Only one timeline carried a pickup delay; the average uses that one
	// sample, not a zero-padded pair.
	require.NotNil(t, metrics.AvgPickupDelayHours)
	assert.InDelta(t, 4.0, *metrics.AvgPickupDelayHours, 0.001)

	assert.Nil(t, metrics.AvgTransitTimeHours)
	assert.Nil(t, metrics.AvgReturnCycleHours)
}

func TestAggregateZeroSamplesYieldNilNeverZero(t *testing.T) {
	metrics := Aggregate("generic", []Timeline{{}, {}})

	assert.Equal(t, 2, metrics.Total)
	assert.Nil(t, metrics.AvgPickupDelayHours)
	assert.Nil(t, metrics.AvgTransitTimeHours)
	assert.Nil(t, metrics.AvgDeliveryTimeHours)
	assert.Nil(t, metrics.AvgReturnCycleHours)
}

func TestAggregateEmptyWindow(t *testing.T) {
	metrics := Aggregate("aramex", nil)
	assert.Equal(t, 0, metrics.Total)
	assert.Zero(t, metrics.DeliverySuccessRate)
	assert.Nil(t, metrics.AvgDeliveryTimeHours)
}
