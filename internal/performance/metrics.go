package performance

// CarrierMetrics is the per-carrier aggregate over one analysis window.
// Average durations are nil, never zero, when the carrier has no qualifying
// samples.
type CarrierMetrics struct {
	Carrier string `json:"carrier"`

	Total     int `json:"total_shipments"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Returned  int `json:"returned"`
	InTransit int `json:"in_transit"`

	DeliverySuccessRate float64 `json:"delivery_success_rate"`
	FailureRate         float64 `json:"failure_rate"`
	ReturnRate          float64 `json:"return_rate"`

	AvgPickupDelayHours  *float64 `json:"avg_pickup_delay_hours"`
	AvgTransitTimeHours  *float64 `json:"avg_transit_time_hours"`
	AvgDeliveryTimeHours *float64 `json:"avg_delivery_time_hours"`
	AvgReturnCycleHours  *float64 `json:"avg_return_cycle_hours"`
}

// Aggregate reduces a carrier's timelines into rate and duration statistics.
//
// Outcome partition: delivered means a delivery timestamp exists; failed
// means a failure timestamp exists with no delivery; returned means a return
// timestamp exists; everything else counts as in transit. A returned
// shipment that was first delivered counts in both delivered and returned,
// matching the rates' independent definitions.
func Aggregate(carrier string, timelines []Timeline) CarrierMetrics {
	metrics := CarrierMetrics{Carrier: carrier, Total: len(timelines)}

	var pickupDelays, transitTimes, deliveryTimes, returnCycles []float64
	for _, timeline := range timelines {
		delivered := timeline.DeliveredAt != nil
		failed := timeline.FailedAt != nil && timeline.DeliveredAt == nil
		returned := timeline.ReturnedAt != nil

		if delivered {
			metrics.Delivered++
		}
		if failed {
			metrics.Failed++
		}
		if returned {
			metrics.Returned++
		}
		if !delivered && !failed && !returned {
			metrics.InTransit++
		}

		if timeline.PickupDelayHours != nil {
			pickupDelays = append(pickupDelays, *timeline.PickupDelayHours)
		}
		if timeline.TransitTimeHours != nil {
			transitTimes = append(transitTimes, *timeline.TransitTimeHours)
		}
		if timeline.DeliveryDurationHours != nil {
			deliveryTimes = append(deliveryTimes, *timeline.DeliveryDurationHours)
		}
		if timeline.ReturnCycleHours != nil {
			returnCycles = append(returnCycles, *timeline.ReturnCycleHours)
		}
	}

	if metrics.Total > 0 {
		total := float64(metrics.Total)
		metrics.DeliverySuccessRate = float64(metrics.Delivered) / total * 100
		metrics.FailureRate = float64(metrics.Failed) / total * 100
		metrics.ReturnRate = float64(metrics.Returned) / total * 100
	}

	metrics.AvgPickupDelayHours = mean(pickupDelays)
	metrics.AvgTransitTimeHours = mean(transitTimes)
	metrics.AvgDeliveryTimeHours = mean(deliveryTimes)
	metrics.AvgReturnCycleHours = mean(returnCycles)

	return metrics
}

func mean(samples []float64) *float64 {
	if len(samples) == 0 {
		return nil
	}
	var sum float64
	for _, sample := range samples {
		sum += sample
	}
	avg := sum / float64(len(samples))
	return &avg
}
