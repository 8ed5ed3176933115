package carriers

import "encoding/json"

// aramexWebhook is the shape Aramex posts: merchant reference, waybill
// number, human-readable status and the branch/city the scan happened at.
type aramexWebhook struct {
	Reference string `json:"reference"`
	Waybill   string `json:"waybill"`
	Status    string `json:"status"`
	Location  string `json:"location"`
	Comments  string `json:"comments"`
	Timestamp string `json:"timestamp"`
}

type aramexAdapter struct{}

func NewAramexAdapter() Adapter {
	return aramexAdapter{}
}

func (aramexAdapter) Carrier() string {
	return CarrierAramex
}

func (a aramexAdapter) ParseWebhook(payload []byte) (InboundEvent, error) {
	var body aramexWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return InboundEvent{}, missingField(a.Carrier(), "valid JSON body")
	}
	if body.Reference == "" {
		return InboundEvent{}, missingField(a.Carrier(), "reference")
	}
	if body.Status == "" {
		return InboundEvent{}, missingField(a.Carrier(), "status")
	}

	occurredAt, err := parseEventTime(a.Carrier(), body.Timestamp)
	if err != nil {
		return InboundEvent{}, err
	}

	return InboundEvent{
		OrderReference: body.Reference,
		TrackingNumber: body.Waybill,
		RawStatus:      body.Status,
		Location:       body.Location,
		Description:    body.Comments,
		OccurredAt:     occurredAt,
	}, nil
}
