package carriers

import "encoding/json"

// genericWebhook accepts the field aliases we have seen across smaller
// last-mile carriers: snake_case and camelCase variants of each field.
type genericWebhook struct {
	OrderID         string `json:"order_id"`
	OrderIDCamel    string `json:"orderId"`
	Reference       string `json:"reference"`
	TrackingNumber  string `json:"tracking_number"`
	TrackingNoCamel string `json:"trackingNumber"`
	AWB             string `json:"awb"`
	Status          string `json:"status"`
	Event           string `json:"event"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	OccurredAt      string `json:"occurred_at"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type genericAdapter struct{}

func NewGenericAdapter() Adapter {
	return genericAdapter{}
}

func (genericAdapter) Carrier() string {
	return CarrierGeneric
}

func (a genericAdapter) ParseWebhook(payload []byte) (InboundEvent, error) {
	var body genericWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return InboundEvent{}, missingField(a.Carrier(), "valid JSON body")
	}

	reference := firstNonEmpty(body.OrderID, body.OrderIDCamel, body.Reference)
	if reference == "" {
		return InboundEvent{}, missingField(a.Carrier(), "order_id")
	}
	rawStatus := firstNonEmpty(body.Status, body.Event)
	if rawStatus == "" {
		return InboundEvent{}, missingField(a.Carrier(), "status")
	}

	occurredAt, err := parseEventTime(a.Carrier(), body.OccurredAt)
	if err != nil {
		return InboundEvent{}, err
	}

	return InboundEvent{
		OrderReference: reference,
		TrackingNumber: firstNonEmpty(body.TrackingNumber, body.TrackingNoCamel, body.AWB),
		RawStatus:      rawStatus,
		Location:       body.Location,
		Description:    body.Description,
		OccurredAt:     occurredAt,
	}, nil
}
