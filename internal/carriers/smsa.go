package carriers

import "encoding/json"

// smsaWebhook mirrors SMSA's activity notification: the merchant refNo, the
// AWB, an "activity" string instead of a status, and the scan city.
type smsaWebhook struct {
	RefNo    string `json:"refNo"`
	AWB      string `json:"awb"`
	Activity string `json:"activity"`
	City     string `json:"city"`
	Details  string `json:"details"`
	Date     string `json:"date"`
}

type smsaAdapter struct{}

func NewSMSAAdapter() Adapter {
	return smsaAdapter{}
}

func (smsaAdapter) Carrier() string {
	return CarrierSMSA
}

func (a smsaAdapter) ParseWebhook(payload []byte) (InboundEvent, error) {
	var body smsaWebhook
	if err := json.Unmarshal(payload, &body); err != nil {
		return InboundEvent{}, missingField(a.Carrier(), "valid JSON body")
	}
	if body.RefNo == "" {
		return InboundEvent{}, missingField(a.Carrier(), "refNo")
	}
	if body.Activity == "" {
		return InboundEvent{}, missingField(a.Carrier(), "activity")
	}

	occurredAt, err := parseEventTime(a.Carrier(), body.Date)
	if err != nil {
		return InboundEvent{}, err
	}

	return InboundEvent{
		OrderReference: body.RefNo,
		TrackingNumber: body.AWB,
		RawStatus:      body.Activity,
		Location:       body.City,
		Description:    body.Details,
		OccurredAt:     occurredAt,
	}, nil
}
