package carriers

import (
	"strings"
	"time"

	pkgerrors "github.com/mirsal-ops/mirsal-backend/pkg/errors"
)

// InboundEvent is the carrier-neutral form of a webhook notification. The
// raw status is kept verbatim; normalization happens downstream so the
// original vocabulary survives in the ledger.
type InboundEvent struct {
	OrderReference string
	TrackingNumber string
	RawStatus      string
	Location       string
	Description    string
	OccurredAt     *time.Time
}

// Adapter translates one carrier's webhook payload into an InboundEvent.
// Implementations validate only shape (required fields present); business
// rules live in the shipments service.
type Adapter interface {
	Carrier() string
	ParseWebhook(payload []byte) (InboundEvent, error)
}

// Registry resolves adapters by carrier name. Unknown carriers get the
// generic adapter, so webhook dispatch never switches on carrier names.
type Registry struct {
	adapters map[string]Adapter
	fallback Adapter
}

func NewRegistry() *Registry {
	generic := NewGenericAdapter()
	r := &Registry{
		adapters: make(map[string]Adapter),
		fallback: generic,
	}
	r.Register(NewAramexAdapter())
	r.Register(NewSMSAAdapter())
	r.Register(generic)
	return r
}

func (r *Registry) Register(a Adapter) {
	r.adapters[strings.ToLower(a.Carrier())] = a
}

// Resolve returns the adapter for the given carrier, falling back to the
// generic adapter when the carrier is not registered.
func (r *Registry) Resolve(carrier string) Adapter {
	if a, ok := r.adapters[strings.ToLower(strings.TrimSpace(carrier))]; ok {
		return a
	}
	return r.fallback
}

func missingField(carrier, field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, carrier+" webhook payload missing required field: "+field)
}

func parseEventTime(carrier, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			utc := ts.UTC()
			return &utc, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, carrier+" webhook payload has unparseable event timestamp: "+raw)
}
