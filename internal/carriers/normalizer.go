package carriers

import (
	"strings"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

// Carrier identifiers known to the normalizer. Anything else falls back to
// the generic vocabulary.
const (
	CarrierAramex  = "aramex"
	CarrierSMSA    = "smsa"
	CarrierGeneric = "generic"
)

// statusTables maps each carrier's raw status vocabulary to canonical states.
// Keys are stored lowercase; exact-match lookups go through the original
// casing first, then the lowercased form.
var statusTables = map[string]map[string]enums.ShipmentStatus{
	CarrierAramex: {
		"shipment created":          enums.ShipmentStatusCreated,
		"record created":            enums.ShipmentStatusCreated,
		"picked up from shipper":    enums.ShipmentStatusPickedUp,
		"received at origin branch": enums.ShipmentStatusPickedUp,
		"in transit":                enums.ShipmentStatusInTransit,
		"arrived at destination":    enums.ShipmentStatusInTransit,
		"out for delivery":          enums.ShipmentStatusOutForDelivery,
		"delivered":                 enums.ShipmentStatusDelivered,
		"delivery failed":           enums.ShipmentStatusFailed,
		"delivery attempt failed":   enums.ShipmentStatusFailed,
		"returned to shipper":       enums.ShipmentStatusReturned,
	},
	CarrierSMSA: {
		"data received":              enums.ShipmentStatusCreated,
		"awb created":                enums.ShipmentStatusCreated,
		"picked up":                  enums.ShipmentStatusPickedUp,
		"collected from customer":    enums.ShipmentStatusPickedUp,
		"in transit":                 enums.ShipmentStatusInTransit,
		"arrived at operations hub":  enums.ShipmentStatusInTransit,
		"out for delivery":           enums.ShipmentStatusOutForDelivery,
		"proof of delivery captured": enums.ShipmentStatusDelivered,
		"delivered":                  enums.ShipmentStatusDelivered,
		"undelivered":                enums.ShipmentStatusFailed,
		"consignee not available":    enums.ShipmentStatusFailed,
		"returned to origin":         enums.ShipmentStatusReturned,
	},
	CarrierGeneric: {
		"created":          enums.ShipmentStatusCreated,
		"order received":   enums.ShipmentStatusCreated,
		"picked_up":        enums.ShipmentStatusPickedUp,
		"picked up":        enums.ShipmentStatusPickedUp,
		"in_transit":       enums.ShipmentStatusInTransit,
		"in transit":       enums.ShipmentStatusInTransit,
		"out_for_delivery": enums.ShipmentStatusOutForDelivery,
		"out for delivery": enums.ShipmentStatusOutForDelivery,
		"delivered":        enums.ShipmentStatusDelivered,
		"failed":           enums.ShipmentStatusFailed,
		"delivery_failed":  enums.ShipmentStatusFailed,
		"returned":         enums.ShipmentStatusReturned,
	},
}

// fuzzyRule is one substring heuristic. Rules run in declaration order, so
// the more specific predicates must stay above the broader ones
// ("deliver"+"fail" before "delivered").
type fuzzyRule struct {
	name   string
	match  func(s string) bool
	status enums.ShipmentStatus
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func containsAll(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

var fuzzyRules = []fuzzyRule{
	{name: "failed-delivery", match: containsAll("deliver", "fail"), status: enums.ShipmentStatusFailed},
	{name: "delivered", match: contains("delivered"), status: enums.ShipmentStatusDelivered},
	{name: "returned", match: contains("return"), status: enums.ShipmentStatusReturned},
	{name: "out-for-delivery", match: contains("out for delivery"), status: enums.ShipmentStatusOutForDelivery},
	{name: "in-transit", match: contains("transit"), status: enums.ShipmentStatusInTransit},
	{name: "picked-up", match: containsAny("picked", "pickup"), status: enums.ShipmentStatusPickedUp},
	{name: "created", match: containsAny("created", "received"), status: enums.ShipmentStatusCreated},
	// Unrecognized vocabulary counts as confirmed progress. Kept as an
	// explicit rule rather than an implicit default so the fallback shows up
	// in the priority order.
	{name: "unrecognized-fallback", match: func(string) bool { return true }, status: enums.ShipmentStatusInTransit},
}

// Normalize maps a carrier-specific raw status string to a canonical state.
// It is pure and total: every input yields some canonical status, worst case
// through the named fallback rule.
func Normalize(carrier, rawStatus string) enums.ShipmentStatus {
	table, ok := statusTables[strings.ToLower(strings.TrimSpace(carrier))]
	if !ok {
		table = statusTables[CarrierGeneric]
	}

	if status, ok := table[rawStatus]; ok {
		return status
	}

	lowered := strings.ToLower(strings.TrimSpace(rawStatus))
	if status, ok := table[lowered]; ok {
		return status
	}

	for _, rule := range fuzzyRules {
		if rule.match(lowered) {
			return rule.status
		}
	}

	// Unreachable: the last fuzzy rule always matches.
	return enums.ShipmentStatusInTransit
}
