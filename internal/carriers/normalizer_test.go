package carriers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mirsal-ops/mirsal-backend/pkg/enums"
)

func TestNormalizeExactMatch(t *testing.T) {
	assert.Equal(t, enums.ShipmentStatusPickedUp, Normalize("aramex", "Picked Up From Shipper"))
	assert.Equal(t, enums.ShipmentStatusDelivered, Normalize("smsa", "Proof of Delivery Captured"))
	assert.Equal(t, enums.ShipmentStatusOutForDelivery, Normalize("generic", "out_for_delivery"))
}

func TestNormalizeCaseInsensitive(t *testing.T) {
	assert.Equal(t, enums.ShipmentStatusFailed, Normalize("aramex", "DELIVERY ATTEMPT FAILED"))
	assert.Equal(t, enums.ShipmentStatusCreated, Normalize("smsa", "Data RECEIVED"))
	assert.Equal(t, enums.ShipmentStatusReturned, Normalize("generic", "  Returned  "))
}

func TestNormalizeFuzzyPriority(t *testing.T) {
	// A failed delivery must never be mistaken for a completed one.
	assert.Equal(t, enums.ShipmentStatusFailed, Normalize("aramex", "Package could not be delivered - failed attempt #2"))
	assert.Equal(t, enums.ShipmentStatusDelivered, Normalize("smsa", "Successfully delivered to consignee doorstep"))
	assert.Equal(t, enums.ShipmentStatusReturned, Normalize("generic", "Return initiated by customer"))
	assert.Equal(t, enums.ShipmentStatusOutForDelivery, Normalize("generic", "Courier out for delivery now"))
	assert.Equal(t, enums.ShipmentStatusInTransit, Normalize("aramex", "Linehaul transit between hubs"))
	assert.Equal(t, enums.ShipmentStatusPickedUp, Normalize("smsa", "Pickup completed at warehouse"))
	assert.Equal(t, enums.ShipmentStatusCreated, Normalize("generic", "Label created by merchant"))
}

func TestNormalizeFallback(t *testing.T) {
	assert.Equal(t, enums.ShipmentStatusInTransit, Normalize("aramex", "SH-CODE-9981"))
	assert.Equal(t, enums.ShipmentStatusInTransit, Normalize("generic", ""))
}

func TestNormalizeUnknownCarrierUsesGenericTable(t *testing.T) {
	assert.Equal(t, enums.ShipmentStatusDelivered, Normalize("dhl", "delivered"))
	assert.Equal(t, enums.ShipmentStatusFailed, Normalize("fetchr", "delivery_failed"))
}

func TestNormalizeIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, enums.ShipmentStatusDelivered, Normalize("aramex", "Delivered"))
	}
}
