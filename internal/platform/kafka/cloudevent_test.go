package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudEvent_EnvelopeRoundTrip(t *testing.T) {
	type payload struct {
		VehicleNumber string `json:"vehicle_number"`
	}

	ce, err := NewCloudEvent("vehicle-gateway", "sos.triggered", payload{VehicleNumber: "DL 01 AB 1234"})
	require.NoError(t, err)
	assert.Equal(t, "1.0", ce.SpecVersion)
	assert.NotEmpty(t, ce.ID)

	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	parsed, err := ParseCloudEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "sos.triggered", parsed.Type)

	var got payload
	require.NoError(t, parsed.ParseData(&got))
	assert.Equal(t, "DL 01 AB 1234", got.VehicleNumber)
}

func TestParseCloudEvent_RejectsMalformed(t *testing.T) {
	_, err := ParseCloudEvent([]byte("{not json"))
	assert.Error(t, err)

	_, err = ParseCloudEvent([]byte(`{"id":"1"}`))
	assert.Error(t, err)
}
