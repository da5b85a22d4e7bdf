package reqresp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorNamed(t *testing.T) {
	c, err := ParseColor(json.RawMessage(`"green"`))
	require.NoError(t, err)
	name, ok := c.AsNamed()
	require.True(t, ok)
	assert.Equal(t, "green", name)
}

func TestParseColorRGB(t *testing.T) {
	c, err := ParseColor(json.RawMessage(`[255, 160, 0]`))
	require.NoError(t, err)
	r, g, b, ok := c.AsRGB()
	require.True(t, ok)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(160), g)
	assert.Equal(t, uint8(0), b)
}

func TestParseColorRGBA(t *testing.T) {
	c, err := ParseColor(json.RawMessage(`[255, 255, 255, 0.85]`))
	require.NoError(t, err)
	r, g, b, opacity, ok := c.AsRGBA()
	require.True(t, ok)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(255), g)
	assert.Equal(t, uint8(255), b)
	assert.Equal(t, 0.85, opacity)
}

func TestParseColorEmptyIsUnset(t *testing.T) {
	c, err := ParseColor(nil)
	require.NoError(t, err)
	assert.True(t, c.IsUnset())
}

func TestParseColorWrongArrayLengthFails(t *testing.T) {
	_, err := ParseColor(json.RawMessage(`[1, 2]`))
	assert.Error(t, err)
}

func TestParseColorWrongTypeFails(t *testing.T) {
	_, err := ParseColor(json.RawMessage(`42`))
	assert.Error(t, err)
}

func TestToRouterSettingsUsesDefaultsWhenEitherFieldAbsent(t *testing.T) {
	t.Run("both absent", func(t *testing.T) {
		var r RoutingSettings
		assert.Equal(t, DefaultRouterSettings, r.ToRouterSettings())
	})

	t.Run("only wait time present", func(t *testing.T) {
		wait := 6
		r := RoutingSettings{BusWaitTime: &wait}
		assert.Equal(t, DefaultRouterSettings, r.ToRouterSettings())
	})

	t.Run("both present overrides defaults", func(t *testing.T) {
		wait := 6
		velocity := 40.0
		r := RoutingSettings{BusWaitTime: &wait, BusVelocity: &velocity}
		got := r.ToRouterSettings()
		assert.Equal(t, 6.0, got.WaitTimeMinutes)
		assert.Equal(t, 40.0, got.VelocityKmh)
	})
}

func TestToMapSettingsParsesEveryColor(t *testing.T) {
	r := RenderSettings{
		Width: 600, Height: 400,
		UnderlayerColor: json.RawMessage(`[255, 255, 255, 0.85]`),
		ColorPalette: []json.RawMessage{
			json.RawMessage(`"green"`),
			json.RawMessage(`[255, 160, 0]`),
		},
	}

	settings, err := r.ToMapSettings()
	require.NoError(t, err)
	assert.Equal(t, 600.0, settings.Width)
	assert.Len(t, settings.ColorPalette, 2)
	_, ok := settings.ColorPalette[0].AsNamed()
	assert.True(t, ok)
}

func TestToMapSettingsPropagatesColorError(t *testing.T) {
	r := RenderSettings{UnderlayerColor: json.RawMessage(`[1, 2]`)}
	_, err := r.ToMapSettings()
	assert.Error(t, err)
}

func TestDocumentRoundTripsThroughJSON(t *testing.T) {
	raw := []byte(`{
		"base_requests": [
			{"type": "Stop", "name": "A", "latitude": 1, "longitude": 2, "road_distances": {"B": 100}},
			{"type": "Bus", "name": "10", "is_roundtrip": true, "stops": ["A", "B"]}
		],
		"stat_requests": [
			{"id": 1, "type": "Stop", "name": "A"},
			{"id": 2, "type": "Route", "from": "A", "to": "B"}
		],
		"routing_settings": {"bus_wait_time": 6, "bus_velocity": 40},
		"serialization_settings": {"file": "base.cbor"}
	}`)

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	require.Len(t, doc.BaseRequests, 2)
	require.Len(t, doc.StatRequests, 2)
	require.NotNil(t, doc.RoutingSettings)
	assert.Equal(t, 100.0, doc.BaseRequests[0].RoadDistances["B"])
	assert.Equal(t, "A", doc.StatRequests[1].From)
	assert.Equal(t, "base.cbor", doc.SerializationSettings.File)
}
