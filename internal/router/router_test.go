package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/geo"
)

func buildSampleCatalogue() *catalogue.Catalogue {
	c := catalogue.New()
	a := c.AddStop("Biryusinka", geo.Coordinates{Lat: 55.581065, Lng: 37.64839})
	b := c.AddStop("Universam", geo.Coordinates{Lat: 55.587655, Lng: 37.645687})
	cc := c.AddStop("Biryulyovo Tovarnaya", geo.Coordinates{Lat: 55.592028, Lng: 37.653656})

	c.SetDistance("Biryusinka", "Universam", 750)
	c.SetDistance("Universam", "Biryulyovo Tovarnaya", 5600)
	c.SetDistance("Biryulyovo Tovarnaya", "Universam", 5500)
	c.SetDistance("Universam", "Biryusinka", 400)

	c.AddBus("828", []int{a, b, cc, b, a}, true)
	return c
}

func TestGetRouteInfoWaitsThenRides(t *testing.T) {
	c := buildSampleCatalogue()
	r := Build(c, Settings{WaitTimeMinutes: 6, VelocityKmh: 40})

	weight, edges, ok := r.GetRouteInfo("Biryusinka", "Universam")
	require.True(t, ok)
	require.Len(t, edges, 2)

	assert.Equal(t, KindWait, edges[0].Kind)
	assert.Equal(t, "Biryusinka", edges[0].Name)
	assert.Equal(t, 6.0, edges[0].Time)

	assert.Equal(t, KindBus, edges[1].Kind)
	assert.Equal(t, "828", edges[1].Name)
	assert.Equal(t, 1, edges[1].SpanCount)

	assert.Equal(t, edges[0].Time+edges[1].Time, weight)
}

func TestGetRouteInfoMultiSpan(t *testing.T) {
	c := buildSampleCatalogue()
	r := Build(c, Settings{WaitTimeMinutes: 6, VelocityKmh: 40})

	_, edges, ok := r.GetRouteInfo("Biryusinka", "Biryulyovo Tovarnaya")
	require.True(t, ok)
	require.Len(t, edges, 2)
	assert.Equal(t, KindBus, edges[1].Kind)
	assert.Equal(t, 2, edges[1].SpanCount, "two stops traveled on the same bus")
}

func TestGetRouteInfoUnknownStop(t *testing.T) {
	c := buildSampleCatalogue()
	r := Build(c, Settings{WaitTimeMinutes: 6, VelocityKmh: 40})

	_, _, ok := r.GetRouteInfo("Nowhere", "Universam")
	assert.False(t, ok)
}

func TestGetRouteInfoUnreachable(t *testing.T) {
	c := catalogue.New()
	c.AddStop("Island A", geo.Coordinates{})
	c.AddStop("Island B", geo.Coordinates{})
	r := Build(c, Settings{WaitTimeMinutes: 1, VelocityKmh: 10})

	_, _, ok := r.GetRouteInfo("Island A", "Island B")
	assert.False(t, ok)
}

func TestFromComponentsRoundtrip(t *testing.T) {
	c := buildSampleCatalogue()
	built := Build(c, Settings{WaitTimeMinutes: 6, VelocityKmh: 40})

	loaded := FromComponents(built.Settings(), built.StopVertexIDs(), built.EdgesInfo(), built.Graph())

	want, _, ok := built.GetRouteInfo("Biryusinka", "Universam")
	require.True(t, ok)
	got, _, ok := loaded.GetRouteInfo("Biryusinka", "Universam")
	require.True(t, ok)
	assert.Equal(t, want, got)
}
