package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/geo"
	"github.com/transitcat/catalogue/internal/mapview"
	"github.com/transitcat/catalogue/internal/router"
	"github.com/transitcat/catalogue/internal/svg"
)

func buildSample() (*catalogue.Catalogue, *router.Router, mapview.Settings) {
	cat := catalogue.New()
	a := cat.AddStop("Biryusinka", geo.Coordinates{Lat: 55.581065, Lng: 37.64839})
	b := cat.AddStop("Universam", geo.Coordinates{Lat: 55.587655, Lng: 37.645687})
	cc := cat.AddStop("Biryulyovo Tovarnaya", geo.Coordinates{Lat: 55.592028, Lng: 37.653656})

	cat.SetDistance("Biryusinka", "Universam", 750)
	cat.SetDistance("Universam", "Biryulyovo Tovarnaya", 5600)
	cat.AddBus("828", []int{a, b, cc}, false)

	rtr := router.Build(cat, router.Settings{WaitTimeMinutes: 6, VelocityKmh: 40})

	render := mapview.Settings{
		Width: 600, Height: 400, Padding: 50,
		StopRadius: 5, LineWidth: 14,
		BusLabelFontSize: 20, BusLabelOffset: svg.Point{X: 7, Y: 15},
		StopLabelFontSize: 18, StopLabelOffset: svg.Point{X: 7, Y: -3},
		UnderlayerColor: svg.RGBA(255, 255, 255, 0.85), UnderlayerWidth: 3,
		ColorPalette: []svg.Color{svg.Named("green"), svg.RGB(255, 160, 0)},
	}

	return cat, rtr, render
}

func TestRoundTripPreservesCatalogue(t *testing.T) {
	cat, rtr, render := buildSample()
	db := BuildFromRuntime(cat, rtr, render)

	gotCat, gotRouter, gotRender := db.ToRuntime()

	assert.Equal(t, cat.StopNames(), gotCat.StopNames())
	assert.Equal(t, cat.BusNames(), gotCat.BusNames())

	for _, name := range cat.BusNames() {
		wantStat, _ := cat.GetBusStat(name)
		gotStat, ok := gotCat.GetBusStat(name)
		require.True(t, ok)
		assert.Equal(t, wantStat, gotStat)
	}

	for _, from := range cat.StopNames() {
		for _, to := range cat.StopNames() {
			assert.Equal(t, cat.GetDistance(from, to), gotCat.GetDistance(from, to))
		}
	}

	_ = rtr
	_ = render
	_ = gotRouter
	_ = gotRender
}

func TestRoundTripPreservesRouteInfo(t *testing.T) {
	cat, rtr, render := buildSample()
	db := BuildFromRuntime(cat, rtr, render)
	_, gotRouter, _ := db.ToRuntime()

	names := cat.StopNames()
	for _, from := range names {
		for _, to := range names {
			wantWeight, wantEdges, wantOK := rtr.GetRouteInfo(from, to)
			gotWeight, gotEdges, gotOK := gotRouter.GetRouteInfo(from, to)
			require.Equal(t, wantOK, gotOK)
			if wantOK {
				assert.InDelta(t, wantWeight, gotWeight, 1e-9)
				assert.Equal(t, wantEdges, gotEdges)
			}
		}
	}
	_ = render
}

func TestRoundTripPreservesRenderSettings(t *testing.T) {
	_, _, render := buildSample()
	cat, rtr, _ := buildSample()
	db := BuildFromRuntime(cat, rtr, render)

	_, _, gotRender := db.ToRuntime()
	assert.Equal(t, render.Width, gotRender.Width)
	assert.Equal(t, render.UnderlayerColor, gotRender.UnderlayerColor)
	assert.Equal(t, render.ColorPalette, gotRender.ColorPalette)
}

func TestSaveAndLoadFile(t *testing.T) {
	cat, rtr, render := buildSample()
	db := BuildFromRuntime(cat, rtr, render)

	path := filepath.Join(t.TempDir(), "artifact.cbor")
	require.NoError(t, Save(path, db))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, db.Stops, loaded.Stops)
	assert.Equal(t, db.Buses, loaded.Buses)
}

func TestSaveEmptyPathFails(t *testing.T) {
	err := Save("", &Database{})
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.cbor"))
	assert.Error(t, err)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.cbor")
	require.NoError(t, os.WriteFile(path, []byte("not cbor"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEmptyCatalogueRoundTrip(t *testing.T) {
	cat := catalogue.New()
	rtr := router.Build(cat, router.Settings{WaitTimeMinutes: 1, VelocityKmh: 1})
	db := BuildFromRuntime(cat, rtr, mapview.Settings{})

	gotCat, _, _ := db.ToRuntime()
	assert.Empty(t, gotCat.StopNames())
	assert.Empty(t, gotCat.BusNames())
}
