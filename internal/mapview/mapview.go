// Package mapview renders a catalogue's buses and stops to an SVG map: an
// aspect-preserving projection from geographic coordinates to a fixed
// width/height canvas, then four draw passes (route lines, bus labels,
// stop circles, stop labels) in that fixed order.
package mapview

import (
	"math"

	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/geo"
	"github.com/transitcat/catalogue/internal/svg"
)

const epsilon = 1e-6

func isZero(v float64) bool {
	return math.Abs(v) < epsilon
}

// Settings controls canvas size and the visual style of every drawn
// element.
type Settings struct {
	Width             float64
	Height            float64
	Padding           float64
	StopRadius        float64
	LineWidth         float64
	BusLabelFontSize  uint32
	BusLabelOffset    svg.Point
	StopLabelFontSize uint32
	StopLabelOffset   svg.Point
	UnderlayerColor   svg.Color
	UnderlayerWidth   float64
	ColorPalette      []svg.Color
}

// projector maps geographic coordinates onto the canvas, preserving
// aspect ratio and falling back to whichever axis actually varies when the
// input is a single point or a line.
type projector struct {
	padding float64
	minLon  float64
	maxLat  float64
	zoom    float64
}

func newProjector(points []geo.Coordinates, maxWidth, maxHeight, padding float64) *projector {
	p := &projector{padding: padding}
	if len(points) == 0 {
		return p
	}

	minLon, maxLon := points[0].Lng, points[0].Lng
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, pt := range points[1:] {
		minLon = math.Min(minLon, pt.Lng)
		maxLon = math.Max(maxLon, pt.Lng)
		minLat = math.Min(minLat, pt.Lat)
		maxLat = math.Max(maxLat, pt.Lat)
	}
	p.minLon = minLon
	p.maxLat = maxLat

	var widthZoom, heightZoom *float64
	if !isZero(maxLon - minLon) {
		wz := (maxWidth - 2*padding) / (maxLon - minLon)
		widthZoom = &wz
	}
	if !isZero(maxLat - minLat) {
		hz := (maxHeight - 2*padding) / (maxLat - minLat)
		heightZoom = &hz
	}

	switch {
	case widthZoom != nil && heightZoom != nil:
		p.zoom = math.Min(*widthZoom, *heightZoom)
	case widthZoom != nil:
		p.zoom = *widthZoom
	case heightZoom != nil:
		p.zoom = *heightZoom
	}
	return p
}

func (p *projector) project(c geo.Coordinates) svg.Point {
	return svg.Point{
		X: (c.Lng-p.minLon)*p.zoom + p.padding,
		Y: (p.maxLat-c.Lat)*p.zoom + p.padding,
	}
}

// Render draws every bus and every stop reachable by some bus route into a
// fresh SVG document, per the four-layer order: route lines, bus labels,
// stop circles, stop labels.
func Render(cat *catalogue.Catalogue, settings Settings) *svg.Document {
	busNames := cat.BusNames()
	stopNames := stopsOnAnyRoute(cat, busNames)

	points := make([]geo.Coordinates, len(stopNames))
	for i, name := range stopNames {
		id, _ := cat.SearchStop(name)
		points[i] = cat.Stop(id).Coordinates
	}
	proj := newProjector(points, settings.Width, settings.Height, settings.Padding)

	doc := svg.NewDocument()
	drawRouteLines(doc, cat, busNames, settings, proj)
	drawBusLabels(doc, cat, busNames, settings, proj)
	drawStopCircles(doc, cat, stopNames, settings, proj)
	drawStopLabels(doc, cat, stopNames, settings, proj)
	return doc
}

// stopsOnAnyRoute returns, in name order, every stop referenced by at
// least one bus's route. Stops with no bus passing through them are never
// drawn.
func stopsOnAnyRoute(cat *catalogue.Catalogue, busNames []string) []string {
	referenced := make(map[int]bool)
	for _, name := range busNames {
		id, _ := cat.SearchBus(name)
		for _, sid := range cat.Bus(id).Route {
			referenced[sid] = true
		}
	}

	var names []string
	for _, name := range cat.StopNames() {
		id, _ := cat.SearchStop(name)
		if referenced[id] {
			names = append(names, name)
		}
	}
	return names
}

func paletteColor(settings Settings, index int) svg.Color {
	if len(settings.ColorPalette) == 0 {
		return svg.Color{}
	}
	return settings.ColorPalette[index]
}

func nextColor(index, paletteSize int) int {
	if paletteSize == 0 {
		return 0
	}
	index++
	if index == paletteSize {
		index = 0
	}
	return index
}

func drawRouteLines(doc *svg.Document, cat *catalogue.Catalogue, busNames []string, settings Settings, proj *projector) {
	color := 0
	for _, name := range busNames {
		id, _ := cat.SearchBus(name)
		route := cat.Bus(id).Route
		if len(route) < 2 {
			continue
		}

		line := svg.NewPolyline().
			SetFillColor(svg.NoneColor).
			SetStrokeColor(paletteColor(settings, color)).
			SetStrokeWidth(settings.LineWidth).
			SetStrokeLineCap(svg.LineCapRound).
			SetStrokeLineJoin(svg.LineJoinRound)

		for _, sid := range route {
			line.AddPoint(proj.project(cat.Stop(sid).Coordinates))
		}

		color = nextColor(color, len(settings.ColorPalette))
		doc.Add(line)
	}
}

func drawBusLabels(doc *svg.Document, cat *catalogue.Catalogue, busNames []string, settings Settings, proj *projector) {
	color := 0
	for _, name := range busNames {
		id, _ := cat.SearchBus(name)
		bus := cat.Bus(id)
		if len(bus.Route) == 0 {
			continue
		}

		first := bus.Route[0]
		addBusLabel(doc, bus.Name, cat.Stop(first).Coordinates, settings, proj, color)

		if !bus.IsRoundtrip && bus.FinalStop != first {
			addBusLabel(doc, bus.Name, cat.Stop(bus.FinalStop).Coordinates, settings, proj, color)
		}

		color = nextColor(color, len(settings.ColorPalette))
	}
}

func addBusLabel(doc *svg.Document, name string, coord geo.Coordinates, settings Settings, proj *projector, color int) {
	pos := proj.project(coord)

	background := svg.NewText().
		SetPosition(pos).
		SetData(name).
		SetFontWeight("bold").
		SetFontFamily("Verdana").
		SetFontSize(settings.BusLabelFontSize).
		SetOffset(settings.BusLabelOffset).
		SetFillColor(settings.UnderlayerColor).
		SetStrokeColor(settings.UnderlayerColor).
		SetStrokeWidth(settings.UnderlayerWidth).
		SetStrokeLineCap(svg.LineCapRound).
		SetStrokeLineJoin(svg.LineJoinRound)

	label := svg.NewText().
		SetPosition(pos).
		SetData(name).
		SetFontWeight("bold").
		SetFontFamily("Verdana").
		SetFontSize(settings.BusLabelFontSize).
		SetOffset(settings.BusLabelOffset).
		SetFillColor(paletteColor(settings, color))

	doc.Add(background)
	doc.Add(label)
}

func drawStopCircles(doc *svg.Document, cat *catalogue.Catalogue, stopNames []string, settings Settings, proj *projector) {
	for _, name := range stopNames {
		id, _ := cat.SearchStop(name)
		doc.Add(svg.NewCircle().
			SetCenter(proj.project(cat.Stop(id).Coordinates)).
			SetRadius(settings.StopRadius).
			SetFillColor(svg.Named("white")))
	}
}

func drawStopLabels(doc *svg.Document, cat *catalogue.Catalogue, stopNames []string, settings Settings, proj *projector) {
	for _, name := range stopNames {
		id, _ := cat.SearchStop(name)
		pos := proj.project(cat.Stop(id).Coordinates)

		background := svg.NewText().
			SetPosition(pos).
			SetFontFamily("Verdana").
			SetData(name).
			SetFontSize(settings.StopLabelFontSize).
			SetOffset(settings.StopLabelOffset).
			SetFillColor(settings.UnderlayerColor).
			SetStrokeColor(settings.UnderlayerColor).
			SetStrokeWidth(settings.UnderlayerWidth).
			SetStrokeLineCap(svg.LineCapRound).
			SetStrokeLineJoin(svg.LineJoinRound)

		label := svg.NewText().
			SetFillColor(svg.Named("black")).
			SetFontFamily("Verdana").
			SetData(name).
			SetPosition(pos).
			SetOffset(settings.StopLabelOffset).
			SetFontSize(settings.StopLabelFontSize)

		doc.Add(background)
		doc.Add(label)
	}
}
