// Package schema is the binary persistence layer: it flattens a catalogue,
// a router, and map-renderer settings into one CBOR document keyed by
// stable integer ids, and rebuilds the runtime objects from that document
// without recomputing the router's all-pairs table.
package schema

import (
	"errors"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/geo"
	"github.com/transitcat/catalogue/internal/graphkernel"
	"github.com/transitcat/catalogue/internal/mapview"
	"github.com/transitcat/catalogue/internal/router"
	"github.com/transitcat/catalogue/internal/svg"
)

// Database is the top-level artifact: the three sections named in the
// persistence contract, catalogue, router, and render settings.
type Database struct {
	Stops     []StopRecord     `cbor:"stops"`
	Buses     []BusRecord      `cbor:"buses"`
	Distances []DistanceRecord `cbor:"distances"`
	Router    RouterRecord     `cbor:"router"`
	Render    RenderRecord     `cbor:"render"`
}

// StopRecord is a stop keyed by its position in Database.Stops (its id).
type StopRecord struct {
	Name string  `cbor:"name"`
	Lat  float64 `cbor:"lat"`
	Lng  float64 `cbor:"lng"`
}

// BusRecord is a bus keyed by its position in Database.Buses. Route
// references stops by id.
type BusRecord struct {
	Name        string `cbor:"name"`
	Route       []int  `cbor:"route"`
	IsRoundtrip bool   `cbor:"is_roundtrip"`
	FinalStop   int    `cbor:"final_stop"`
}

// DistanceRecord is one (from,to) entry of the distance table, by stop id.
type DistanceRecord struct {
	FromID int     `cbor:"from_id"`
	ToID   int     `cbor:"to_id"`
	Meters float64 `cbor:"meters"`
}

// RouterRecord is the full routing graph plus its precomputed table, so
// loading never recomputes shortest paths.
type RouterRecord struct {
	Settings  RoutingSettingsRecord `cbor:"settings"`
	Edges     []EdgeRecord          `cbor:"edges"`
	Table     []TableRowRecord      `cbor:"table"`
	EdgesInfo []EdgeInfoRecord      `cbor:"edges_info"`
	VertexIDs []VertexIDsRecord     `cbor:"vertex_ids"` // indexed by stop id
}

// RoutingSettingsRecord mirrors router.Settings.
type RoutingSettingsRecord struct {
	WaitTimeMinutes float64 `cbor:"wait_time_minutes"`
	VelocityKmh     float64 `cbor:"velocity_kmh"`
}

// EdgeRecord is one graphkernel.Edge.
type EdgeRecord struct {
	From   int     `cbor:"from"`
	To     int     `cbor:"to"`
	Weight float64 `cbor:"weight"`
}

// TableCellRecord is one all-pairs table cell. Reachable is false for an
// absent cell; Weight/PrevEdge are meaningless when Reachable is false.
type TableCellRecord struct {
	Reachable bool    `cbor:"reachable"`
	Weight    float64 `cbor:"weight"`
	PrevEdge  int     `cbor:"prev_edge"`
}

// TableRowRecord is one source row of the dense all-pairs table.
type TableRowRecord struct {
	Cells []TableCellRecord `cbor:"cells"`
}

// EdgeInfoRecord is the tag attached to one routing edge: either a wait
// edge (IsBus false, NameID is a stop id) or a bus edge (IsBus true,
// NameID is a bus id, SpanCount set).
type EdgeInfoRecord struct {
	IsBus     bool    `cbor:"is_bus"`
	NameID    int     `cbor:"name_id"`
	Time      float64 `cbor:"time"`
	SpanCount int     `cbor:"span_count"`
}

// VertexIDsRecord is the (in, out) vertex pair for the stop at this index.
type VertexIDsRecord struct {
	In  int `cbor:"in"`
	Out int `cbor:"out"`
}

// ColorKind discriminates the three color variants a ColorRecord may hold.
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorNamed
	ColorRGB
	ColorRGBA
)

// ColorRecord serializes an svg.Color with an explicit kind discriminator,
// never inferring rgb vs rgba from which fields happen to be zero.
type ColorRecord struct {
	Kind    ColorKind `cbor:"kind"`
	Name    string    `cbor:"name,omitempty"`
	R       uint8     `cbor:"r,omitempty"`
	G       uint8     `cbor:"g,omitempty"`
	B       uint8     `cbor:"b,omitempty"`
	Opacity float64   `cbor:"opacity,omitempty"`
}

// RenderRecord mirrors mapview.Settings one-to-one.
type RenderRecord struct {
	Width             float64       `cbor:"width"`
	Height            float64       `cbor:"height"`
	Padding           float64       `cbor:"padding"`
	StopRadius        float64       `cbor:"stop_radius"`
	LineWidth         float64       `cbor:"line_width"`
	BusLabelFontSize  uint32        `cbor:"bus_label_font_size"`
	BusLabelOffsetX   float64       `cbor:"bus_label_offset_x"`
	BusLabelOffsetY   float64       `cbor:"bus_label_offset_y"`
	StopLabelFontSize uint32        `cbor:"stop_label_font_size"`
	StopLabelOffsetX  float64       `cbor:"stop_label_offset_x"`
	StopLabelOffsetY  float64       `cbor:"stop_label_offset_y"`
	UnderlayerColor   ColorRecord   `cbor:"underlayer_color"`
	UnderlayerWidth   float64       `cbor:"underlayer_width"`
	ColorPalette      []ColorRecord `cbor:"color_palette"`
}

func encodeColor(c svg.Color) ColorRecord {
	if name, ok := c.AsNamed(); ok {
		return ColorRecord{Kind: ColorNamed, Name: name}
	}
	if r, g, b, ok := c.AsRGB(); ok {
		return ColorRecord{Kind: ColorRGB, R: r, G: g, B: b}
	}
	if r, g, b, a, ok := c.AsRGBA(); ok {
		return ColorRecord{Kind: ColorRGBA, R: r, G: g, B: b, Opacity: a}
	}
	return ColorRecord{Kind: ColorNone}
}

func decodeColor(r ColorRecord) svg.Color {
	switch r.Kind {
	case ColorNamed:
		return svg.Named(r.Name)
	case ColorRGB:
		return svg.RGB(r.R, r.G, r.B)
	case ColorRGBA:
		return svg.RGBA(r.R, r.G, r.B, r.Opacity)
	default:
		return svg.Color{}
	}
}

// BuildFromRuntime flattens a built catalogue, router, and render settings
// into a Database ready to be saved.
func BuildFromRuntime(cat *catalogue.Catalogue, rtr *router.Router, render mapview.Settings) *Database {
	stopNames := cat.StopNames()
	stopID := make(map[string]int, len(stopNames))
	stops := make([]StopRecord, len(stopNames))
	for id, name := range stopNames {
		stopID[name] = id
		rec, _ := cat.SearchStop(name)
		stop := cat.Stop(rec)
		stops[id] = StopRecord{Name: name, Lat: stop.Coordinates.Lat, Lng: stop.Coordinates.Lng}
	}

	busNames := cat.BusNames()
	busID := make(map[string]int, len(busNames))
	buses := make([]BusRecord, len(busNames))
	for id, name := range busNames {
		busID[name] = id
		catID, _ := cat.SearchBus(name)
		bus := cat.Bus(catID)
		route := make([]int, len(bus.Route))
		for i, sid := range bus.Route {
			route[i] = stopID[cat.Stop(sid).Name]
		}
		finalID := -1
		if bus.FinalStop != catalogue.NoStop {
			finalID = stopID[cat.Stop(bus.FinalStop).Name]
		}
		buses[id] = BusRecord{Name: name, Route: route, IsRoundtrip: bus.IsRoundtrip, FinalStop: finalID}
	}

	entries := cat.Distances()
	distances := make([]DistanceRecord, len(entries))
	for i, e := range entries {
		distances[i] = DistanceRecord{FromID: stopID[e.From], ToID: stopID[e.To], Meters: e.Meters}
	}

	vertexIDs := make([]VertexIDsRecord, len(stopNames))
	for _, name := range stopNames {
		v := rtr.StopVertexIDs()[name]
		vertexIDs[stopID[name]] = VertexIDsRecord{In: v.In, Out: v.Out}
	}

	graph := rtr.Graph()
	edges := make([]EdgeRecord, graph.NumEdges())
	for id := 0; id < graph.NumEdges(); id++ {
		e := graph.Edge(id)
		edges[id] = EdgeRecord{From: e.From, To: e.To, Weight: e.Weight}
	}

	table := make([]TableRowRecord, graph.NumVertices())
	for source, row := range graph.Table() {
		cells := make([]TableCellRecord, len(row))
		for v, entry := range row {
			if entry.Weight < 0 {
				cells[v] = TableCellRecord{Reachable: false}
				continue
			}
			cells[v] = TableCellRecord{Reachable: true, Weight: entry.Weight, PrevEdge: entry.PrevEdge}
		}
		table[source] = TableRowRecord{Cells: cells}
	}

	edgesInfo := make([]EdgeInfoRecord, len(rtr.EdgesInfo()))
	for id, info := range rtr.EdgesInfo() {
		switch info.Kind {
		case router.KindWait:
			edgesInfo[id] = EdgeInfoRecord{IsBus: false, NameID: stopID[info.Name], Time: info.Time}
		case router.KindBus:
			edgesInfo[id] = EdgeInfoRecord{IsBus: true, NameID: busID[info.Name], Time: info.Time, SpanCount: info.SpanCount}
		}
	}

	return &Database{
		Stops:     stops,
		Buses:     buses,
		Distances: distances,
		Router: RouterRecord{
			Settings: RoutingSettingsRecord{
				WaitTimeMinutes: rtr.Settings().WaitTimeMinutes,
				VelocityKmh:     rtr.Settings().VelocityKmh,
			},
			Edges:     edges,
			Table:     table,
			EdgesInfo: edgesInfo,
			VertexIDs: vertexIDs,
		},
		Render: RenderRecord{
			Width:             render.Width,
			Height:            render.Height,
			Padding:           render.Padding,
			StopRadius:        render.StopRadius,
			LineWidth:         render.LineWidth,
			BusLabelFontSize:  render.BusLabelFontSize,
			BusLabelOffsetX:   render.BusLabelOffset.X,
			BusLabelOffsetY:   render.BusLabelOffset.Y,
			StopLabelFontSize: render.StopLabelFontSize,
			StopLabelOffsetX:  render.StopLabelOffset.X,
			StopLabelOffsetY:  render.StopLabelOffset.Y,
			UnderlayerColor:   encodeColor(render.UnderlayerColor),
			UnderlayerWidth:   render.UnderlayerWidth,
			ColorPalette:      encodePalette(render.ColorPalette),
		},
	}
}

func encodePalette(colors []svg.Color) []ColorRecord {
	out := make([]ColorRecord, len(colors))
	for i, c := range colors {
		out[i] = encodeColor(c)
	}
	return out
}

// ToRuntime rebuilds the catalogue, router (in prebuilt-table mode), and
// render settings from a loaded Database.
func (db *Database) ToRuntime() (*catalogue.Catalogue, *router.Router, mapview.Settings) {
	cat := catalogue.New()
	stopNameByID := make([]string, len(db.Stops))
	for id, s := range db.Stops {
		cat.AddStop(s.Name, geo.Coordinates{Lat: s.Lat, Lng: s.Lng})
		stopNameByID[id] = s.Name
	}

	for _, d := range db.Distances {
		cat.SetDistance(stopNameByID[d.FromID], stopNameByID[d.ToID], d.Meters)
	}

	for _, b := range db.Buses {
		stopIDs := make([]int, 0, len(b.Route))
		if b.IsRoundtrip {
			for _, sid := range b.Route {
				catStopID, _ := cat.SearchStop(stopNameByID[sid])
				stopIDs = append(stopIDs, catStopID)
			}
		} else if len(b.Route) > 0 {
			// stored route is already the mirrored form; take the first
			// half (through the final stop) so AddBus's own expansion
			// reproduces it exactly.
			half := len(b.Route)/2 + 1
			for _, sid := range b.Route[:half] {
				catStopID, _ := cat.SearchStop(stopNameByID[sid])
				stopIDs = append(stopIDs, catStopID)
			}
		}
		cat.AddBus(b.Name, stopIDs, b.IsRoundtrip)
	}

	busNameByID := make([]string, len(db.Buses))
	for id, b := range db.Buses {
		busNameByID[id] = b.Name
	}

	stopVertex := make(map[string]router.VertexIDs, len(db.Router.VertexIDs))
	for id, v := range db.Router.VertexIDs {
		stopVertex[stopNameByID[id]] = router.VertexIDs{In: v.In, Out: v.Out}
	}

	edges := make([]graphkernel.Edge, len(db.Router.Edges))
	for id, e := range db.Router.Edges {
		edges[id] = graphkernel.Edge{From: e.From, To: e.To, Weight: e.Weight}
	}

	table := make([][]graphkernel.RouteEntry, len(db.Router.Table))
	for source, row := range db.Router.Table {
		entries := make([]graphkernel.RouteEntry, len(row.Cells))
		for v, cell := range row.Cells {
			if !cell.Reachable {
				entries[v] = graphkernel.RouteEntry{Weight: -1, PrevEdge: graphkernel.NoEdge}
				continue
			}
			entries[v] = graphkernel.RouteEntry{Weight: cell.Weight, PrevEdge: cell.PrevEdge}
		}
		table[source] = entries
	}

	graph := graphkernel.NewWithTable(len(table), edges, table)

	edgesInfo := make([]router.EdgeInfo, len(db.Router.EdgesInfo))
	for id, info := range db.Router.EdgesInfo {
		if info.IsBus {
			edgesInfo[id] = router.EdgeInfo{Kind: router.KindBus, Name: busNameByID[info.NameID], Time: info.Time, SpanCount: info.SpanCount}
		} else {
			edgesInfo[id] = router.EdgeInfo{Kind: router.KindWait, Name: stopNameByID[info.NameID], Time: info.Time}
		}
	}

	rtr := router.FromComponents(router.Settings{
		WaitTimeMinutes: db.Router.Settings.WaitTimeMinutes,
		VelocityKmh:     db.Router.Settings.VelocityKmh,
	}, stopVertex, edgesInfo, graph)

	render := mapview.Settings{
		Width:             db.Render.Width,
		Height:            db.Render.Height,
		Padding:           db.Render.Padding,
		StopRadius:        db.Render.StopRadius,
		LineWidth:         db.Render.LineWidth,
		BusLabelFontSize:  db.Render.BusLabelFontSize,
		BusLabelOffset:    svg.Point{X: db.Render.BusLabelOffsetX, Y: db.Render.BusLabelOffsetY},
		StopLabelFontSize: db.Render.StopLabelFontSize,
		StopLabelOffset:   svg.Point{X: db.Render.StopLabelOffsetX, Y: db.Render.StopLabelOffsetY},
		UnderlayerColor:   decodeColor(db.Render.UnderlayerColor),
		UnderlayerWidth:   db.Render.UnderlayerWidth,
		ColorPalette:      decodePalette(db.Render.ColorPalette),
	}

	return cat, rtr, render
}

func decodePalette(records []ColorRecord) []svg.Color {
	out := make([]svg.Color, len(records))
	for i, r := range records {
		out[i] = decodeColor(r)
	}
	return out
}

// ErrEmptyPath is returned by Save when the configured artifact path is
// empty.
var ErrEmptyPath = errors.New("schema: empty artifact path")

// Save CBOR-encodes db and writes it to path in binary mode. No partial
// file is left behind on a marshal failure.
func Save(path string, db *Database) error {
	if path == "" {
		return ErrEmptyPath
	}
	data, err := cbor.Marshal(db)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads and CBOR-decodes the artifact at path. A malformed file
// returns an error without touching any existing in-memory state — the
// caller only replaces its state once Load succeeds.
func Load(path string) (*Database, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var db Database
	if err := cbor.Unmarshal(data, &db); err != nil {
		return nil, err
	}
	return &db, nil
}
