// Package router builds the time-weighted routing graph over a catalogue's
// stops and buses, and answers shortest-route queries against it.
//
// Every stop gets two vertices, in and out, joined by a wait edge; every
// bus contributes one edge per reachable (from, to) span along its route,
// weighted by cumulative road distance converted to minutes. The graph
// itself (container/heap Dijkstra, all-pairs table, route reconstruction)
// lives in internal/graphkernel — this package only knows how to build the
// vertex/edge layout and read edge metadata back off a built route.
package router

import (
	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/graphkernel"
)

// toMinutes converts a distance-over-velocity (meters / km-per-hour) ratio
// into minutes: meters/(km/h) is hours*1000, so multiplying by 60/1000
// (= 3.6/60) yields minutes.
const toMinutes = 3.6 / 60.0

// Settings configures the wait cost and travel speed used to weight edges.
type Settings struct {
	WaitTimeMinutes float64
	VelocityKmh     float64
}

// Kind discriminates the two edge metadata shapes a route can be made of.
type Kind int

const (
	// KindWait is the edge from a stop's "in" vertex to its "out" vertex.
	KindWait Kind = iota
	// KindBus is a sub-span of a bus route between two stops.
	KindBus
)

// EdgeInfo is the rider-facing description of one edge on a route: either
// "wait N minutes at stop X" or "ride bus X for N stops, M minutes".
type EdgeInfo struct {
	Kind      Kind
	Name      string // stop name for KindWait, bus name for KindBus
	Time      float64
	SpanCount int // stops traveled; only meaningful for KindBus
}

// VertexIDs is the in/out vertex pair assigned to one stop.
type VertexIDs struct {
	In, Out int
}

// Router answers shortest-route queries between named stops.
type Router struct {
	settings   Settings
	graph      *graphkernel.Graph
	stopVertex map[string]VertexIDs
	edgesInfo  []EdgeInfo // indexed by graphkernel edge id
}

// Build constructs the full routing graph for a catalogue: one wait edge
// per stop, then one edge per reachable bus sub-span, then the all-pairs
// shortest-path table.
func Build(cat *catalogue.Catalogue, settings Settings) *Router {
	names := cat.StopNames()

	g := graphkernel.New(len(names) * 2)
	stopVertex := make(map[string]VertexIDs, len(names))
	edgesInfo := make([]EdgeInfo, 0, len(names)*2)

	vertexID := 0
	for _, name := range names {
		ids := VertexIDs{In: vertexID, Out: vertexID + 1}
		vertexID += 2
		stopVertex[name] = ids

		edgeID := g.AddEdge(ids.In, ids.Out, settings.WaitTimeMinutes)
		appendEdgeInfo(&edgesInfo, edgeID, EdgeInfo{
			Kind: KindWait,
			Name: name,
			Time: settings.WaitTimeMinutes,
		})
	}

	for _, busName := range cat.BusNames() {
		busID, _ := cat.SearchBus(busName)
		route := cat.Bus(busID).Route

		for idxFrom := 0; idxFrom+1 < len(route); idxFrom++ {
			fromID := route[idxFrom]
			fromVertex := stopVertex[cat.Stop(fromID).Name]

			idxPrev := idxFrom
			dist := 0.0

			for idxTo := idxFrom + 1; idxTo < len(route); idxTo++ {
				toID := route[idxTo]
				dist += cat.GetDistanceByID(route[idxPrev], toID)
				if fromID != toID {
					weight := dist / settings.VelocityKmh * toMinutes

					toVertex := stopVertex[cat.Stop(toID).Name]
					span := idxTo - idxFrom
					edgeID := g.AddEdge(fromVertex.Out, toVertex.In, weight)
					appendEdgeInfo(&edgesInfo, edgeID, EdgeInfo{
						Kind:      KindBus,
						Name:      busName,
						Time:      weight,
						SpanCount: span,
					})
				}
				idxPrev = idxTo
			}
		}
	}

	g.BuildAllPairs()

	return &Router{
		settings:   settings,
		graph:      g,
		stopVertex: stopVertex,
		edgesInfo:  edgesInfo,
	}
}

// FromComponents reconstructs a Router from a graph whose all-pairs table
// was already computed (a persisted artifact), skipping the build pass.
func FromComponents(settings Settings, stopVertex map[string]VertexIDs, edgesInfo []EdgeInfo, graph *graphkernel.Graph) *Router {
	return &Router{
		settings:   settings,
		graph:      graph,
		stopVertex: stopVertex,
		edgesInfo:  edgesInfo,
	}
}

func appendEdgeInfo(edgesInfo *[]EdgeInfo, edgeID int, info EdgeInfo) {
	for len(*edgesInfo) <= edgeID {
		*edgesInfo = append(*edgesInfo, EdgeInfo{})
	}
	(*edgesInfo)[edgeID] = info
}

// GetRouteInfo returns the total travel time in minutes and the ordered
// edge descriptions for the fastest route between two stops. ok is false
// if either stop is unknown or no route exists.
func (r *Router) GetRouteInfo(from, to string) (weight float64, edges []EdgeInfo, ok bool) {
	fromVertex, ok := r.stopVertex[from]
	if !ok {
		return 0, nil, false
	}
	toVertex, ok := r.stopVertex[to]
	if !ok {
		return 0, nil, false
	}

	weight, edgeIDs, ok := r.graph.BuildRoute(fromVertex.In, toVertex.In)
	if !ok {
		return 0, nil, false
	}

	edges = make([]EdgeInfo, len(edgeIDs))
	for i, id := range edgeIDs {
		edges[i] = r.edgesInfo[id]
	}
	return weight, edges, true
}

// Settings returns the routing settings the router was built with.
func (r *Router) Settings() Settings {
	return r.settings
}

// Graph returns the underlying routing graph, for the persistence layer.
func (r *Router) Graph() *graphkernel.Graph {
	return r.graph
}

// StopVertexIDs returns the stop-name to vertex-id-pair map, for the
// persistence layer.
func (r *Router) StopVertexIDs() map[string]VertexIDs {
	return r.stopVertex
}

// EdgesInfo returns the edge metadata slice indexed by graph edge id, for
// the persistence layer.
func (r *Router) EdgesInfo() []EdgeInfo {
	return r.edgesInfo
}
