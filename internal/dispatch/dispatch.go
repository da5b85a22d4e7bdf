// Package dispatch is the query dispatcher (C7): it ingests base requests
// into a catalogue, then maps each stat request to a typed response by
// delegating to the catalogue, router, and map renderer.
package dispatch

import (
	"github.com/transitcat/catalogue/internal/catalogue"
	"github.com/transitcat/catalogue/internal/geo"
	"github.com/transitcat/catalogue/internal/mapview"
	"github.com/transitcat/catalogue/internal/reqresp"
	"github.com/transitcat/catalogue/internal/router"
)

// notFound is the exact error string every "missing entity" response
// carries.
const notFound = "not found"

// IngestBaseRequests populates cat from a batch of base requests. Stops
// are added first, then their road distances (a distance may reference a
// stop later in the same batch), then buses — mirroring the two-phase
// ingest every implementation of this catalogue uses, since a bus route
// can reference any stop regardless of request order.
func IngestBaseRequests(cat *catalogue.Catalogue, requests []reqresp.BaseRequest) {
	var stopRequests, busRequests []reqresp.BaseRequest
	for _, r := range requests {
		switch r.Type {
		case "Stop":
			stopRequests = append(stopRequests, r)
		case "Bus":
			busRequests = append(busRequests, r)
		}
	}

	for _, r := range stopRequests {
		cat.AddStop(r.Name, geo.Coordinates{Lat: r.Latitude, Lng: r.Longitude})
	}
	for _, r := range stopRequests {
		for to, meters := range r.RoadDistances {
			cat.SetDistance(r.Name, to, meters)
		}
	}
	for _, r := range busRequests {
		stopIDs := make([]int, 0, len(r.Stops))
		for _, name := range r.Stops {
			id, ok := cat.SearchStop(name)
			if !ok {
				continue
			}
			stopIDs = append(stopIDs, id)
		}
		cat.AddBus(r.Name, stopIDs, r.IsRoundtrip)
	}
}

// Dispatcher answers stat requests against a built catalogue, router, and
// map-renderer settings.
type Dispatcher struct {
	cat            *catalogue.Catalogue
	rtr            *router.Router
	renderSettings mapview.Settings
}

// New returns a Dispatcher over the given components.
func New(cat *catalogue.Catalogue, rtr *router.Router, renderSettings mapview.Settings) *Dispatcher {
	return &Dispatcher{cat: cat, rtr: rtr, renderSettings: renderSettings}
}

// Execute answers every request in order, producing one response per
// request of the shape matching its type. A request whose type is not
// Stop, Bus, Map or Route produces no response.
func (d *Dispatcher) Execute(requests []reqresp.StatRequest) []any {
	responses := make([]any, 0, len(requests))
	for _, req := range requests {
		switch req.Type {
		case "Stop":
			responses = append(responses, d.stop(req))
		case "Bus":
			responses = append(responses, d.bus(req))
		case "Map":
			responses = append(responses, d.renderMap(req))
		case "Route":
			responses = append(responses, d.route(req))
		}
	}
	return responses
}

func (d *Dispatcher) stop(req reqresp.StatRequest) any {
	if _, ok := d.cat.SearchStop(req.Name); !ok {
		return reqresp.ErrorResponse{RequestID: req.ID, ErrorMessage: notFound}
	}

	buses, _ := d.cat.GetBusesByStop(req.Name)
	if buses == nil {
		buses = []string{}
	}
	return reqresp.StopResponse{RequestID: req.ID, Buses: buses}
}

func (d *Dispatcher) bus(req reqresp.StatRequest) any {
	stat, ok := d.cat.GetBusStat(req.Name)
	if !ok {
		return reqresp.ErrorResponse{RequestID: req.ID, ErrorMessage: notFound}
	}
	return reqresp.BusResponse{
		RequestID:       req.ID,
		Curvature:       stat.Curvature,
		UniqueStopCount: stat.UniqueStops,
		StopCount:       stat.StopsOnRoute,
		RouteLength:     stat.RouteLength,
	}
}

func (d *Dispatcher) renderMap(req reqresp.StatRequest) any {
	doc := mapview.Render(d.cat, d.renderSettings)
	return reqresp.MapResponse{RequestID: req.ID, Map: doc.Render()}
}

func (d *Dispatcher) route(req reqresp.StatRequest) any {
	weight, edges, ok := d.rtr.GetRouteInfo(req.From, req.To)
	if !ok {
		return reqresp.ErrorResponse{RequestID: req.ID, ErrorMessage: notFound}
	}

	items := make([]any, len(edges))
	for i, e := range edges {
		switch e.Kind {
		case router.KindWait:
			items[i] = reqresp.WaitItem{Type: "Wait", Time: e.Time, StopName: e.Name}
		case router.KindBus:
			items[i] = reqresp.BusItem{Type: "Bus", Time: e.Time, Bus: e.Name, SpanCount: e.SpanCount}
		}
	}
	return reqresp.RouteResponse{RequestID: req.ID, TotalTime: weight, Items: items}
}
