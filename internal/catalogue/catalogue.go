// Package catalogue holds the in-memory transit data model: stops, buses,
// the inter-stop distance table, and the derived stop-to-buses index.
//
// Stops and buses are kept in parallel name->id maps and id-indexed slices
// (the arena pattern), so everything downstream — the router, the map
// renderer, the persistence layer — can pass small integer ids around
// instead of names or pointers.
package catalogue

import (
	"sort"

	"github.com/transitcat/catalogue/internal/geo"
)

// NoStop is returned by SearchStop/SearchBus when the name is unknown.
const NoStop = -1

// Stop is a named geographic point. Immutable once added.
type Stop struct {
	Name        string
	Coordinates geo.Coordinates
}

// Bus is a named, ordered sequence of stop ids (the route), its roundtrip
// flag, and the id of its final stop (the turnaround).
type Bus struct {
	Name        string
	Route       []int
	IsRoundtrip bool
	FinalStop   int
}

// Stat is the set of derived statistics reported for a bus.
type Stat struct {
	StopsOnRoute int
	UniqueStops  int
	RouteLength  float64
	Curvature    float64
}

type distKey struct {
	from, to int
}

// Catalogue owns stops, buses, the distance table, and the stop->buses
// index built incrementally as buses are added.
type Catalogue struct {
	stopIndex map[string]int
	stops     []Stop

	busIndex map[string]int
	buses    []Bus

	distances map[distKey]float64

	stopBuses map[int][]int // stop id -> bus ids, unsorted; sorted on read
}

// New returns an empty catalogue.
func New() *Catalogue {
	return &Catalogue{
		stopIndex: make(map[string]int),
		busIndex:  make(map[string]int),
		distances: make(map[distKey]float64),
		stopBuses: make(map[int][]int),
	}
}

// AddStop is idempotent on name: if the name is already known, the call is
// a no-op (first insertion wins, coordinates are never updated). Returns
// the stop's id.
func (c *Catalogue) AddStop(name string, coord geo.Coordinates) int {
	if id, ok := c.stopIndex[name]; ok {
		return id
	}
	id := len(c.stops)
	c.stops = append(c.stops, Stop{Name: name, Coordinates: coord})
	c.stopIndex[name] = id
	return id
}

// AddBus is idempotent on name. stopIDs is the route as supplied by the
// caller (one direction only when isRoundtrip is false); AddBus performs
// the mirror expansion itself so the stored route is always what the
// router, renderer, and statistics expect. Unknown stop ids (NoStop) are
// dropped from the stop->buses index but still occupy their route
// position, matching the catalogue's invariant that valid input never
// contains one (I1).
func (c *Catalogue) AddBus(name string, stopIDs []int, isRoundtrip bool) int {
	if id, ok := c.busIndex[name]; ok {
		return id
	}

	var route []int
	if isRoundtrip {
		route = append(route, stopIDs...)
	} else if len(stopIDs) > 0 {
		route = make([]int, 0, len(stopIDs)*2-1)
		route = append(route, stopIDs...)
		for i := len(stopIDs) - 2; i >= 0; i-- {
			route = append(route, stopIDs[i])
		}
	}

	final := NoStop
	if len(stopIDs) > 0 {
		final = stopIDs[len(stopIDs)-1]
	}

	id := len(c.buses)
	c.buses = append(c.buses, Bus{
		Name:        name,
		Route:       route,
		IsRoundtrip: isRoundtrip,
		FinalStop:   final,
	})
	c.busIndex[name] = id

	seen := make(map[int]bool, len(route))
	for _, sid := range route {
		if sid == NoStop || seen[sid] {
			continue
		}
		seen[sid] = true
		c.stopBuses[sid] = append(c.stopBuses[sid], id)
	}

	return id
}

// SetDistance overwrites the (from,to) entry. No-op if either stop is
// unknown to the catalogue.
func (c *Catalogue) SetDistance(from, to string, meters float64) {
	fromID, ok := c.stopIndex[from]
	if !ok {
		return
	}
	toID, ok := c.stopIndex[to]
	if !ok {
		return
	}
	c.distances[distKey{fromID, toID}] = meters
}

// GetDistance returns the (from,to) entry if set, else the (to,from) entry
// if set, else 0. Unknown stop names also resolve to 0 (there is nothing
// to fall back to).
func (c *Catalogue) GetDistance(from, to string) float64 {
	fromID, ok := c.stopIndex[from]
	if !ok {
		return 0
	}
	toID, ok := c.stopIndex[to]
	if !ok {
		return 0
	}
	return c.GetDistanceByID(fromID, toID)
}

// GetDistanceByID is GetDistance over resolved stop ids, used by the
// router and statistics where ids are already at hand.
func (c *Catalogue) GetDistanceByID(from, to int) float64 {
	if d, ok := c.distances[distKey{from, to}]; ok {
		return d
	}
	if d, ok := c.distances[distKey{to, from}]; ok {
		return d
	}
	return 0
}

// DistanceEntry is one explicitly set (from,to) distance, by stop name.
type DistanceEntry struct {
	From   string
	To     string
	Meters float64
}

// Distances returns every explicitly set distance entry, in no particular
// order. Unlike GetDistance, this never synthesizes a fallback entry for
// the reverse direction — it is the persistence layer's source of truth
// for what was actually set.
func (c *Catalogue) Distances() []DistanceEntry {
	entries := make([]DistanceEntry, 0, len(c.distances))
	for k, meters := range c.distances {
		entries = append(entries, DistanceEntry{
			From:   c.stops[k.from].Name,
			To:     c.stops[k.to].Name,
			Meters: meters,
		})
	}
	return entries
}

// SearchStop returns the stop's id and true, or (NoStop, false).
func (c *Catalogue) SearchStop(name string) (int, bool) {
	id, ok := c.stopIndex[name]
	if !ok {
		return NoStop, false
	}
	return id, true
}

// SearchBus returns the bus's id and true, or (NoStop, false).
func (c *Catalogue) SearchBus(name string) (int, bool) {
	id, ok := c.busIndex[name]
	if !ok {
		return NoStop, false
	}
	return id, true
}

// Stop returns the stop record for an id previously returned by SearchStop
// or one of the sorted enumerations.
func (c *Catalogue) Stop(id int) Stop {
	return c.stops[id]
}

// Bus returns the bus record for an id previously returned by SearchBus or
// one of the sorted enumerations.
func (c *Catalogue) Bus(id int) Bus {
	return c.buses[id]
}

// NumStops is the number of distinct stops added so far.
func (c *Catalogue) NumStops() int {
	return len(c.stops)
}

// NumBuses is the number of distinct buses added so far.
func (c *Catalogue) NumBuses() int {
	return len(c.buses)
}

// StopNames returns every stop name, sorted lexicographically. The router
// and persistence layer use this order to assign their own stable ids.
func (c *Catalogue) StopNames() []string {
	names := make([]string, len(c.stops))
	for i, s := range c.stops {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// BusNames returns every bus name, sorted lexicographically.
func (c *Catalogue) BusNames() []string {
	names := make([]string, len(c.buses))
	for i, b := range c.buses {
		names[i] = b.Name
	}
	sort.Strings(names)
	return names
}

// GetBusesByStop returns the names of buses passing through the named
// stop, ordered lexicographically, or (nil, false) if the stop is unknown
// to any route.
func (c *Catalogue) GetBusesByStop(name string) ([]string, bool) {
	id, ok := c.stopIndex[name]
	if !ok {
		return nil, false
	}
	ids, ok := c.stopBuses[id]
	if !ok {
		return nil, false
	}

	names := make([]string, len(ids))
	for i, bid := range ids {
		names[i] = c.buses[bid].Name
	}
	sort.Strings(names)
	return names, true
}

// GetBusStat computes the derived statistics for a bus, or (Stat{}, false)
// if the bus is unknown.
func (c *Catalogue) GetBusStat(name string) (Stat, bool) {
	id, ok := c.busIndex[name]
	if !ok {
		return Stat{}, false
	}
	bus := c.buses[id]

	unique := make(map[int]bool, len(bus.Route))
	var roadLength, geoLength float64

	for i, sid := range bus.Route {
		unique[sid] = true
		if i == 0 {
			continue
		}
		prev := bus.Route[i-1]
		roadLength += c.GetDistanceByID(prev, sid)
		geoLength += geo.Distance(c.stops[prev].Coordinates, c.stops[sid].Coordinates)
	}

	stat := Stat{
		StopsOnRoute: len(bus.Route),
		UniqueStops:  len(unique),
		RouteLength:  roadLength,
	}
	if geoLength > 0 {
		stat.Curvature = roadLength / geoLength
	}
	return stat, true
}
