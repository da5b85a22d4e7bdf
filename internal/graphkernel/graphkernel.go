// Package graphkernel is a small directed, weighted graph with integer
// vertex and edge ids, plus an all-pairs shortest-path table built with a
// per-source Dijkstra search over container/heap.
//
// The router (internal/router) builds a Graph whose vertices are stop
// in/out pairs and whose edges are wait/ride spans; graphkernel itself has
// no notion of stops, buses, or time units — it only knows vertices, edges,
// and weights.
package graphkernel

import "container/heap"

// Edge is a directed arc from From to To with a nonnegative Weight. Edge ids
// are assigned in AddEdge call order, 0-based.
type Edge struct {
	From, To int
	Weight   float64
}

// RouteEntry is one cell of the all-pairs table: the shortest distance from
// a fixed source to a vertex, and the id of the last edge on that shortest
// path (or NoEdge if the vertex is the source itself or unreachable).
type RouteEntry struct {
	Weight   float64
	PrevEdge int
}

// NoEdge marks a RouteEntry with no predecessor edge.
const NoEdge = -1

// unreachable is the sentinel distance for vertices with no path from a
// given source. Never serialized as +Inf; schema encodes it explicitly.
const unreachable = -1

// Graph is a directed weighted graph over vertices numbered [0, n).
type Graph struct {
	numVertices int
	edges       []Edge
	adjacency   [][]int // vertex -> outgoing edge ids, in AddEdge order

	table [][]RouteEntry // table[source][vertex], built by BuildAllPairs
}

// New returns an empty graph over numVertices vertices with no edges.
func New(numVertices int) *Graph {
	return &Graph{
		numVertices: numVertices,
		adjacency:   make([][]int, numVertices),
	}
}

// NewWithTable wraps a graph whose all-pairs table was already computed
// (e.g. loaded from a persisted artifact), skipping BuildAllPairs.
func NewWithTable(numVertices int, edges []Edge, table [][]RouteEntry) *Graph {
	g := New(numVertices)
	g.edges = edges
	for id, e := range edges {
		g.adjacency[e.From] = append(g.adjacency[e.From], id)
	}
	g.table = table
	return g
}

// AddEdge appends a new directed edge and returns its id.
func (g *Graph) AddEdge(from, to int, weight float64) int {
	id := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	g.adjacency[from] = append(g.adjacency[from], id)
	return id
}

// NumVertices returns the number of vertices the graph was built with.
func (g *Graph) NumVertices() int {
	return g.numVertices
}

// NumEdges returns the number of edges added so far.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Edge returns the edge record for an id returned by AddEdge or found on a
// route produced by BuildRoute.
func (g *Graph) Edge(id int) Edge {
	return g.edges[id]
}

// Table returns the all-pairs table built by BuildAllPairs (or supplied to
// NewWithTable), for the persistence layer to serialize verbatim.
func (g *Graph) Table() [][]RouteEntry {
	return g.table
}

// BuildAllPairs computes the shortest-path table from every vertex to every
// other vertex, using one Dijkstra search per source. Weights must be
// nonnegative (wait and ride costs always are).
func (g *Graph) BuildAllPairs() {
	table := make([][]RouteEntry, g.numVertices)
	for source := 0; source < g.numVertices; source++ {
		table[source] = g.dijkstraFrom(source)
	}
	g.table = table
}

func (g *Graph) dijkstraFrom(source int) []RouteEntry {
	entries := make([]RouteEntry, g.numVertices)
	for v := range entries {
		entries[v] = RouteEntry{Weight: unreachable, PrevEdge: NoEdge}
	}
	entries[source] = RouteEntry{Weight: 0, PrevEdge: NoEdge}

	pq := &priorityQueue{{vertex: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if cur.dist > entries[cur.vertex].Weight && entries[cur.vertex].Weight >= 0 {
			continue
		}

		for _, edgeID := range g.adjacency[cur.vertex] {
			e := g.edges[edgeID]
			next := cur.dist + e.Weight
			existing := entries[e.To]
			if existing.Weight >= 0 && existing.Weight <= next {
				continue
			}
			entries[e.To] = RouteEntry{Weight: next, PrevEdge: edgeID}
			heap.Push(pq, queueItem{vertex: e.To, dist: next})
		}
	}

	return entries
}

// BuildRoute reconstructs the shortest path from `from` to `to` using the
// precomputed table, walking predecessor edges backward. ok is false if
// BuildAllPairs/NewWithTable has not been called, or if `to` is unreachable
// from `from`.
func (g *Graph) BuildRoute(from, to int) (weight float64, edgeIDs []int, ok bool) {
	if g.table == nil {
		return 0, nil, false
	}
	entry := g.table[from][to]
	if entry.Weight < 0 {
		return 0, nil, false
	}
	if from == to {
		return 0, nil, true
	}

	var reversed []int
	v := to
	for v != from {
		e := g.edges[g.table[from][v].PrevEdge]
		reversed = append(reversed, g.table[from][v].PrevEdge)
		v = e.From
	}

	edgeIDs = make([]int, len(reversed))
	for i, id := range reversed {
		edgeIDs[len(reversed)-1-i] = id
	}
	return entry.Weight, edgeIDs, true
}

type queueItem struct {
	vertex int
	dist   float64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(queueItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
