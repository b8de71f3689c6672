// Package softselect computes continuous per-vertex influence weights around
// a set of pinned vertices, falling off with geodesic distance along mesh
// edges. The deformation system blends transform deltas with these weights.
package softselect

import (
	"container/heap"
	gomath "math"

	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/pkg/math"
)

// popBudgetFactor caps total heap pops at factor*vertexCount, bounding the
// search on pathological (non-manifold, cyclic) adjacency.
const popBudgetFactor = 10

// Adjacency is the undirected vertex graph derived from a triangulated index
// buffer. It is independent of the half-edge graph and the logical faces, and
// can be cached and invalidated on the same triggers as the other derived
// structures.
type Adjacency struct {
	Neighbors [][]int
}

// BuildAdjacency collects one entry per distinct shared triangle edge.
// Incomplete trailing triples and out-of-range indices are skipped.
func BuildAdjacency(indices []int, vertexCount int) *Adjacency {
	a := &Adjacency{Neighbors: make([][]int, vertexCount)}
	seen := make(map[mesh.Edge]struct{})

	addEdge := func(u, v int) {
		if u < 0 || u >= vertexCount || v < 0 || v >= vertexCount || u == v {
			return
		}
		key := mesh.MakeEdge(u, v)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		a.Neighbors[u] = append(a.Neighbors[u], v)
		a.Neighbors[v] = append(a.Neighbors[v], u)
	}

	for i := 0; i+2 < len(indices); i += 3 {
		addEdge(indices[i], indices[i+1])
		addEdge(indices[i+1], indices[i+2])
		addEdge(indices[i+2], indices[i])
	}
	return a
}

// distItem is one pending entry in the Dijkstra frontier.
type distItem struct {
	vertex int
	dist   float32
}

// distHeap implements a binary min-heap over tentative distances.
type distHeap []distItem

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }

func (h *distHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Weights runs multi-source Dijkstra from the pinned vertices and converts
// the resulting geodesic distances to smoothstep falloff weights in [0,1].
// Edge weights are Euclidean edge lengths from the position buffer. Vertices
// beyond radius get weight 0; pinned vertices get exactly 1.
func (a *Adjacency) Weights(positions []float32, pinned []int, radius float32) []float32 {
	vertexCount := len(a.Neighbors)
	dist := make([]float32, vertexCount)
	for i := range dist {
		dist[i] = float32(gomath.MaxFloat32)
	}

	frontier := &distHeap{}
	heap.Init(frontier)
	for _, v := range pinned {
		if v < 0 || v >= vertexCount {
			continue
		}
		dist[v] = 0
		heap.Push(frontier, distItem{vertex: v, dist: 0})
	}

	pops := 0
	maxPops := popBudgetFactor * vertexCount
	for frontier.Len() > 0 && pops < maxPops {
		pops++
		item := heap.Pop(frontier).(distItem)

		// Stale entry: a cheaper distance was already recorded.
		if item.dist > dist[item.vertex] {
			continue
		}
		// Beyond the falloff radius nothing downstream can matter:
		// Dijkstra pops in nondecreasing order.
		if item.dist > radius {
			continue
		}

		from := position(positions, item.vertex)
		for _, n := range a.Neighbors[item.vertex] {
			d := item.dist + from.Distance(position(positions, n))
			if d < dist[n] {
				dist[n] = d
				heap.Push(frontier, distItem{vertex: n, dist: d})
			}
		}
	}

	weights := make([]float32, vertexCount)
	for v := 0; v < vertexCount; v++ {
		weights[v] = falloff(dist[v], radius)
	}
	return weights
}

// Weights is the one-shot form: adjacency built per call. Interactive
// callers that vary only the radius should cache the Adjacency instead.
func Weights(indices []int, positions []float32, pinned []int, radius float32, vertexCount int) []float32 {
	return BuildAdjacency(indices, vertexCount).Weights(positions, pinned, radius)
}

// falloff maps a geodesic distance to a smoothstep weight.
func falloff(d, radius float32) float32 {
	if radius <= 0 {
		if d == 0 {
			return 1
		}
		return 0
	}
	if d > radius {
		return 0
	}
	t := 1 - d/radius
	return t * t * (3 - 2*t)
}

func position(positions []float32, v int) math.Vec3 {
	if v < 0 || v*3+2 >= len(positions) {
		return math.Vec3{}
	}
	return math.Vec3{
		X: positions[v*3],
		Y: positions[v*3+1],
		Z: positions[v*3+2],
	}
}
