// Package topology builds directed-edge connectivity over a logical mesh and
// answers the editor's loop/ring expansion queries.
package topology

import "github.com/Faultbox/meshforge/internal/mesh"

// None marks a missing half-edge reference (no twin at a surface boundary,
// no outgoing edge for an unreferenced vertex).
const None = -1

// HalfEdge is one directed edge owned by a single face. Its twin, when
// present, is the opposite-direction half-edge on the adjacent face.
type HalfEdge struct {
	Vertex int       // destination vertex id
	Twin   int       // paired half-edge, None at a boundary
	Next   int       // next half-edge in the owning face cycle
	Prev   int       // previous half-edge in the owning face cycle
	Face   int       // owning face id
	Key    mesh.Edge // canonical (sorted) endpoint pair
}

// Graph is the half-edge connectivity of a mesh at one topology generation.
type Graph struct {
	Edges      []HalfEdge
	VertexEdge []int // vertex id -> one arbitrary outgoing half-edge, or None

	directed map[[2]int]int // (origin, dest) -> half-edge id
	m        *mesh.Mesh
}

// Build constructs the half-edge graph from the mesh's face list. Invalid
// faces (too short, out-of-range indices) are skipped. A face repeating a
// vertex yields inconsistent but bounded topology; that is accepted rather
// than validated.
func Build(m *mesh.Mesh) *Graph {
	g := &Graph{
		VertexEdge: make([]int, m.VertexCount()),
		directed:   make(map[[2]int]int),
		m:          m,
	}
	for i := range g.VertexEdge {
		g.VertexEdge[i] = None
	}

	for f := range m.Faces {
		if !m.FaceValid(f) {
			continue
		}
		face := m.Faces[f]
		n := len(face)
		base := len(g.Edges)
		for i := 0; i < n; i++ {
			origin := face[i]
			dest := face[(i+1)%n]
			id := base + i
			g.Edges = append(g.Edges, HalfEdge{
				Vertex: dest,
				Twin:   None,
				Next:   base + (i+1)%n,
				Prev:   base + (i+n-1)%n,
				Face:   f,
				Key:    mesh.MakeEdge(origin, dest),
			})
			g.directed[[2]int{origin, dest}] = id
			if g.VertexEdge[origin] == None {
				g.VertexEdge[origin] = id
			}
		}
	}

	// Pair twins by looking up the reverse-direction key.
	for id := range g.Edges {
		if g.Edges[id].Twin != None {
			continue
		}
		origin := g.Origin(id)
		dest := g.Edges[id].Vertex
		if rev, ok := g.directed[[2]int{dest, origin}]; ok && rev != id {
			g.Edges[id].Twin = rev
			g.Edges[rev].Twin = id
		}
	}

	return g
}

// Origin returns the source vertex of half-edge h.
func (g *Graph) Origin(h int) int {
	return g.Edges[g.Edges[h].Prev].Vertex
}

// HalfEdgeBetween returns the half-edge running from a to b, if present.
func (g *Graph) HalfEdgeBetween(a, b int) (int, bool) {
	h, ok := g.directed[[2]int{a, b}]
	return h, ok
}

// faceIsQuad reports whether the face owning half-edge h is a quadrilateral.
// Loop semantics are defined only across quads.
func (g *Graph) faceIsQuad(h int) bool {
	return g.m.Faces[g.Edges[h].Face].Kind() == mesh.Quad
}

// opposite returns the half-edge directly across the quad from h.
func (g *Graph) opposite(h int) int {
	return g.Edges[g.Edges[h].Next].Next
}

// BoundaryCount returns the number of half-edges without a twin.
func (g *Graph) BoundaryCount() int {
	n := 0
	for i := range g.Edges {
		if g.Edges[i].Twin == None {
			n++
		}
	}
	return n
}

// UniqueEdgeCount returns the number of distinct undirected edges.
func (g *Graph) UniqueEdgeCount() int {
	seen := make(map[mesh.Edge]struct{}, len(g.Edges))
	for i := range g.Edges {
		seen[g.Edges[i].Key] = struct{}{}
	}
	return len(seen)
}
