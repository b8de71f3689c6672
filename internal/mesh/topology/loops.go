package topology

import "github.com/Faultbox/meshforge/internal/mesh"

// The four selection-expansion walks below all start from a seed edge (or a
// face plus a guide edge), extend in both directions, and stop at a mesh
// boundary (missing twin), a non-quad face, or a previously visited element.
// The visited sets double as the termination bound on non-manifold input.

// EdgeLoop returns the chain of parallel edges running lengthwise through the
// strip of quads crossed by the seed edge (a,b). Each step crosses a quad to
// the edge directly opposite the current one and continues through its twin.
// A seed absent from the topology yields just the seed edge.
func (g *Graph) EdgeLoop(a, b int) []mesh.Edge {
	seed := mesh.MakeEdge(a, b)
	visited := map[mesh.Edge]struct{}{seed: {}}
	result := []mesh.Edge{seed}

	h, ok := g.seedHalfEdge(a, b)
	if !ok {
		return result
	}
	g.walkLoop(h, visited, &result)
	if twin := g.Edges[h].Twin; twin != None {
		g.walkLoop(twin, visited, &result)
	}
	return result
}

func (g *Graph) walkLoop(h int, visited map[mesh.Edge]struct{}, out *[]mesh.Edge) {
	for h != None {
		if !g.faceIsQuad(h) {
			return
		}
		opp := g.opposite(h)
		key := g.Edges[opp].Key
		if _, seen := visited[key]; seen {
			return
		}
		visited[key] = struct{}{}
		*out = append(*out, key)
		h = g.Edges[opp].Twin
	}
}

// EdgeRing returns the end-to-end chain of rung edges bridging across a quad
// strip, continuing past the seed edge's endpoints in both directions.
func (g *Graph) EdgeRing(a, b int) []mesh.Edge {
	seed := mesh.MakeEdge(a, b)
	visited := map[mesh.Edge]struct{}{seed: {}}
	result := []mesh.Edge{seed}

	h, ok := g.seedHalfEdge(a, b)
	if !ok {
		return result
	}
	// Unlike the loop walk, both ring directions run within the seed's own
	// face, so a boundary seed with no twin still extends both ways.
	g.walkRing(h, false, visited, &result)
	g.walkRing(h, true, visited, &result)
	if twin := g.Edges[h].Twin; twin != None {
		g.walkRing(twin, false, visited, &result)
		g.walkRing(twin, true, visited, &result)
	}
	return result
}

func (g *Graph) walkRing(h int, backward bool, visited map[mesh.Edge]struct{}, out *[]mesh.Edge) {
	if !g.faceIsQuad(h) {
		return
	}
	for h != None {
		// Leave the quad through the side edge after the rung (or before it
		// when walking backward), cross to the neighbor, and continue with
		// the rung on its far side.
		side := g.Edges[h].Next
		if backward {
			side = g.Edges[h].Prev
		}
		crossing := g.Edges[side].Twin
		if crossing == None {
			return
		}
		next := g.Edges[crossing].Next
		if backward {
			next = g.Edges[crossing].Prev
		}
		if !g.faceIsQuad(next) {
			return
		}
		key := g.Edges[next].Key
		if _, seen := visited[key]; seen {
			return
		}
		visited[key] = struct{}{}
		*out = append(*out, key)
		h = next
	}
}

// FaceLoop returns the faces traversed by the edge loop through the guide
// edge (a,b), starting at the given face and extending in both directions.
// If the guide edge is absent, the result is just the seed face.
func (g *Graph) FaceLoop(face, a, b int) []int {
	h, ok := g.seedHalfEdge(a, b)
	if !ok {
		return []int{face}
	}
	// Prefer the half-edge owned by the seed face so the forward direction
	// starts there regardless of which orientation the caller passed.
	if g.Edges[h].Face != face {
		if t := g.Edges[h].Twin; t != None && g.Edges[t].Face == face {
			h = t
		}
	}

	visited := make(map[int]struct{})
	var result []int
	g.walkFaces(h, visited, &result)
	if twin := g.Edges[h].Twin; twin != None {
		g.walkFaces(twin, visited, &result)
	}
	if len(result) == 0 {
		return []int{face}
	}
	return result
}

func (g *Graph) walkFaces(h int, visited map[int]struct{}, out *[]int) {
	for h != None {
		if !g.faceIsQuad(h) {
			return
		}
		f := g.Edges[h].Face
		if _, seen := visited[f]; seen {
			return
		}
		visited[f] = struct{}{}
		*out = append(*out, f)
		h = g.Edges[g.opposite(h)].Twin
	}
}

// VertexLoop returns the vertices incident to the edges of the edge loop
// seeded at (a,b), deduplicated in order of first appearance.
func (g *Graph) VertexLoop(a, b int) []int {
	edges := g.EdgeLoop(a, b)
	seen := make(map[int]struct{}, len(edges)*2)
	verts := make([]int, 0, len(edges)*2)
	for _, e := range edges {
		if _, ok := seen[e.A]; !ok {
			seen[e.A] = struct{}{}
			verts = append(verts, e.A)
		}
		if _, ok := seen[e.B]; !ok {
			seen[e.B] = struct{}{}
			verts = append(verts, e.B)
		}
	}
	return verts
}

// seedHalfEdge resolves a seed edge given in either orientation.
func (g *Graph) seedHalfEdge(a, b int) (int, bool) {
	if h, ok := g.HalfEdgeBetween(a, b); ok {
		return h, true
	}
	if h, ok := g.HalfEdgeBetween(b, a); ok {
		return h, true
	}
	return None, false
}
