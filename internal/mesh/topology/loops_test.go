package topology

import (
	"testing"

	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/internal/mesh/primitive"
)

func edgeSet(edges []mesh.Edge) map[mesh.Edge]struct{} {
	s := make(map[mesh.Edge]struct{}, len(edges))
	for _, e := range edges {
		s[e] = struct{}{}
	}
	return s
}

func sameEdgeSet(a, b []mesh.Edge) bool {
	sa, sb := edgeSet(a), edgeSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for e := range sa {
		if _, ok := sb[e]; !ok {
			return false
		}
	}
	return true
}

// mixedStrip is a 1x3 vertical quad strip with the last quad replaced by a
// triangle. Vertex layout matches Grid(1, 3, 1): two columns, four rows.
func mixedStrip() *mesh.Mesh {
	m := primitive.Grid(1, 3, 1)
	m.Faces[2] = mesh.Face{4, 5, 6}
	m.NoteTopologyEdit()
	return m
}

func TestEdgeLoop_GridScenario(t *testing.T) {
	// 4x4-vertex planar grid of 3x3 quads, seeded at a boundary edge of the
	// first row: the loop crosses the grid and returns exactly 4 edges.
	g := Build(primitive.Grid(3, 3, 1))

	loop := g.EdgeLoop(0, 1)
	want := []mesh.Edge{
		mesh.MakeEdge(0, 1),
		mesh.MakeEdge(4, 5),
		mesh.MakeEdge(8, 9),
		mesh.MakeEdge(12, 13),
	}
	if !sameEdgeSet(loop, want) {
		t.Errorf("EdgeLoop(0,1) = %v, want %v", loop, want)
	}
}

func TestEdgeRing_GridScenario(t *testing.T) {
	// Same seed: the ring runs along the first row and returns exactly 3 edges.
	g := Build(primitive.Grid(3, 3, 1))

	ring := g.EdgeRing(0, 1)
	want := []mesh.Edge{
		mesh.MakeEdge(0, 1),
		mesh.MakeEdge(1, 2),
		mesh.MakeEdge(2, 3),
	}
	if !sameEdgeSet(ring, want) {
		t.Errorf("EdgeRing(0,1) = %v, want %v", ring, want)
	}
}

func TestEdgeRing_BoundarySeedMidRow(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	// Seed in the middle of the boundary row. The seed edge has no twin, but
	// the ring must still extend to both row ends.
	ring := g.EdgeRing(1, 2)
	want := []mesh.Edge{
		mesh.MakeEdge(0, 1),
		mesh.MakeEdge(1, 2),
		mesh.MakeEdge(2, 3),
	}
	if !sameEdgeSet(ring, want) {
		t.Errorf("EdgeRing(1,2) = %v, want %v", ring, want)
	}
}

func TestEdgeRing_InteriorSeedMidRow(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	ring := g.EdgeRing(5, 6)
	want := []mesh.Edge{
		mesh.MakeEdge(4, 5),
		mesh.MakeEdge(5, 6),
		mesh.MakeEdge(6, 7),
	}
	if !sameEdgeSet(ring, want) {
		t.Errorf("EdgeRing(5,6) = %v, want %v", ring, want)
	}
}

func TestEdgeLoop_DirectionSymmetric(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	// Boundary seed and interior seed, both orientations.
	seeds := [][2]int{{0, 1}, {5, 6}, {5, 9}}
	for _, s := range seeds {
		ab := g.EdgeLoop(s[0], s[1])
		ba := g.EdgeLoop(s[1], s[0])
		if !sameEdgeSet(ab, ba) {
			t.Errorf("EdgeLoop(%d,%d) = %v, but EdgeLoop(%d,%d) = %v",
				s[0], s[1], ab, s[1], s[0], ba)
		}
	}
}

func TestEdgeRing_DirectionSymmetric(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	ab := g.EdgeRing(5, 6)
	ba := g.EdgeRing(6, 5)
	if !sameEdgeSet(ab, ba) {
		t.Errorf("EdgeRing(5,6) = %v, but EdgeRing(6,5) = %v", ab, ba)
	}
}

func TestEdgeLoop_UnknownSeed(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	// (0,5) is a quad diagonal, not a topological edge.
	loop := g.EdgeLoop(0, 5)
	if len(loop) != 1 || loop[0] != mesh.MakeEdge(0, 5) {
		t.Errorf("EdgeLoop on absent seed = %v, want single seed edge", loop)
	}

	ring := g.EdgeRing(0, 5)
	if len(ring) != 1 {
		t.Errorf("EdgeRing on absent seed = %v, want single seed edge", ring)
	}
}

func TestEdgeLoop_StopsAtTriangle(t *testing.T) {
	g := Build(mixedStrip())

	// The strip is quad, quad, triangle from the bottom. Walking up from the
	// bottom boundary edge must stop before the triangle.
	loop := g.EdgeLoop(0, 1)
	want := []mesh.Edge{
		mesh.MakeEdge(0, 1),
		mesh.MakeEdge(2, 3),
		mesh.MakeEdge(4, 5),
	}
	if !sameEdgeSet(loop, want) {
		t.Errorf("EdgeLoop(0,1) on mixed strip = %v, want %v", loop, want)
	}
}

func TestEdgeLoop_ClosedCycleOnTube(t *testing.T) {
	// Vertical tube edges form a closed loop around the circumference; the
	// visited set terminates the walk after one revolution.
	const segments = 8
	g := Build(primitive.Tube(segments, 2, 1, 2))

	loop := g.EdgeLoop(0, segments)
	if len(loop) != segments {
		t.Errorf("EdgeLoop around tube returned %d edges, want %d", len(loop), segments)
	}
}

func TestEdgeRing_ClosedCycleOnTube(t *testing.T) {
	// The bottom row of horizontal edges is a closed ring.
	const segments = 8
	g := Build(primitive.Tube(segments, 2, 1, 2))

	ring := g.EdgeRing(0, 1)
	if len(ring) != segments {
		t.Errorf("EdgeRing around tube returned %d edges, want %d", len(ring), segments)
	}
}

func TestFaceLoop_Grid(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	// Walking the first column of quads from face 0 through its bottom edge.
	faces := g.FaceLoop(0, 0, 1)
	want := map[int]struct{}{0: {}, 3: {}, 6: {}}
	if len(faces) != len(want) {
		t.Fatalf("FaceLoop(0, 0,1) = %v, want faces 0,3,6", faces)
	}
	for _, f := range faces {
		if _, ok := want[f]; !ok {
			t.Fatalf("FaceLoop(0, 0,1) = %v, want faces 0,3,6", faces)
		}
	}
}

func TestFaceLoop_DirectionSymmetric(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	ab := g.FaceLoop(4, 5, 6)
	ba := g.FaceLoop(4, 6, 5)
	if len(ab) != len(ba) {
		t.Fatalf("FaceLoop orientation mismatch: %v vs %v", ab, ba)
	}
	set := make(map[int]struct{}, len(ab))
	for _, f := range ab {
		set[f] = struct{}{}
	}
	for _, f := range ba {
		if _, ok := set[f]; !ok {
			t.Fatalf("FaceLoop orientation mismatch: %v vs %v", ab, ba)
		}
	}
}

func TestFaceLoop_UnknownGuide(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	faces := g.FaceLoop(4, 0, 99)
	if len(faces) != 1 || faces[0] != 4 {
		t.Errorf("FaceLoop with absent guide = %v, want [4]", faces)
	}
}

func TestVertexLoop_Grid(t *testing.T) {
	g := Build(primitive.Grid(3, 3, 1))

	verts := g.VertexLoop(0, 1)
	want := map[int]struct{}{
		0: {}, 1: {}, 4: {}, 5: {}, 8: {}, 9: {}, 12: {}, 13: {},
	}
	if len(verts) != len(want) {
		t.Fatalf("VertexLoop(0,1) = %v, want 8 vertices", verts)
	}
	for _, v := range verts {
		if _, ok := want[v]; !ok {
			t.Fatalf("VertexLoop(0,1) contains unexpected vertex %d", v)
		}
	}
}
