package softselect

import (
	"testing"

	"github.com/Faultbox/meshforge/internal/mesh/primitive"
)

// gridFixture returns the triangulated index buffer and positions of a
// unit-edge planar grid with nx by nz quads.
func gridFixture(nx, nz int) (indices []int, positions []float32, vertexCount int) {
	m := primitive.Grid(nx, nz, 1)
	return m.Triangulate(), m.Positions, m.VertexCount()
}

func TestBuildAdjacency_Dedupes(t *testing.T) {
	indices, _, n := gridFixture(2, 2)
	a := BuildAdjacency(indices, n)

	// Corner vertex 0: right neighbor, down neighbor, fan diagonal.
	if got := len(a.Neighbors[0]); got != 3 {
		t.Errorf("corner vertex has %d neighbors, want 3 (got %v)", got, a.Neighbors[0])
	}

	// Center vertex 4: four axis neighbors plus two fan diagonals.
	if got := len(a.Neighbors[4]); got != 6 {
		t.Errorf("center vertex has %d neighbors, want 6 (got %v)", got, a.Neighbors[4])
	}

	// No neighbor may appear twice even though edges are shared by triangles.
	for v, ns := range a.Neighbors {
		seen := make(map[int]struct{}, len(ns))
		for _, n := range ns {
			if _, dup := seen[n]; dup {
				t.Fatalf("vertex %d lists neighbor %d twice", v, n)
			}
			seen[n] = struct{}{}
		}
	}
}

func TestBuildAdjacency_SkipsBadIndices(t *testing.T) {
	// Out-of-range index, degenerate edge, and an incomplete trailing triple.
	indices := []int{0, 1, 99, 2, 2, 3, 0, 1}
	a := BuildAdjacency(indices, 4)

	if got := a.Neighbors[0]; len(got) != 1 || got[0] != 1 {
		t.Errorf("Neighbors[0] = %v, want [1]", got)
	}
	if got := a.Neighbors[2]; len(got) != 1 || got[0] != 3 {
		t.Errorf("Neighbors[2] = %v, want [3]", got)
	}
}

func TestWeights_GridScenario(t *testing.T) {
	// Unit grid, one pinned vertex at the center, radius 2. A hop-1 neighbor
	// has t = 0.5 and weight exactly 0.5^2 * (3 - 1.0) = 0.5.
	indices, positions, n := gridFixture(4, 4)
	center := 12 // (2, 0, 2) on the 5x5 vertex grid

	w := Weights(indices, positions, []int{center}, 2.0, n)

	if w[center] != 1 {
		t.Errorf("pinned weight = %v, want exactly 1", w[center])
	}
	for _, v := range []int{11, 13, 7, 17} { // the four axis neighbors
		if w[v] != 0.5 {
			t.Errorf("hop-1 neighbor %d weight = %v, want exactly 0.5", v, w[v])
		}
	}

	// The corner is 2*sqrt(2) away along fan diagonals: beyond the radius.
	if w[0] != 0 {
		t.Errorf("far corner weight = %v, want 0", w[0])
	}
}

func TestWeights_Monotone(t *testing.T) {
	indices, positions, n := gridFixture(4, 4)
	center := 12

	w := Weights(indices, positions, []int{center}, 2.0, n)

	// Distance 1 (axis neighbor) vs sqrt(2) (fan diagonal neighbor) vs 2
	// (two axis hops): weights must not increase with distance.
	axis, diag, twoHops := w[13], w[18], w[14]
	if !(axis >= diag && diag >= twoHops) {
		t.Errorf("weights not monotone: axis=%v diag=%v twoHops=%v", axis, diag, twoHops)
	}
	if diag <= 0 || diag >= axis {
		t.Errorf("diagonal neighbor weight = %v, want in (0, %v)", diag, axis)
	}
}

func TestWeights_BoundaryIsZero(t *testing.T) {
	indices, positions, n := gridFixture(4, 4)
	w := Weights(indices, positions, []int{12}, 1.5, n)

	// Everything at geodesic distance 2 or more is outside radius 1.5.
	for _, v := range []int{0, 4, 20, 24, 10, 14, 2, 22} {
		if w[v] != 0 {
			t.Errorf("vertex %d weight = %v, want 0 beyond radius", v, w[v])
		}
	}
}

func TestWeights_ZeroRadius(t *testing.T) {
	indices, positions, n := gridFixture(2, 2)
	w := Weights(indices, positions, []int{4}, 0, n)

	for v := 0; v < n; v++ {
		want := float32(0)
		if v == 4 {
			want = 1
		}
		if w[v] != want {
			t.Errorf("zero radius: weight[%d] = %v, want %v", v, w[v], want)
		}
	}
}

func TestWeights_MultiSource(t *testing.T) {
	indices, positions, n := gridFixture(4, 1)

	// A 4x1 strip: vertices 0..4 along the bottom row, pinned at both ends.
	w := Weights(indices, positions, []int{0, 4}, 2.0, n)

	if w[0] != 1 || w[4] != 1 {
		t.Errorf("pinned weights = %v, %v, want 1, 1", w[0], w[4])
	}
	// Vertex 2 is distance 2 from both sources: on the falloff boundary.
	if w[2] != 0 {
		t.Errorf("midpoint weight = %v, want 0 at exact radius boundary", w[2])
	}
	// Vertices 1 and 3 are distance 1 from their nearer source.
	if w[1] != 0.5 || w[3] != 0.5 {
		t.Errorf("hop-1 weights = %v, %v, want 0.5", w[1], w[3])
	}
}

func TestWeights_IgnoresBadPins(t *testing.T) {
	indices, positions, n := gridFixture(2, 2)
	w := Weights(indices, positions, []int{-1, 99}, 2.0, n)
	for v, got := range w {
		if got != 0 {
			t.Errorf("weight[%d] = %v, want 0 with no valid pins", v, got)
		}
	}
}

func TestWeights_PopBudgetTerminates(t *testing.T) {
	// A dense clique-ish fan would re-relax aggressively; the pop budget
	// keeps the search bounded either way. This just asserts completion and
	// sane output on a larger mesh.
	m := primitive.Grid(30, 30, 1)
	w := Weights(m.Triangulate(), m.Positions, []int{0}, 5.0, m.VertexCount())
	for v, got := range w {
		if got < 0 || got > 1 {
			t.Fatalf("weight[%d] = %v, out of [0,1]", v, got)
		}
	}
	if w[0] != 1 {
		t.Errorf("pinned weight = %v, want 1", w[0])
	}
}
