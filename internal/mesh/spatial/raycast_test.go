package spatial

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/internal/mesh/primitive"
	"github.com/Faultbox/meshforge/pkg/math"
)

// bruteNearest tests every face directly, bypassing the tree.
func bruteNearest(b *BVH, r Ray) (float32, int) {
	best := float32(gomath.MaxFloat32)
	bestFace := -1
	for f := range b.m.Faces {
		if !b.m.FaceValid(f) {
			continue
		}
		if t, ok := b.rayFace(r, f); ok && t < best {
			best = t
			bestFace = f
		}
	}
	return best, bestFace
}

func downRay(x, z float32) Ray {
	return Ray{
		Origin:    math.Vec3{X: x, Y: 5, Z: z},
		Direction: math.Vec3{X: 0, Y: -1, Z: 0},
	}
}

func TestRaycast_HitsGridQuad(t *testing.T) {
	b := Build(primitive.Grid(3, 3, 1))

	hit := b.Raycast(downRay(0.5, 0.25), 0)
	if hit == nil {
		t.Fatal("expected a hit on the grid")
	}
	if hit.Face != 0 {
		t.Errorf("hit face = %d, want 0", hit.Face)
	}
	if gomath.Abs(float64(hit.Distance-5)) > 1e-4 {
		t.Errorf("hit distance = %v, want 5", hit.Distance)
	}
	if gomath.Abs(float64(hit.Position.Y)) > 1e-4 {
		t.Errorf("hit position = %v, want y=0", hit.Position)
	}

	// The closest edge of face 0 to (0.5, 0, 0.25) is the bottom edge (0,1).
	if hit.Edge != mesh.MakeEdge(0, 1) {
		t.Errorf("hit edge = %v, want {0 1}", hit.Edge)
	}

	// With no tolerance the nearest corner is always reported.
	if hit.Vertex != 0 && hit.Vertex != 1 {
		t.Errorf("hit vertex = %d, want 0 or 1", hit.Vertex)
	}
}

func TestRaycast_VertexPickTolerance(t *testing.T) {
	b := Build(primitive.Grid(3, 3, 1))

	// Dead center of a quad: all corners are ~0.707 away.
	hit := b.Raycast(downRay(0.5, 0.5), 0.3)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Vertex != -1 {
		t.Errorf("hit vertex = %d, want -1 beyond tolerance", hit.Vertex)
	}

	// Just off a corner: vertex 5 at (1,0,1) is within tolerance.
	hit = b.Raycast(downRay(1.05, 1.05), 0.3)
	if hit == nil {
		t.Fatal("expected a hit")
	}
	if hit.Vertex != 5 {
		t.Errorf("hit vertex = %d, want 5", hit.Vertex)
	}
}

func TestRaycast_MissReturnsNil(t *testing.T) {
	b := Build(primitive.Grid(3, 3, 1))

	if hit := b.Raycast(downRay(-2, -2), 0); hit != nil {
		t.Errorf("expected nil for ray outside the grid, got %+v", hit)
	}

	up := Ray{Origin: math.Vec3{X: 0.5, Y: 5, Z: 0.5}, Direction: math.Vec3{Y: 1}}
	if hit := b.Raycast(up, 0); hit != nil {
		t.Errorf("expected nil for ray pointing away, got %+v", hit)
	}
}

func TestRaycast_Deterministic(t *testing.T) {
	b := Build(primitive.Cube(1))
	r := Ray{
		Origin:    math.Vec3{X: 0.2, Y: 0.1, Z: 5},
		Direction: math.Vec3{Z: -1},
	}

	first := b.Raycast(r, 0)
	if first == nil {
		t.Fatal("expected a hit on the cube")
	}
	for i := 0; i < 10; i++ {
		hit := b.Raycast(r, 0)
		if hit == nil || *hit != *first {
			t.Fatalf("raycast %d returned %+v, first returned %+v", i, hit, first)
		}
	}
	if first.Face != 0 {
		t.Errorf("hit face = %d, want the +Z face (0)", first.Face)
	}
	if gomath.Abs(float64(first.Distance-4)) > 1e-4 {
		t.Errorf("hit distance = %v, want 4", first.Distance)
	}
}

// checkAgainstBrute fails the test when the tree's answer for the ray
// disagrees with testing every face directly.
func checkAgainstBrute(t *testing.T, b *BVH, r Ray, i int) {
	t.Helper()
	wantT, wantFace := bruteNearest(b, r)
	hit := b.Raycast(r, 0)
	if wantFace < 0 {
		if hit != nil {
			t.Fatalf("ray %d: BVH hit face %d, brute force missed", i, hit.Face)
		}
		return
	}
	if hit == nil {
		t.Fatalf("ray %d: BVH missed, brute force hit face %d", i, wantFace)
	}
	if gomath.Abs(float64(hit.Distance-wantT)) > 1e-4 {
		t.Fatalf("ray %d: BVH distance %v, brute force %v", i, hit.Distance, wantT)
	}
}

func TestRaycast_MatchesBruteForce(t *testing.T) {
	meshes := []*mesh.Mesh{
		primitive.Grid(7, 5, 1),
		primitive.Cube(2),
		primitive.Tube(12, 4, 2, 4),
	}
	for _, m := range meshes {
		b := Build(m)

		// Deterministic ray fan through and around the mesh.
		for i := 0; i < 60; i++ {
			fi := float32(i)
			r := Ray{
				Origin: math.Vec3{
					X: -3 + fi*0.23,
					Y: 8,
					Z: -3 + float32((i*7)%13)*0.45,
				},
				Direction: math.Vec3{X: 0.02 * fi, Y: -1, Z: 0.015 * fi}.Normalize(),
			}
			checkAgainstBrute(t, b, r, i)
		}

		// Rays starting inside the mesh bounds, pointing outward.
		lo, hi := m.Bounds()
		center := lo.Add(hi).Scale(0.5)
		for i := 0; i < 24; i++ {
			fi := float32(i)
			a := 2 * gomath.Pi * float64(i) / 24
			r := Ray{
				Origin: center.Add(math.Vec3{X: 0.04 * fi, Y: -0.03 * fi, Z: 0.02 * fi}),
				Direction: math.Vec3{
					X: float32(gomath.Cos(a)),
					Y: 0.1,
					Z: float32(gomath.Sin(a)),
				}.Normalize(),
			}
			checkAgainstBrute(t, b, r, 60+i)
		}
	}
}

func TestRayBox_OriginInside(t *testing.T) {
	box := AABB{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	}

	// From inside the box the only safe lower bound on a hit is zero; the
	// exit distance would overestimate faces right next to the origin.
	r := Ray{Origin: math.Vec3{X: 0.5, Y: -0.25}, Direction: math.Vec3{X: 1}}
	d, ok := rayBox(r, box)
	if !ok {
		t.Fatal("ray starting inside the box must intersect it")
	}
	if d != 0 {
		t.Errorf("inside-origin distance = %v, want 0", d)
	}

	// From outside it is the entry distance.
	r = Ray{Origin: math.Vec3{X: -3}, Direction: math.Vec3{X: 1}}
	d, ok = rayBox(r, box)
	if !ok || gomath.Abs(float64(d-2)) > 1e-6 {
		t.Errorf("outside-origin = (%v, %v), want entry distance 2", d, ok)
	}

	// A box entirely behind the origin misses.
	r = Ray{Origin: math.Vec3{X: 3}, Direction: math.Vec3{X: 1}}
	if _, ok := rayBox(r, box); ok {
		t.Error("box behind the ray reported as hit")
	}
}

func TestRaycast_OriginInsideTree(t *testing.T) {
	// Walls perpendicular to X split into two leaves, plus one off-axis
	// slanted face stretching the near leaf's box far past the far leaf's
	// faces. The ray starts between the walls, inside the near leaf's box;
	// its nearest wall sits in that leaf, so pruning the node by its exit
	// distance would report a far-leaf wall instead.
	var positions []float32
	var faces []mesh.Face
	wall := func(x float32) {
		base := len(positions) / 3
		positions = append(positions,
			x, -2, -2,
			x, 2, -2,
			x, 0, 2,
		)
		faces = append(faces, mesh.Face{base, base + 1, base + 2})
	}
	for _, x := range []float32{10, 11, 12, 13, 15, 16, 17, 18, 19} {
		wall(x)
	}
	base := len(positions) / 3
	positions = append(positions,
		10, -1, 5,
		10, 1, 5,
		24, 0, 6,
	)
	faces = append(faces, mesh.Face{base, base + 1, base + 2})

	b := Build(mesh.New(positions, faces))
	if leaves, _ := b.LeafStats(); leaves < 2 {
		t.Fatalf("fixture built %d leaves, want a split tree", leaves)
	}

	r := Ray{Origin: math.Vec3{X: 13.5}, Direction: math.Vec3{X: 1}}
	hit := b.Raycast(r, 0)
	if hit == nil {
		t.Fatal("expected a hit from inside the tree")
	}
	if hit.Face != 4 {
		t.Errorf("hit face = %d, want the x=15 wall (4)", hit.Face)
	}
	if gomath.Abs(float64(hit.Distance-1.5)) > 1e-4 {
		t.Errorf("hit distance = %v, want 1.5", hit.Distance)
	}
}

func TestBuild_ForcesLeafOnCoincidentCentroids(t *testing.T) {
	// 12 triangles sharing one centroid would recurse forever without the
	// empty-side guard.
	var positions []float32
	var faces []mesh.Face
	for i := 0; i < 12; i++ {
		base := i * 3
		positions = append(positions,
			-1, 0, 0,
			1, 0, 0,
			0, 1, 0,
		)
		faces = append(faces, mesh.Face{base, base + 1, base + 2})
	}
	b := Build(mesh.New(positions, faces))

	leaves, maxFaces := b.LeafStats()
	if leaves != 1 {
		t.Errorf("leaves = %d, want 1 forced leaf", leaves)
	}
	if maxFaces != 12 {
		t.Errorf("forced leaf holds %d faces, want 12", maxFaces)
	}

	r := Ray{Origin: math.Vec3{X: 0, Y: 0.5, Z: 5}, Direction: math.Vec3{Z: -1}}
	if hit := b.Raycast(r, 0); hit == nil {
		t.Error("expected a hit on the stacked triangles")
	}
}

func TestBuild_EmptyMesh(t *testing.T) {
	b := Build(mesh.New(nil, nil))
	if hit := b.Raycast(downRay(0, 0), 0); hit != nil {
		t.Errorf("empty mesh raycast = %+v, want nil", hit)
	}
	if verts := b.VerticesInSphere(math.Vec3{}, 1); verts != nil {
		t.Errorf("empty mesh sphere query = %v, want nil", verts)
	}
}

func TestBuild_LeafInvariants(t *testing.T) {
	m := primitive.Grid(9, 9, 1)
	b := Build(m)

	if b.Depth() < 2 {
		t.Errorf("81-face grid BVH depth = %d, want a real tree", b.Depth())
	}

	seen := make(map[int]int)
	for i := range b.nodes {
		n := &b.nodes[i]
		if n.Left < 0 != (n.Right < 0) {
			t.Fatal("node with exactly one child")
		}
		if n.Left >= 0 && n.Faces != nil {
			t.Fatal("branch node holding faces")
		}
		if n.Left >= 0 {
			// A parent box contains its children's boxes.
			for _, c := range []int{n.Left, n.Right} {
				cb := b.nodes[c].Box
				if cb.Min.Min(n.Box.Min) != n.Box.Min || cb.Max.Max(n.Box.Max) != n.Box.Max {
					t.Fatal("child box escapes parent box")
				}
			}
			continue
		}
		if len(n.Faces) > maxLeafFaces {
			t.Fatalf("leaf holds %d faces, max is %d", len(n.Faces), maxLeafFaces)
		}
		for _, f := range n.Faces {
			seen[f]++
		}
	}
	for f := range m.Faces {
		if seen[f] != 1 {
			t.Fatalf("face %d appears in %d leaves, want exactly 1", f, seen[f])
		}
	}
}

func TestVerticesInSphere(t *testing.T) {
	m := primitive.Grid(3, 3, 1)
	b := Build(m)

	// Vertex 5 sits at (1,0,1); its four axis neighbors are 1 away, the
	// diagonals sqrt(2) away.
	center := m.Position(5)
	got := b.VerticesInSphere(center, 1.05)

	want := map[int]struct{}{1: {}, 4: {}, 5: {}, 6: {}, 9: {}}
	if len(got) != len(want) {
		t.Fatalf("VerticesInSphere = %v, want vertices 1,4,5,6,9", got)
	}
	counts := make(map[int]int)
	for _, v := range got {
		counts[v]++
		if _, ok := want[v]; !ok {
			t.Fatalf("unexpected vertex %d in sphere result", v)
		}
	}
	for v, c := range counts {
		if c != 1 {
			t.Fatalf("vertex %d duplicated %d times", v, c)
		}
	}
}

func TestVerticesInSphere_ZeroRadius(t *testing.T) {
	m := primitive.Grid(3, 3, 1)
	b := Build(m)

	got := b.VerticesInSphere(m.Position(5), 0)
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("zero-radius sphere query = %v, want exactly vertex 5", got)
	}

	if got := b.VerticesInSphere(m.Position(5), -1); got != nil {
		t.Errorf("negative-radius sphere query = %v, want nil", got)
	}
}
