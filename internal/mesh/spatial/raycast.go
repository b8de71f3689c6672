package spatial

import (
	gomath "math"

	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/pkg/math"
)

// Ray is a half-line in world space. Direction should be normalized so hit
// distances are comparable across rays.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// Hit describes the nearest mesh element along a ray.
type Hit struct {
	Distance float32
	Position math.Vec3 // world-space hit point
	Face     int
	Vertex   int       // nearest vertex of the hit face, -1 if beyond the pick tolerance
	Edge     mesh.Edge // nearest edge of the hit face by point-to-segment distance
}

// Raycast returns the nearest intersection of the ray with the mesh, or nil
// when nothing is hit. Logical faces are fan-triangulated from their first
// vertex for the intersection test. vertexTol is the maximum distance from
// the hit point for the nearest-vertex report; pass a non-positive value to
// always report the nearest vertex.
func (b *BVH) Raycast(r Ray, vertexTol float32) *Hit {
	if b.root < 0 {
		return nil
	}

	best := float32(gomath.MaxFloat32)
	bestFace := -1

	stack := make([]int, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &b.nodes[id]

		t, ok := rayBox(r, n.Box)
		if !ok || t > best {
			continue
		}

		if n.Left < 0 {
			for _, f := range n.Faces {
				if t, ok := b.rayFace(r, f); ok && t < best {
					best = t
					bestFace = f
				}
			}
			continue
		}
		stack = append(stack, n.Left, n.Right)
	}

	if bestFace < 0 {
		return nil
	}

	hit := &Hit{
		Distance: best,
		Position: r.Origin.Add(r.Direction.Scale(best)),
		Face:     bestFace,
		Vertex:   -1,
	}
	b.resolveFaceElements(hit, vertexTol)
	return hit
}

// rayFace intersects the ray with the fan triangulation of one face,
// returning the nearest triangle hit.
func (b *BVH) rayFace(r Ray, f int) (float32, bool) {
	face := b.m.Faces[f]
	v0 := b.m.Position(face[0])
	best := float32(gomath.MaxFloat32)
	found := false
	for i := 1; i+1 < len(face); i++ {
		v1 := b.m.Position(face[i])
		v2 := b.m.Position(face[i+1])
		if t, ok := rayTriangle(r, v0, v1, v2); ok && t < best {
			best = t
			found = true
		}
	}
	return best, found
}

// resolveFaceElements fills in the nearest vertex and edge of the hit face.
func (b *BVH) resolveFaceElements(hit *Hit, vertexTol float32) {
	face := b.m.Faces[hit.Face]

	bestVert := -1
	bestVertDist := float32(gomath.MaxFloat32)
	for _, v := range face {
		d := b.m.Position(v).Distance(hit.Position)
		if d < bestVertDist {
			bestVertDist = d
			bestVert = v
		}
	}
	if vertexTol <= 0 || bestVertDist <= vertexTol {
		hit.Vertex = bestVert
	}

	bestEdgeDist := float32(gomath.MaxFloat32)
	for i := range face {
		a := face[i]
		c := face[(i+1)%len(face)]
		d := pointSegmentDistance(hit.Position, b.m.Position(a), b.m.Position(c))
		if d < bestEdgeDist {
			bestEdgeDist = d
			hit.Edge = mesh.MakeEdge(a, c)
		}
	}
}

// VerticesInSphere returns, without duplicates, every vertex of every
// candidate face within radius of center. Used for brush-style selection.
func (b *BVH) VerticesInSphere(center math.Vec3, radius float32) []int {
	if b.root < 0 || radius < 0 {
		return nil
	}

	// Sphere bounding box for cheap node rejection.
	r := math.Vec3{X: radius, Y: radius, Z: radius}
	sphereBox := AABB{Min: center.Sub(r), Max: center.Add(r)}
	radiusSq := radius * radius

	seen := make(map[int]struct{})
	var verts []int

	stack := make([]int, 0, 64)
	stack = append(stack, b.root)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &b.nodes[id]

		if !boxesOverlap(n.Box, sphereBox) {
			continue
		}
		if n.Left < 0 {
			for _, f := range n.Faces {
				for _, v := range b.m.Faces[f] {
					if _, ok := seen[v]; ok {
						continue
					}
					if b.m.Position(v).DistanceSq(center) <= radiusSq {
						seen[v] = struct{}{}
						verts = append(verts, v)
					}
				}
			}
			continue
		}
		stack = append(stack, n.Left, n.Right)
	}

	return verts
}

// rayBox is the slab test against an AABB. Returns a lower bound on the hit
// distance to anything inside the box: the entry distance, or 0 when the
// origin is already inside. The traversal prunes nodes by comparing this
// against the nearest hit so far, which is only sound for a lower bound.
func rayBox(r Ray, box AABB) (float32, bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Axis(axis)
		d := r.Direction.Axis(axis)
		lo := box.Min.Axis(axis)
		hi := box.Max.Axis(axis)

		if d != 0 {
			t1 := (lo - o) / d
			t2 := (hi - o) / d
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o < lo || o > hi {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

func boxesOverlap(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// rayTriangle is the Möller–Trumbore intersection test. Returns the ray
// parameter of the hit; backface hits count, grazing and behind-origin do not.
func rayTriangle(r Ray, v0, v1, v2 math.Vec3) (float32, bool) {
	const eps = 1e-7

	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det

	tv := r.Origin.Sub(v0)
	u := tv.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tv.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t <= eps {
		return 0, false
	}
	return t, true
}

// pointSegmentDistance returns the distance from p to segment ab.
func pointSegmentDistance(p, a, b math.Vec3) float32 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Scale(t)))
}
