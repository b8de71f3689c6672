// Package spatial accelerates ray and region queries over a logical mesh
// with a bounding volume hierarchy.
package spatial

import (
	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/pkg/math"
)

// maxLeafFaces is the face-count threshold below which a node becomes a leaf.
const maxLeafFaces = 8

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

func (b AABB) union(other AABB) AABB {
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// largestAxis returns the coordinate axis (0,1,2) with the widest extent.
func (b AABB) largestAxis() int {
	e := b.Max.Sub(b.Min)
	axis := 0
	if e.Y > e.X {
		axis = 1
	}
	if e.Z > e.Axis(axis) {
		axis = 2
	}
	return axis
}

// node is one slot in the flat BVH arena. Branch nodes reference children by
// index; only leaves hold face ids.
type node struct {
	Box         AABB
	Left, Right int   // child arena indices, -1 on leaves
	Faces       []int // leaf face ids
}

// BVH is a binary bounding-volume tree over the faces of one mesh revision.
type BVH struct {
	nodes []node
	root  int
	m     *mesh.Mesh

	faceBox      []AABB
	faceCentroid []math.Vec3
}

// Build constructs a BVH over every valid face of the mesh. Returns a tree
// with no root if the mesh has no usable faces; queries on it simply miss.
func Build(m *mesh.Mesh) *BVH {
	b := &BVH{root: -1, m: m}

	var faces []int
	b.faceBox = make([]AABB, len(m.Faces))
	b.faceCentroid = make([]math.Vec3, len(m.Faces))
	for f := range m.Faces {
		if !m.FaceValid(f) {
			continue
		}
		box, centroid := faceBounds(m, f)
		b.faceBox[f] = box
		b.faceCentroid[f] = centroid
		faces = append(faces, f)
	}
	if len(faces) == 0 {
		return b
	}

	b.root = b.buildNode(faces)
	return b
}

// buildNode appends a subtree for the given faces and returns its arena index.
func (b *BVH) buildNode(faces []int) int {
	box := b.faceBox[faces[0]]
	for _, f := range faces[1:] {
		box = box.union(b.faceBox[f])
	}

	id := len(b.nodes)
	b.nodes = append(b.nodes, node{Box: box, Left: -1, Right: -1})

	if len(faces) <= maxLeafFaces {
		b.nodes[id].Faces = faces
		return id
	}

	// Midpoint split on the widest axis, partitioning by face centroid.
	axis := box.largestAxis()
	mid := (box.Min.Axis(axis) + box.Max.Axis(axis)) / 2

	var left, right []int
	for _, f := range faces {
		if b.faceCentroid[f].Axis(axis) < mid {
			left = append(left, f)
		} else {
			right = append(right, f)
		}
	}

	// Coincident centroids can put everything on one side; force a leaf
	// instead of recursing forever.
	if len(left) == 0 || len(right) == 0 {
		b.nodes[id].Faces = faces
		return id
	}

	l := b.buildNode(left)
	r := b.buildNode(right)
	b.nodes[id].Left = l
	b.nodes[id].Right = r
	return id
}

// Depth returns the deepest node level, for diagnostics. Empty trees are 0.
func (b *BVH) Depth() int {
	if b.root < 0 {
		return 0
	}
	return b.depth(b.root)
}

func (b *BVH) depth(id int) int {
	n := &b.nodes[id]
	if n.Left < 0 {
		return 1
	}
	dl := b.depth(n.Left)
	dr := b.depth(n.Right)
	if dr > dl {
		dl = dr
	}
	return dl + 1
}

// LeafStats returns the leaf count and the largest leaf face list.
func (b *BVH) LeafStats() (leaves, maxFaces int) {
	for i := range b.nodes {
		if b.nodes[i].Left < 0 {
			leaves++
			if len(b.nodes[i].Faces) > maxFaces {
				maxFaces = len(b.nodes[i].Faces)
			}
		}
	}
	return leaves, maxFaces
}

// faceBounds computes the AABB and centroid of one face's vertices.
func faceBounds(m *mesh.Mesh, f int) (AABB, math.Vec3) {
	face := m.Faces[f]
	first := m.Position(face[0])
	box := AABB{Min: first, Max: first}
	sum := first
	for _, v := range face[1:] {
		p := m.Position(v)
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
		sum = sum.Add(p)
	}
	centroid := sum.Scale(1 / float32(len(face)))
	return box, centroid
}
