// Package mesh defines the logical polygon mesh the editor queries against.
//
// A Mesh owns the authored face list and the flat vertex position buffer.
// Connectivity and spatial structures derived from it (half-edge graph, BVH)
// are owned by the query engine and keyed by the generation counters below,
// so callers must report edits through NoteTopologyEdit/NoteGeometryEdit.
package mesh

import "github.com/Faultbox/meshforge/pkg/math"

// Kind classifies a logical face by vertex count.
type Kind int

const (
	Triangle Kind = iota
	Quad
	Polygon // 5 or more vertices
)

// Face is an authored polygon: an ordered list of vertex indices in
// consistent winding. Distinct from the triangle fan used to render it.
type Face []int

// Kind returns the face classification used by loop-walk termination rules.
func (f Face) Kind() Kind {
	switch len(f) {
	case 3:
		return Triangle
	case 4:
		return Quad
	default:
		return Polygon
	}
}

// Edge identifies an undirected mesh edge by its endpoint vertex ids,
// stored with A < B so it can be used as a map key regardless of direction.
type Edge struct {
	A, B int
}

// MakeEdge builds the canonical (sorted) edge key for two vertex ids.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Mesh is a logical polygon mesh: positions plus faces. Read-mostly; the
// position and face setters bump generation counters that derived-structure
// caches compare against.
type Mesh struct {
	Positions []float32 // 3 floats per vertex, shared indexing with Faces
	Faces     []Face

	vertexFaces [][]int // vertex id -> ids of faces touching it

	topoGen uint64 // bumped on face-list edits
	geomGen uint64 // bumped on any edit, including pure position moves
}

// New creates a mesh from a flat position buffer and a face list.
// Faces with fewer than 3 vertices or out-of-range indices are kept as
// authored (imported data may be imperfect); queries skip them defensively.
func New(positions []float32, faces []Face) *Mesh {
	m := &Mesh{
		Positions: positions,
		Faces:     faces,
	}
	m.rebuildVertexFaces()
	return m
}

// VertexCount returns the number of vertices in the position buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// Position returns the position of vertex v. Out-of-range ids return zero.
func (m *Mesh) Position(v int) math.Vec3 {
	if v < 0 || v*3+2 >= len(m.Positions) {
		return math.Vec3{}
	}
	return math.Vec3{
		X: m.Positions[v*3],
		Y: m.Positions[v*3+1],
		Z: m.Positions[v*3+2],
	}
}

// SetPosition moves vertex v and records a geometry edit.
func (m *Mesh) SetPosition(v int, p math.Vec3) {
	if v < 0 || v*3+2 >= len(m.Positions) {
		return
	}
	m.Positions[v*3] = p.X
	m.Positions[v*3+1] = p.Y
	m.Positions[v*3+2] = p.Z
	m.NoteGeometryEdit()
}

// FacesOfVertex returns the ids of faces touching vertex v.
func (m *Mesh) FacesOfVertex(v int) []int {
	if v < 0 || v >= len(m.vertexFaces) {
		return nil
	}
	return m.vertexFaces[v]
}

// FaceValid reports whether every index of face f is inside the position buffer.
func (m *Mesh) FaceValid(f int) bool {
	if f < 0 || f >= len(m.Faces) {
		return false
	}
	face := m.Faces[f]
	if len(face) < 3 {
		return false
	}
	n := m.VertexCount()
	for _, v := range face {
		if v < 0 || v >= n {
			return false
		}
	}
	return true
}

// TopologyGeneration identifies the current face-list revision.
func (m *Mesh) TopologyGeneration() uint64 { return m.topoGen }

// GeometryGeneration identifies the current position-buffer revision.
// It advances on topology edits too, since those also move spatial bounds.
func (m *Mesh) GeometryGeneration() uint64 { return m.geomGen }

// NoteTopologyEdit must be called after any change to the face list.
// It invalidates both connectivity and spatial caches.
func (m *Mesh) NoteTopologyEdit() {
	m.topoGen++
	m.geomGen++
	m.rebuildVertexFaces()
}

// NoteGeometryEdit must be called after a pure vertex-position edit.
// Connectivity is unchanged, so only spatial caches are invalidated.
func (m *Mesh) NoteGeometryEdit() {
	m.geomGen++
}

// Triangulate fans every valid logical face from its first vertex and
// returns the combined triangle index buffer. This is the index buffer the
// soft-selection weighter and the renderer consume.
func (m *Mesh) Triangulate() []int {
	var indices []int
	for f := range m.Faces {
		if !m.FaceValid(f) {
			continue
		}
		face := m.Faces[f]
		for i := 1; i+1 < len(face); i++ {
			indices = append(indices, face[0], face[i], face[i+1])
		}
	}
	return indices
}

// Bounds returns the axis-aligned bounds of all vertex positions.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	n := m.VertexCount()
	if n == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min = m.Position(0)
	max = min
	for v := 1; v < n; v++ {
		p := m.Position(v)
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

func (m *Mesh) rebuildVertexFaces() {
	m.vertexFaces = make([][]int, m.VertexCount())
	for f, face := range m.Faces {
		for _, v := range face {
			if v < 0 || v >= len(m.vertexFaces) {
				continue
			}
			m.vertexFaces[v] = append(m.vertexFaces[v], f)
		}
	}
}
