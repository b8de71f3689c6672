// Package query is the editor-facing surface of the mesh core. An Engine
// owns the derived structures for one mesh (half-edge graph, BVH, the
// soft-selection adjacency), memoized against the mesh's generation counters
// and rebuilt lazily on first use after an edit is reported.
//
// Engines are single-context: queries are invoked synchronously from the
// host's per-frame update, so no locking is needed. Invalidation is driven
// by the mesh generation counters; editing buffers without bumping them
// yields stale but bounded results.
package query

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/mesh"
	"github.com/Faultbox/meshforge/internal/mesh/softselect"
	"github.com/Faultbox/meshforge/internal/mesh/spatial"
	"github.com/Faultbox/meshforge/internal/mesh/topology"
	"github.com/Faultbox/meshforge/pkg/math"
)

// Engine answers picking, loop-expansion, and soft-selection queries for one
// logical mesh.
type Engine struct {
	m   *mesh.Mesh
	log *zap.Logger

	topo    *topology.Graph
	topoGen uint64

	bvh     *spatial.BVH
	bvhGen  uint64
	hasBVH  bool
	hasTopo bool

	adj    *softselect.Adjacency
	adjGen uint64
}

// New creates an engine for the given mesh. A nil logger disables logging.
func New(m *mesh.Mesh, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{m: m, log: log}
}

// Mesh returns the mesh this engine queries.
func (e *Engine) Mesh() *mesh.Mesh { return e.m }

// Topology returns the half-edge graph, rebuilding it if the mesh's face
// list changed since the last build.
func (e *Engine) Topology() *topology.Graph {
	gen := e.m.TopologyGeneration()
	if !e.hasTopo || e.topoGen != gen {
		start := time.Now()
		e.topo = topology.Build(e.m)
		e.topoGen = gen
		e.hasTopo = true
		e.log.Debug("half-edge graph rebuilt",
			zap.Uint64("generation", gen),
			zap.Int("half_edges", len(e.topo.Edges)),
			zap.Int("boundary", e.topo.BoundaryCount()),
			zap.Duration("took", time.Since(start)),
		)
	}
	return e.topo
}

// BVH returns the bounding-volume tree, rebuilding it if positions or faces
// changed since the last build. A pure position edit rebuilds only this,
// not the half-edge graph.
func (e *Engine) BVH() *spatial.BVH {
	gen := e.m.GeometryGeneration()
	if !e.hasBVH || e.bvhGen != gen {
		start := time.Now()
		e.bvh = spatial.Build(e.m)
		e.bvhGen = gen
		e.hasBVH = true
		depth := e.bvh.Depth()
		leaves, maxFaces := e.bvh.LeafStats()
		e.log.Debug("BVH rebuilt",
			zap.Uint64("generation", gen),
			zap.Int("depth", depth),
			zap.Int("leaves", leaves),
			zap.Int("max_leaf_faces", maxFaces),
			zap.Duration("took", time.Since(start)),
		)
	}
	return e.bvh
}

// adjacency returns the soft-selection vertex graph, keyed to the topology
// generation so interactive radius changes reuse it.
func (e *Engine) adjacency() *softselect.Adjacency {
	gen := e.m.TopologyGeneration()
	if e.adj == nil || e.adjGen != gen {
		e.adj = softselect.BuildAdjacency(e.m.Triangulate(), e.m.VertexCount())
		e.adjGen = gen
	}
	return e.adj
}

// Pick casts a ray and returns the nearest hit element set, or nil on miss.
// vertexTol bounds the nearest-vertex report; non-positive disables the cutoff.
func (e *Engine) Pick(r spatial.Ray, vertexTol float32) *spatial.Hit {
	return e.BVH().Raycast(r, vertexTol)
}

// BrushSelect returns the deduplicated vertices within radius of center.
func (e *Engine) BrushSelect(center math.Vec3, radius float32) []int {
	return e.BVH().VerticesInSphere(center, radius)
}

// EdgeLoop expands the seed edge (a,b) to its full edge loop.
func (e *Engine) EdgeLoop(a, b int) []mesh.Edge {
	return e.Topology().EdgeLoop(a, b)
}

// EdgeRing expands the seed edge (a,b) to its full edge ring.
func (e *Engine) EdgeRing(a, b int) []mesh.Edge {
	return e.Topology().EdgeRing(a, b)
}

// FaceLoop expands the seed face along the loop through guide edge (a,b).
func (e *Engine) FaceLoop(face, a, b int) []int {
	return e.Topology().FaceLoop(face, a, b)
}

// VertexLoop returns the vertices of the edge loop seeded at (a,b).
func (e *Engine) VertexLoop(a, b int) []int {
	return e.Topology().VertexLoop(a, b)
}

// SoftSelection computes per-vertex falloff weights around the pinned
// vertices using geodesic distance along the triangulated surface.
func (e *Engine) SoftSelection(pinned []int, radius float32) []float32 {
	return e.adjacency().Weights(e.m.Positions, pinned, radius)
}
