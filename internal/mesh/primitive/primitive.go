// Package primitive generates simple quad meshes. The editor's importer is a
// separate concern; these generators feed the cmd tools and the test suites.
package primitive

import (
	gomath "math"

	"github.com/Faultbox/meshforge/internal/mesh"
)

// Grid builds a planar grid of nx by nz quads in the XZ plane with the given
// edge spacing. Vertex (x,z) has id z*(nx+1)+x.
func Grid(nx, nz int, spacing float32) *mesh.Mesh {
	cols := nx + 1
	rows := nz + 1

	positions := make([]float32, 0, cols*rows*3)
	for z := 0; z < rows; z++ {
		for x := 0; x < cols; x++ {
			positions = append(positions,
				float32(x)*spacing,
				0,
				float32(z)*spacing,
			)
		}
	}

	faces := make([]mesh.Face, 0, nx*nz)
	for z := 0; z < nz; z++ {
		for x := 0; x < nx; x++ {
			v := z*cols + x
			faces = append(faces, mesh.Face{v, v + 1, v + 1 + cols, v + cols})
		}
	}

	return mesh.New(positions, faces)
}

// Cube builds an axis-aligned cube of the given half extent centered at the
// origin, six quad faces wound counter-clockwise seen from outside.
func Cube(half float32) *mesh.Mesh {
	s := half
	positions := []float32{
		-s, -s, -s, // 0
		s, -s, -s, // 1
		s, s, -s, // 2
		-s, s, -s, // 3
		-s, -s, s, // 4
		s, -s, s, // 5
		s, s, s, // 6
		-s, s, s, // 7
	}
	faces := []mesh.Face{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{0, 4, 7, 3}, // -X
		{5, 1, 2, 6}, // +X
		{7, 6, 2, 3}, // +Y
		{0, 1, 5, 4}, // -Y
	}
	return mesh.New(positions, faces)
}

// Tube builds an open-ended cylinder wall of the given segment count around
// the Y axis and the given number of quad rows along it. The surface is
// closed around the circumference and open at both ends, which makes it a
// useful fixture for closed edge rings and boundary termination.
func Tube(segments, rows int, radius, height float32) *mesh.Mesh {
	if segments < 3 {
		segments = 3
	}
	if rows < 1 {
		rows = 1
	}

	positions := make([]float32, 0, segments*(rows+1)*3)
	for r := 0; r <= rows; r++ {
		y := height * float32(r) / float32(rows)
		for s := 0; s < segments; s++ {
			angle := 2 * gomath.Pi * float64(s) / float64(segments)
			positions = append(positions,
				radius*float32(gomath.Cos(angle)),
				y,
				radius*float32(gomath.Sin(angle)),
			)
		}
	}

	faces := make([]mesh.Face, 0, segments*rows)
	for r := 0; r < rows; r++ {
		base := r * segments
		next := (r + 1) * segments
		for s := 0; s < segments; s++ {
			sn := (s + 1) % segments
			faces = append(faces, mesh.Face{base + s, base + sn, next + sn, next + s})
		}
	}

	return mesh.New(positions, faces)
}
