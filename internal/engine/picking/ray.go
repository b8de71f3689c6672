// Package picking converts screen-space clicks into world-space rays for the
// spatial query engine.
package picking

import (
	gomath "math"

	"github.com/Faultbox/meshforge/internal/mesh/spatial"
	"github.com/Faultbox/meshforge/pkg/math"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) spatial.Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	// Unproject near and far points
	nearWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	dir := farWorld.Sub(nearWorld)
	if dir.LengthSq() > 0 {
		dir = dir.Normalize()
	}

	return spatial.Ray{Origin: nearWorld, Direction: dir}
}

// unproject applies the inverse view-projection and the perspective divide.
func unproject(invViewProj math.Mat4, p math.Vec4) math.Vec3 {
	w := invViewProj.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y
// level. Used when dragging a selection along the ground plane.
func IntersectPlaneY(r spatial.Ray, planeY float32) (math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return math.Vec3{}, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}

	return r.Origin.Add(r.Direction.Scale(t)), true
}
