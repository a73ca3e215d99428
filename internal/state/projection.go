package state

// Plane is one of the three 2-D projection planes (spec.md §3 "Projection2D").
type Plane string

const (
	PlaneXY Plane = "XY"
	PlaneXZ Plane = "XZ"
	PlaneYZ Plane = "YZ"
)

// Projection2D is a 2-D projection of a Vec3 onto one of the three planes.
type Projection2D struct {
	X, Y  float64
	Plane Plane
}

// Project projects v onto the given plane.
func (v Vec3) Project(plane Plane) Projection2D {
	switch plane {
	case PlaneXZ:
		return Projection2D{X: v.X, Y: v.Z, Plane: PlaneXZ}
	case PlaneYZ:
		return Projection2D{X: v.Y, Y: v.Z, Plane: PlaneYZ}
	default:
		return Projection2D{X: v.X, Y: v.Y, Plane: PlaneXY}
	}
}

// ProjectXY is a convenience for the common XY projection.
func (v Vec3) ProjectXY() Projection2D { return v.Project(PlaneXY) }
