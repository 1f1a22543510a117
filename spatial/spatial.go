// Package spatial provides planar rigid-body poses and the transforms between
// the world frame and the FRS-normalized planning frame.
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
)

// Pose is a planar rigid body pose in world frame. Heading is in radians,
// counterclockwise from the world +X axis. The Z component of Point is unused.
type Pose struct {
	Point   r3.Vector
	Heading float64
}

// NewPose returns a pose at (x, y) with the given heading.
func NewPose(x, y, heading float64) Pose {
	return Pose{Point: r3.Vector{X: x, Y: y}, Heading: heading}
}

// ToLocal expresses the world-frame point p in the body frame of pose:
// translate by the negated position, then rotate by the negated heading.
func ToLocal(p r3.Vector, pose Pose) r3.Vector {
	dx := p.X - pose.Point.X
	dy := p.Y - pose.Point.Y
	c := math.Cos(pose.Heading)
	s := math.Sin(pose.Heading)
	return r3.Vector{X: c*dx + s*dy, Y: -s*dx + c*dy}
}

// FromLocal is the inverse of ToLocal.
func FromLocal(p r3.Vector, pose Pose) r3.Vector {
	c := math.Cos(pose.Heading)
	s := math.Sin(pose.Heading)
	return r3.Vector{
		X: c*p.X - s*p.Y + pose.Point.X,
		Y: s*p.X + c*p.Y + pose.Point.Y,
	}
}

// ToFRS maps a world-frame point into the FRS-normalized frame: body-frame
// coordinates divided by the FRS distance scale, then shifted by the model's
// stored initial-condition offset.
func ToFRS(p r3.Vector, pose Pose, scale float64, offset r3.Vector) r3.Vector {
	local := ToLocal(p, pose)
	return r3.Vector{X: local.X/scale + offset.X, Y: local.Y/scale + offset.Y}
}

// FromFRS is the inverse of ToFRS.
func FromFRS(p r3.Vector, pose Pose, scale float64, offset r3.Vector) r3.Vector {
	local := r3.Vector{X: (p.X - offset.X) * scale, Y: (p.Y - offset.Y) * scale}
	return FromLocal(local, pose)
}
