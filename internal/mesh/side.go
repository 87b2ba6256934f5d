package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelengine/internal/world"
)

// Side names one face of a voxel cube.
type Side int

const (
	Right Side = iota // +X
	Left              // -X
	Up                // +Y
	Down              // -Y
	Front             // +Z
	Back              // -Z
)

const SideCount = 6

// Sides lists every side in the order faces are merged and emitted.
var Sides = [SideCount]Side{Right, Left, Up, Down, Front, Back}

var sideNames = [SideCount]string{"right", "left", "up", "down", "front", "back"}

func (s Side) String() string {
	if s < 0 || int(s) >= SideCount {
		return "unknown"
	}
	return sideNames[s]
}

// Dir returns the unit offset towards the neighbor sharing this side.
func (s Side) Dir() world.LocalCoord {
	switch s {
	case Right:
		return world.LocalCoord{X: 1}
	case Left:
		return world.LocalCoord{X: -1}
	case Up:
		return world.LocalCoord{Y: 1}
	case Down:
		return world.LocalCoord{Y: -1}
	case Front:
		return world.LocalCoord{Z: 1}
	case Back:
		return world.LocalCoord{Z: -1}
	default:
		return world.LocalCoord{}
	}
}

// Normal returns the outward unit normal of the side.
func (s Side) Normal() mgl32.Vec3 {
	d := s.Dir()
	return mgl32.Vec3{float32(d.X), float32(d.Y), float32(d.Z)}
}

// axes returns the index (0=X, 1=Y, 2=Z) of the axis perpendicular to the side
// followed by the two in-plane axes in ascending order.
func (s Side) axes() (normal, u, v int) {
	switch s {
	case Right, Left:
		return 0, 1, 2
	case Up, Down:
		return 1, 0, 2
	default:
		return 2, 0, 1
	}
}

// cubeCorners holds the 8 unit cube corners; bit 0 selects x, bit 1 y and bit 2 z.
var cubeCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// sideCorners lists, per side, the cube corners of its quad in counter-clockwise
// order when looking at the face from outside.
var sideCorners = [SideCount][4]int{
	Right: {1, 3, 7, 5},
	Left:  {0, 4, 6, 2},
	Up:    {2, 6, 7, 3},
	Down:  {0, 1, 5, 4},
	Front: {4, 5, 7, 6},
	Back:  {0, 2, 3, 1},
}

// Corner returns the i-th unit cube corner of the side's quad.
func (s Side) Corner(i int) mgl32.Vec3 {
	c := cubeCorners[sideCorners[s][i]]
	return mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
}
