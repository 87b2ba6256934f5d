package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// AxisSize is the number of voxels along each side of a chunk.
	AxisSize = 16
	// BufferSize is the number of voxels stored by a single chunk.
	BufferSize = AxisSize * AxisSize * AxisSize

	xShift = 8
	zShift = 4
	yShift = 0

	xMask = 0b1111_0000_0000
	zMask = 0b0000_1111_0000
	yMask = 0b0000_0000_1111
)

// ChunkCoord identifies a chunk in chunk space.
type ChunkCoord struct {
	X int
	Y int
	Z int
}

// LocalCoord describes a voxel position relative to the owning chunk.
type LocalCoord struct {
	X int
	Y int
	Z int
}

// BlockCoord describes a voxel position in global voxel space.
type BlockCoord struct {
	X int
	Y int
	Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Add returns the component-wise sum of both coordinates.
func (c ChunkCoord) Add(o ChunkCoord) ChunkCoord {
	return ChunkCoord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// Splat builds a coordinate with the same value on every axis.
func Splat(v int) ChunkCoord {
	return ChunkCoord{X: v, Y: v, Z: v}
}

// Less orders coordinates x-major, then y, then z.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

func (l LocalCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", l.X, l.Y, l.Z)
}

// Add returns the component-wise sum of both coordinates.
func (l LocalCoord) Add(o LocalCoord) LocalCoord {
	return LocalCoord{X: l.X + o.X, Y: l.Y + o.Y, Z: l.Z + o.Z}
}

// ToIndex packs a local coordinate into a buffer index.
// The result is undefined when IsWithinBounds(local) is false.
func ToIndex(local LocalCoord) int {
	return local.X<<xShift | local.Y<<yShift | local.Z<<zShift
}

// ToXYZ is the inverse of ToIndex for indices in [0, BufferSize).
func ToXYZ(index int) LocalCoord {
	return LocalCoord{
		X: (index & xMask) >> xShift,
		Y: (index & yMask) >> yShift,
		Z: (index & zMask) >> zShift,
	}
}

// IsWithinBounds reports whether every component lies in [0, AxisSize-1].
func IsWithinBounds(local LocalCoord) bool {
	return local.X >= 0 && local.Y >= 0 && local.Z >= 0 &&
		local.X < AxisSize && local.Y < AxisSize && local.Z < AxisSize
}

// ToWorld returns the world-space origin of a chunk.
func ToWorld(chunk ChunkCoord) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(chunk.X * AxisSize),
		float32(chunk.Y * AxisSize),
		float32(chunk.Z * AxisSize),
	}
}

// LocalToWorld returns the world-space minimum corner of a voxel inside a chunk.
func LocalToWorld(chunk ChunkCoord, local LocalCoord) mgl32.Vec3 {
	return ToWorld(chunk).Add(mgl32.Vec3{float32(local.X), float32(local.Y), float32(local.Z)})
}

// ToChunkCoord maps a world-space position onto the chunk containing it.
func ToChunkCoord(pos mgl32.Vec3) ChunkCoord {
	return ChunkCoord{
		X: int(math.Floor(float64(pos.X()) / AxisSize)),
		Y: int(math.Floor(float64(pos.Y()) / AxisSize)),
		Z: int(math.Floor(float64(pos.Z()) / AxisSize)),
	}
}

// LocateBlock splits a global voxel position into its chunk and local coordinates.
func LocateBlock(block BlockCoord) (ChunkCoord, LocalCoord) {
	chunk := ChunkCoord{
		X: floorDiv(block.X, AxisSize),
		Y: floorDiv(block.Y, AxisSize),
		Z: floorDiv(block.Z, AxisSize),
	}
	local := LocalCoord{
		X: block.X - chunk.X*AxisSize,
		Y: block.Y - chunk.Y*AxisSize,
		Z: block.Z - chunk.Z*AxisSize,
	}
	return chunk, local
}

func floorDiv(value, size int) int {
	if size <= 0 {
		return 0
	}
	if value >= 0 {
		return value / size
	}
	return -((-value - 1) / size) - 1
}
