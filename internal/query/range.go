// Package query enumerates chunk coordinates around a point of interest.
package query

import (
	"iter"

	"voxelengine/internal/world"
)

// Range yields every coordinate with each axis in [min, max] inclusive,
// x-major, then y, then z. The sequence holds no state and can be re-ranged.
func Range(min, max world.ChunkCoord) iter.Seq[world.ChunkCoord] {
	return func(yield func(world.ChunkCoord) bool) {
		for x := min.X; x <= max.X; x++ {
			for y := min.Y; y <= max.Y; y++ {
				for z := min.Z; z <= max.Z; z++ {
					if !yield(world.ChunkCoord{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}

// Cube is Range(center+begin, center+end) with the same offset on every axis.
func Cube(center world.ChunkCoord, begin, end int) iter.Seq[world.ChunkCoord] {
	return Range(center.Add(world.Splat(begin)), center.Add(world.Splat(end)))
}
