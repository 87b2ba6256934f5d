// Package events defines the chunk lifecycle notifications exchanged between
// pipeline stages and the queues that carry them.
package events

import "voxelengine/internal/world"

// ChunkLoadRequested asks storage to load a chunk.
type ChunkLoadRequested struct{ Coord world.ChunkCoord }

// ChunkUnloadRequested asks storage to drop a chunk.
type ChunkUnloadRequested struct{ Coord world.ChunkCoord }

// ChunkLoaded reports a chunk inserted into storage.
type ChunkLoaded struct{ Coord world.ChunkCoord }

// ChunkUnloaded reports a chunk removed from storage.
type ChunkUnloaded struct{ Coord world.ChunkCoord }

// ChunkContentUpdated reports voxel writes inside a loaded chunk.
type ChunkContentUpdated struct{ Coord world.ChunkCoord }

// ChunkMeshDirty asks the meshing pipeline to rebuild a chunk.
type ChunkMeshDirty struct{ Coord world.ChunkCoord }

// VoxelEdit is a queued voxel write in global voxel space.
type VoxelEdit struct {
	Block world.BlockCoord
	Kind  world.Kind
}

// Coords extracts the coordinates carried by a batch of events.
func Coords[E ~struct{ Coord world.ChunkCoord }](batch []E) []world.ChunkCoord {
	coords := make([]world.ChunkCoord, len(batch))
	for i, e := range batch {
		coords[i] = struct{ Coord world.ChunkCoord }(e).Coord
	}
	return coords
}

// FromCoords wraps each coordinate into an event of type E.
func FromCoords[E ~struct{ Coord world.ChunkCoord }](coords []world.ChunkCoord) []E {
	batch := make([]E, len(coords))
	for i, c := range coords {
		batch[i] = E(struct{ Coord world.ChunkCoord }{Coord: c})
	}
	return batch
}
