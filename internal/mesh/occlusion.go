package mesh

import "voxelengine/internal/world"

// FacesOcclusion flags, per side, whether a voxel face is hidden.
type FacesOcclusion [SideCount]bool

// ChunkOcclusion holds the faces occlusion of every voxel, indexed by world.ToIndex.
type ChunkOcclusion [world.BufferSize]FacesOcclusion

// ComputeOcclusion recomputes the occlusion of every voxel in chunk.
// Empty voxels are fully occluded. A solid voxel side is occluded when its
// neighbor is solid; neighbors outside the chunk are not consulted, so
// faces on the chunk border stay visible.
func ComputeOcclusion(chunk *world.Chunk) *ChunkOcclusion {
	occlusion := new(ChunkOcclusion)
	for voxel := range world.Voxels() {
		faces := &occlusion[world.ToIndex(voxel)]

		if !chunk.Kind(voxel).Solid() {
			*faces = FacesOcclusion{true, true, true, true, true, true}
			continue
		}

		for _, side := range Sides {
			neighbor := voxel.Add(side.Dir())
			if !world.IsWithinBounds(neighbor) {
				// TODO: consult the neighboring chunk once cross-chunk lookups exist.
				continue
			}
			if chunk.Kind(neighbor).Solid() {
				faces[side] = true
			}
		}
	}
	return occlusion
}

// Visible reports whether any side of the voxel at local is unoccluded.
func (o *ChunkOcclusion) Visible(local world.LocalCoord) bool {
	for _, hidden := range o[world.ToIndex(local)] {
		if !hidden {
			return true
		}
	}
	return false
}
