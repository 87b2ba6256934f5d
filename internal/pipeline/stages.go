package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"voxelengine/internal/mesh"
	"voxelengine/internal/world"
)

func (p *Pipeline) computeOcclusion(coord world.ChunkCoord, entry *Entry) error {
	return p.world.View(coord, func(chunk *world.Chunk) error {
		entry.Occlusion = mesh.ComputeOcclusion(chunk)
		return nil
	})
}

func (p *Pipeline) mergeFaces(coord world.ChunkCoord, entry *Entry) error {
	if entry.Occlusion == nil {
		return fmt.Errorf("faces occlusion: %w", errMissingBuffer)
	}
	return p.world.View(coord, func(chunk *world.Chunk) error {
		entry.Faces = mesh.MergeFaces(entry.Occlusion, chunk)
		return nil
	})
}

func (p *Pipeline) computeVertices(_ world.ChunkCoord, entry *Entry) error {
	if entry.Faces == nil {
		return fmt.Errorf("merged faces: %w", errMissingBuffer)
	}
	entry.Vertices = mesh.ComputeVertices(entry.Faces)
	return nil
}

func (p *Pipeline) generateMesh(_ world.ChunkCoord, entry *Entry) error {
	if entry.Vertices == nil {
		return fmt.Errorf("vertices: %w", errMissingBuffer)
	}
	entry.Mesh = mesh.Build(entry.Vertices)
	entry.Handle = uuid.New()
	entry.Generation++
	return nil
}
