package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxelengine/internal/mesh"
	"voxelengine/internal/world"
)

// Artifact is a committed chunk mesh handed to the rendering backend. Each
// upload replaces whatever the backend holds for the same coordinate.
type Artifact struct {
	Coord      world.ChunkCoord
	Handle     uuid.UUID
	Generation uint64
	Transform  mgl32.Mat4
	Mesh       *mesh.Mesh
}

// MeshSink is the rendering boundary. Calls arrive sequentially from the
// pipeline cycle.
type MeshSink interface {
	Upload(artifact Artifact)
	Release(coord world.ChunkCoord, handle uuid.UUID)
}

// DiscardSink drops every artifact.
type DiscardSink struct{}

func (DiscardSink) Upload(Artifact) {}

func (DiscardSink) Release(world.ChunkCoord, uuid.UUID) {}
