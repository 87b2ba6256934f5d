package pipeline

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxelengine/internal/mesh"
	"voxelengine/internal/world"
)

// Entry holds the build state of a loaded chunk: transient per-rebuild buffers
// plus the last committed mesh.
type Entry struct {
	Coord     world.ChunkCoord
	Transform mgl32.Mat4

	Occlusion *mesh.ChunkOcclusion
	Faces     []mesh.Face
	Vertices  []mesh.Vertex

	Mesh       *mesh.Mesh
	Handle     uuid.UUID
	Generation uint64
}

func newEntry(coord world.ChunkCoord) *Entry {
	origin := world.ToWorld(coord)
	return &Entry{
		Coord:     coord,
		Transform: mgl32.Translate3D(origin.X(), origin.Y(), origin.Z()),
	}
}

// resetBuild discards the intermediate buffers. The committed mesh stays.
func (e *Entry) resetBuild() {
	e.Occlusion = nil
	e.Faces = nil
	e.Vertices = nil
}

// Building reports whether any intermediate buffer is still held.
func (e *Entry) Building() bool {
	return e.Occlusion != nil || e.Faces != nil || e.Vertices != nil
}

// Registry maps chunk coordinates to their build entries.
type Registry struct {
	mu      sync.RWMutex
	entries map[world.ChunkCoord]*Entry
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[world.ChunkCoord]*Entry),
	}
}

func (r *Registry) Spawn(coord world.ChunkCoord) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[coord]; exists {
		return nil, fmt.Errorf("registry entry %v: %w", coord, world.ErrAlreadyLoaded)
	}
	entry := newEntry(coord)
	r.entries[coord] = entry
	return entry, nil
}

func (r *Registry) Despawn(coord world.ChunkCoord) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[coord]
	if !ok {
		return nil, false
	}
	delete(r.entries, coord)
	return entry, true
}

func (r *Registry) Get(coord world.ChunkCoord) (*Entry, bool) {
	r.mu.RLock()
	entry, ok := r.entries[coord]
	r.mu.RUnlock()
	return entry, ok
}

// lookup is Get with a NotFound error for stage bookkeeping.
func (r *Registry) lookup(coord world.ChunkCoord) (*Entry, error) {
	entry, ok := r.Get(coord)
	if !ok {
		return nil, fmt.Errorf("registry entry %v: %w", coord, world.ErrNotFound)
	}
	return entry, nil
}

// Coords returns the registered coordinates ordered x-major, then y, then z.
func (r *Registry) Coords() []world.ChunkCoord {
	r.mu.RLock()
	coords := make([]world.ChunkCoord, 0, len(r.entries))
	for coord := range r.entries {
		coords = append(coords, coord)
	}
	r.mu.RUnlock()
	world.SortCoords(coords)
	return coords
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
