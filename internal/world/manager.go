package world

import (
	"context"
	"fmt"
	"log"
)

// Generator describes terrain population for freshly loaded chunks.
type Generator interface {
	Generate(ctx context.Context, coord ChunkCoord, chunk *Chunk) error
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, coord ChunkCoord, chunk *Chunk) error

func (f GeneratorFunc) Generate(ctx context.Context, coord ChunkCoord, chunk *Chunk) error {
	return f(ctx, coord, chunk)
}

// EmptyGenerator leaves new chunks filled with KindEmpty.
var EmptyGenerator Generator = GeneratorFunc(func(context.Context, ChunkCoord, *Chunk) error {
	return nil
})

// Edit is a single voxel write addressed in global voxel space.
type Edit struct {
	Block BlockCoord
	Kind  Kind
}

// Manager resolves load, unload and edit commands against the World.
type Manager struct {
	world     *World
	generator Generator
	logger    *log.Logger
}

func NewManager(world *World, generator Generator, logger *log.Logger) *Manager {
	if generator == nil {
		generator = EmptyGenerator
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		world:     world,
		generator: generator,
		logger:    logger,
	}
}

func (m *Manager) World() *World {
	return m.world
}

// Load generates and stores a chunk per coordinate. Coordinates that are
// already present or fail to generate are returned as rejected.
func (m *Manager) Load(ctx context.Context, coords []ChunkCoord) (loaded, rejected []ChunkCoord) {
	for _, coord := range coords {
		if err := m.load(ctx, coord); err != nil {
			m.logger.Printf("load chunk %v rejected: %v", coord, err)
			rejected = append(rejected, coord)
			continue
		}
		loaded = append(loaded, coord)
	}
	return loaded, rejected
}

func (m *Manager) load(ctx context.Context, coord ChunkCoord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.world.Contains(coord) {
		return fmt.Errorf("load chunk %v: %w", coord, ErrAlreadyLoaded)
	}
	chunk := NewChunk()
	if err := m.generator.Generate(ctx, coord, chunk); err != nil {
		return fmt.Errorf("generate chunk %v: %w", coord, err)
	}
	return m.world.Insert(coord, chunk)
}

// Unload removes every present coordinate and returns the ones actually removed.
func (m *Manager) Unload(coords []ChunkCoord) []ChunkCoord {
	unloaded := make([]ChunkCoord, 0, len(coords))
	for _, coord := range coords {
		if _, ok := m.world.Remove(coord); !ok {
			m.logger.Printf("unload chunk %v skipped: %v", coord, ErrNotFound)
			continue
		}
		unloaded = append(unloaded, coord)
	}
	return unloaded
}

// Apply writes edits and returns each touched chunk once, in first-touch order.
func (m *Manager) Apply(edits []Edit) []ChunkCoord {
	touched := make([]ChunkCoord, 0)
	seen := make(map[ChunkCoord]struct{})
	for _, edit := range edits {
		coord, err := m.setVoxel(edit.Block, edit.Kind)
		if err != nil {
			m.logger.Printf("voxel edit %v skipped: %v", edit.Block, err)
			continue
		}
		if _, ok := seen[coord]; ok {
			continue
		}
		seen[coord] = struct{}{}
		touched = append(touched, coord)
	}
	return touched
}

// SetVoxel writes a single voxel. The owning chunk must be loaded.
func (m *Manager) SetVoxel(block BlockCoord, kind Kind) error {
	_, err := m.setVoxel(block, kind)
	return err
}

func (m *Manager) setVoxel(block BlockCoord, kind Kind) (ChunkCoord, error) {
	coord, local := LocateBlock(block)
	err := m.world.Update(coord, func(chunk *Chunk) error {
		return chunk.SetKindChecked(local, kind)
	})
	return coord, err
}

// Voxel reads a single voxel from a loaded chunk.
func (m *Manager) Voxel(block BlockCoord) (Kind, error) {
	coord, local := LocateBlock(block)
	kind := KindEmpty
	err := m.world.View(coord, func(chunk *Chunk) error {
		var readErr error
		kind, readErr = chunk.KindChecked(local)
		return readErr
	})
	return kind, err
}
