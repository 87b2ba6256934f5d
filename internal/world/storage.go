package world

import (
	"fmt"
	"slices"
	"sync"
)

// World owns every loaded chunk keyed by its chunk coordinate.
// Readers take shared access through View, writers exclusive access through Update.
type World struct {
	mu     sync.RWMutex
	chunks map[ChunkCoord]*Chunk
}

func NewWorld() *World {
	return &World{
		chunks: make(map[ChunkCoord]*Chunk),
	}
}

// Add inserts an all-empty chunk at coord.
func (w *World) Add(coord ChunkCoord) error {
	return w.Insert(coord, NewChunk())
}

// Insert stores chunk at coord. Existing chunks are never overwritten.
func (w *World) Insert(coord ChunkCoord, chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("insert chunk %v: nil chunk", coord)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[coord]; ok {
		return fmt.Errorf("insert chunk %v: %w", coord, ErrAlreadyLoaded)
	}
	w.chunks[coord] = chunk
	return nil
}

// Remove detaches and returns the chunk at coord.
func (w *World) Remove(coord ChunkCoord) (*Chunk, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	chunk, ok := w.chunks[coord]
	if !ok {
		return nil, false
	}
	delete(w.chunks, coord)
	return chunk, true
}

// Get returns the chunk at coord. Mutating the returned chunk while a meshing
// cycle runs is a data race; use Update instead.
func (w *World) Get(coord ChunkCoord) (*Chunk, bool) {
	w.mu.RLock()
	chunk, ok := w.chunks[coord]
	w.mu.RUnlock()
	return chunk, ok
}

// Contains reports whether a chunk is loaded at coord.
func (w *World) Contains(coord ChunkCoord) bool {
	_, ok := w.Get(coord)
	return ok
}

// View runs fn with shared access to the chunk at coord.
func (w *World) View(coord ChunkCoord, fn func(*Chunk) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	chunk, ok := w.chunks[coord]
	if !ok {
		return fmt.Errorf("chunk %v: %w", coord, ErrNotFound)
	}
	return fn(chunk)
}

// Update runs fn with exclusive access to the chunk at coord.
func (w *World) Update(coord ChunkCoord, fn func(*Chunk) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	chunk, ok := w.chunks[coord]
	if !ok {
		return fmt.Errorf("chunk %v: %w", coord, ErrNotFound)
	}
	return fn(chunk)
}

// Coords returns the loaded coordinates ordered x-major, then y, then z.
func (w *World) Coords() []ChunkCoord {
	w.mu.RLock()
	coords := make([]ChunkCoord, 0, len(w.chunks))
	for coord := range w.chunks {
		coords = append(coords, coord)
	}
	w.mu.RUnlock()
	SortCoords(coords)
	return coords
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// SortCoords orders coords x-major, then y, then z.
func SortCoords(coords []ChunkCoord) {
	slices.SortFunc(coords, func(a, b ChunkCoord) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
