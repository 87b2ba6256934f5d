package world

import (
	"fmt"
	"iter"
)

// Kind enumerates voxel materials. KindEmpty is air; any other value is solid.
type Kind uint8

const KindEmpty Kind = 0

// Solid reports whether the kind blocks neighboring faces.
func (k Kind) Solid() bool {
	return k != KindEmpty
}

// Chunk stores a dense voxel grid of AxisSize³ kinds.
type Chunk struct {
	kinds [BufferSize]Kind
}

// NewChunk returns an all-empty chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Kind returns the voxel kind at local. The caller guarantees IsWithinBounds(local).
func (c *Chunk) Kind(local LocalCoord) Kind {
	return c.kinds[ToIndex(local)]
}

// SetKind writes the voxel kind at local. The caller guarantees IsWithinBounds(local).
func (c *Chunk) SetKind(local LocalCoord, kind Kind) {
	c.kinds[ToIndex(local)] = kind
}

// KindChecked is the validating variant of Kind.
func (c *Chunk) KindChecked(local LocalCoord) (Kind, error) {
	if !IsWithinBounds(local) {
		return KindEmpty, fmt.Errorf("read voxel %v: %w", local, ErrOutOfBounds)
	}
	return c.Kind(local), nil
}

// SetKindChecked is the validating variant of SetKind.
func (c *Chunk) SetKindChecked(local LocalCoord, kind Kind) error {
	if !IsWithinBounds(local) {
		return fmt.Errorf("write voxel %v: %w", local, ErrOutOfBounds)
	}
	c.SetKind(local, kind)
	return nil
}

// KindAt returns the voxel kind stored at a raw buffer index.
func (c *Chunk) KindAt(index int) Kind {
	return c.kinds[index]
}

// Fill sets every voxel to kind.
func (c *Chunk) Fill(kind Kind) {
	for i := range c.kinds {
		c.kinds[i] = kind
	}
}

// IsEmpty reports whether the chunk holds no solid voxel.
func (c *Chunk) IsEmpty() bool {
	for _, k := range c.kinds {
		if k.Solid() {
			return false
		}
	}
	return true
}

// Voxels yields every local coordinate of a chunk in buffer index order.
func Voxels() iter.Seq[LocalCoord] {
	return func(yield func(LocalCoord) bool) {
		for i := 0; i < BufferSize; i++ {
			if !yield(ToXYZ(i)) {
				return
			}
		}
	}
}
