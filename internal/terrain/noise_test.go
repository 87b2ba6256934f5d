package terrain

import (
	"context"
	"errors"
	"testing"

	"voxelengine/internal/config"
	"voxelengine/internal/world"
)

func testConfig() config.TerrainConfig {
	return config.TerrainConfig{
		Enabled:    true,
		Seed:       7,
		Frequency:  0.05,
		Amplitude:  6,
		BaseHeight: 8,
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	coord := world.ChunkCoord{X: -1, Y: 0, Z: 2}
	first, second := world.NewChunk(), world.NewChunk()

	if err := NewNoiseGenerator(testConfig()).Generate(context.Background(), coord, first); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := NewNoiseGenerator(testConfig()).Generate(context.Background(), coord, second); err != nil {
		t.Fatalf("generate: %v", err)
	}
	for local := range world.Voxels() {
		if first.Kind(local) != second.Kind(local) {
			t.Fatalf("voxel %v differs between runs", local)
		}
	}
}

func TestGenerateLayersColumns(t *testing.T) {
	gen := NewNoiseGenerator(testConfig())
	coord := world.ChunkCoord{X: 0, Y: 0, Z: 0}
	chunk := world.NewChunk()
	if err := gen.Generate(context.Background(), coord, chunk); err != nil {
		t.Fatalf("generate: %v", err)
	}

	for x := 0; x < world.AxisSize; x++ {
		for z := 0; z < world.AxisSize; z++ {
			surface := gen.SurfaceHeight(x, z)
			for y := 0; y < world.AxisSize; y++ {
				want := columnKind(y, surface)
				if got := chunk.Kind(world.LocalCoord{X: x, Y: y, Z: z}); got != want {
					t.Fatalf("column (%d,%d) y=%d surface=%d: got kind %d want %d", x, z, y, surface, got, want)
				}
			}
		}
	}
}

func TestGenerateHighAndLowChunks(t *testing.T) {
	gen := NewNoiseGenerator(testConfig())

	sky := world.NewChunk()
	if err := gen.Generate(context.Background(), world.ChunkCoord{Y: 4}, sky); err != nil {
		t.Fatalf("generate sky: %v", err)
	}
	if !sky.IsEmpty() {
		t.Fatalf("expected chunk far above the surface to be empty")
	}

	deep := world.NewChunk()
	if err := gen.Generate(context.Background(), world.ChunkCoord{Y: -4}, deep); err != nil {
		t.Fatalf("generate deep: %v", err)
	}
	for local := range world.Voxels() {
		if deep.Kind(local) != KindStone {
			t.Fatalf("expected stone at %v, got %d", local, deep.Kind(local))
		}
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewNoiseGenerator(testConfig()).Generate(ctx, world.ChunkCoord{}, world.NewChunk())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestColumnKind(t *testing.T) {
	tests := []struct {
		y    int
		want world.Kind
	}{
		{y: 11, want: world.KindEmpty},
		{y: 10, want: KindGrass},
		{y: 9, want: KindDirt},
		{y: 8, want: KindDirt},
		{y: 7, want: KindStone},
		{y: -30, want: KindStone},
	}
	for _, tt := range tests {
		if got := columnKind(tt.y, 10); got != tt.want {
			t.Fatalf("columnKind(%d, 10) = %d, want %d", tt.y, got, tt.want)
		}
	}
}
