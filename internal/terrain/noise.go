// Package terrain fills freshly loaded chunks from a seeded height field.
package terrain

import (
	"context"

	"github.com/ojrac/opensimplex-go"

	"voxelengine/internal/config"
	"voxelengine/internal/world"
)

// Kinds written by the generator.
const (
	KindStone world.Kind = 1
	KindDirt  world.Kind = 2
	KindGrass world.Kind = 3
)

const (
	octaves     = 4
	persistence = 0.5
	lacunarity  = 2.0
	topsoil     = 3 // dirt layers under the grass
)

// NoiseGenerator creates repeatable terrain from layered simplex noise.
type NoiseGenerator struct {
	cfg   config.TerrainConfig
	noise opensimplex.Noise32
}

func NewNoiseGenerator(cfg config.TerrainConfig) *NoiseGenerator {
	return &NoiseGenerator{
		cfg:   cfg,
		noise: opensimplex.New32(cfg.Seed),
	}
}

// Generate writes grass at the surface, dirt below it and stone underneath.
// Columns are independent, so a chunk at any height agrees with its
// neighbors above and below.
func (g *NoiseGenerator) Generate(ctx context.Context, coord world.ChunkCoord, chunk *world.Chunk) error {
	origin := world.BlockCoord{
		X: coord.X * world.AxisSize,
		Y: coord.Y * world.AxisSize,
		Z: coord.Z * world.AxisSize,
	}
	for x := 0; x < world.AxisSize; x++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for z := 0; z < world.AxisSize; z++ {
			surface := g.SurfaceHeight(origin.X+x, origin.Z+z)
			for y := 0; y < world.AxisSize; y++ {
				kind := columnKind(origin.Y+y, surface)
				if kind == world.KindEmpty {
					break
				}
				chunk.SetKind(world.LocalCoord{X: x, Y: y, Z: z}, kind)
			}
		}
	}
	return nil
}

// SurfaceHeight returns the world Y of the topmost solid voxel of a column.
func (g *NoiseGenerator) SurfaceHeight(x, z int) int {
	return g.cfg.BaseHeight + int(g.fractalNoise(float32(x), float32(z))*float32(g.cfg.Amplitude))
}

func columnKind(y, surface int) world.Kind {
	switch {
	case y > surface:
		return world.KindEmpty
	case y == surface:
		return KindGrass
	case y > surface-topsoil:
		return KindDirt
	default:
		return KindStone
	}
}

func (g *NoiseGenerator) fractalNoise(x, z float32) float32 {
	frequency := float32(g.cfg.Frequency)
	amplitude := float32(1)
	sum := float32(0)
	maxAmplitude := float32(0)

	for i := 0; i < octaves; i++ {
		sum += g.noise.Eval2(x*frequency, z*frequency) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	return sum / maxAmplitude
}
