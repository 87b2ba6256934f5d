package mesh

import "voxelengine/internal/world"

// Face is a rectangle of coplanar, visible, same-kind voxel faces on one side.
// Vertices holds, for each corner of the side's quad, the voxel whose unit cube
// contributes that corner.
type Face struct {
	Side     Side
	Kind     world.Kind
	Vertices [4]world.LocalCoord
}

// Extent returns how many voxels the face spans along its two in-plane axes.
func (f Face) Extent() (width, height int) {
	_, u, v := f.Side.axes()
	minU, maxU := f.bounds(u)
	minV, maxV := f.bounds(v)
	return maxV - minV + 1, maxU - minU + 1
}

func (f Face) bounds(axis int) (lo, hi int) {
	lo = component(f.Vertices[0], axis)
	hi = lo
	for _, v := range f.Vertices[1:] {
		c := component(v, axis)
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return lo, hi
}

// MergeFaces greedily merges the visible faces of chunk into rectangles.
//
// Sides are processed in Sides order and layers along the side's normal axis in
// ascending order. Inside a layer the in-plane grid is scanned u-major: a run is
// grown along v while the kind matches, then along u while the whole run matches.
// Every visible voxel face ends up in exactly one merged face.
func MergeFaces(occlusion *ChunkOcclusion, chunk *world.Chunk) []Face {
	faces := make([]Face, 0)
	mask := make([]world.Kind, world.AxisSize*world.AxisSize)

	for _, side := range Sides {
		normal, u, v := side.axes()
		for layer := 0; layer < world.AxisSize; layer++ {
			var pos [3]int
			pos[normal] = layer
			for i := 0; i < world.AxisSize; i++ {
				for j := 0; j < world.AxisSize; j++ {
					pos[u], pos[v] = i, j
					local := fromComponents(pos)
					if occlusion[world.ToIndex(local)][side] {
						mask[i*world.AxisSize+j] = world.KindEmpty
						continue
					}
					mask[i*world.AxisSize+j] = chunk.Kind(local)
				}
			}
			faces = mergeLayer(faces, mask, side, layer)
		}
	}
	return faces
}

func mergeLayer(faces []Face, mask []world.Kind, side Side, layer int) []Face {
	const n = world.AxisSize
	for idx := 0; idx < n*n; idx++ {
		kind := mask[idx]
		if kind == world.KindEmpty {
			continue
		}
		u0, v0 := idx/n, idx%n

		v1 := v0
		for v1+1 < n && mask[u0*n+v1+1] == kind {
			v1++
		}

		u1 := u0
	grow:
		for u1+1 < n {
			for j := v0; j <= v1; j++ {
				if mask[(u1+1)*n+j] != kind {
					break grow
				}
			}
			u1++
		}

		for i := u0; i <= u1; i++ {
			for j := v0; j <= v1; j++ {
				mask[i*n+j] = world.KindEmpty
			}
		}
		faces = append(faces, newFace(side, kind, layer, u0, u1, v0, v1))
	}
	return faces
}

func newFace(side Side, kind world.Kind, layer, u0, u1, v0, v1 int) Face {
	normal, u, v := side.axes()
	face := Face{Side: side, Kind: kind}
	for i := range face.Vertices {
		corner := cubeCorners[sideCorners[side][i]]
		var pos [3]int
		pos[normal] = layer
		pos[u] = u0
		if corner[u] == 1 {
			pos[u] = u1
		}
		pos[v] = v0
		if corner[v] == 1 {
			pos[v] = v1
		}
		face.Vertices[i] = fromComponents(pos)
	}
	return face
}

func fromComponents(c [3]int) world.LocalCoord {
	return world.LocalCoord{X: c[0], Y: c[1], Z: c[2]}
}

func component(l world.LocalCoord, axis int) int {
	switch axis {
	case 0:
		return l.X
	case 1:
		return l.Y
	default:
		return l.Z
	}
}
