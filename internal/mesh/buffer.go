package mesh

// Mesh is a triangle-list buffer ready for the rendering backend.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// quadIndices triangulates a quad as (0, 1, 2) and (0, 2, 3), preserving the
// counter-clockwise winding of the quad corners.
var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// ComputeIndices returns the triangle indices for vertexCount quad vertices.
// A trailing partial quad is ignored.
func ComputeIndices(vertexCount int) []uint32 {
	quads := vertexCount / 4
	indices := make([]uint32, 0, quads*len(quadIndices))
	for q := 0; q < quads; q++ {
		base := uint32(q * 4)
		for _, idx := range quadIndices {
			indices = append(indices, base+idx)
		}
	}
	return indices
}

// Build packs vertices into a Mesh.
func Build(vertices []Vertex) *Mesh {
	m := &Mesh{
		Positions: make([][3]float32, 0, len(vertices)),
		Normals:   make([][3]float32, 0, len(vertices)),
		Indices:   ComputeIndices(len(vertices)),
	}
	for _, v := range vertices {
		m.Positions = append(m.Positions, [3]float32(v.Position))
		m.Normals = append(m.Normals, [3]float32(v.Normal))
	}
	return m
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}
