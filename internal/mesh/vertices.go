package mesh

import "github.com/go-gl/mathgl/mgl32"

// Vertex is a chunk-space position with its face normal.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
}

// ComputeVertices expands every face into its 4 quad vertices.
func ComputeVertices(faces []Face) []Vertex {
	vertices := make([]Vertex, 0, len(faces)*4)
	for _, face := range faces {
		normal := face.Side.Normal()
		for i, v := range face.Vertices {
			offset := mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
			vertices = append(vertices, Vertex{
				Position: face.Side.Corner(i).Add(offset),
				Normal:   normal,
			})
		}
	}
	return vertices
}
