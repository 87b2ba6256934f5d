package mesh

import (
	"reflect"
	"testing"

	"voxelengine/internal/world"
)

func TestComputeIndicesTwoTrianglesPerQuad(t *testing.T) {
	got := ComputeIndices(8)
	want := []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected indices:\nwant: %v\n got: %v", want, got)
	}
	if got := ComputeIndices(3); len(got) != 0 {
		t.Fatalf("partial quad should produce no indices, got %v", got)
	}
}

func TestBuildSingleVoxelMesh(t *testing.T) {
	chunk := world.NewChunk()
	chunk.SetKind(world.LocalCoord{X: 1, Y: 1, Z: 1}, 1)

	m := Build(ComputeVertices(mergeChunk(chunk)))
	if m.VertexCount() != 24 {
		t.Fatalf("expected 24 vertices, got %d", m.VertexCount())
	}
	if len(m.Normals) != 24 {
		t.Fatalf("expected 24 normals, got %d", len(m.Normals))
	}
	if m.TriangleCount() != 12 {
		t.Fatalf("expected 12 triangles, got %d", m.TriangleCount())
	}
	if m.IsEmpty() {
		t.Fatalf("expected non-empty mesh")
	}
}

func TestBuildEmptyChunkMesh(t *testing.T) {
	m := Build(ComputeVertices(mergeChunk(world.NewChunk())))
	if !m.IsEmpty() || m.VertexCount() != 0 {
		t.Fatalf("expected empty mesh, got %d vertices", m.VertexCount())
	}
}
