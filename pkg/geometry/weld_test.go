package geometry

import (
	"testing"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

func TestApproxEqual(t *testing.T) {
	tests := []struct {
		x, y, tol float32
		want      bool
	}{
		{1, 1, 0, true},
		{1, 1.0000001, 0, false},
		{0, 0, 0, true},
		{1, 1.000001, 1e-5, true},
		{1, 1.001, 1e-5, false},
		{0, 1e-9, 1e-5, false},
		{-2, -2.00001, 1e-5, true},
	}
	for _, tt := range tests {
		if got := approxEqual(tt.x, tt.y, tt.tol); got != tt.want {
			t.Errorf("approxEqual(%g, %g, %g) = %v, want %v", tt.x, tt.y, tt.tol, got, tt.want)
		}
	}
}

func TestPositionOrdering(t *testing.T) {
	mesh := buildMesh(t, positionDesc(), [][]float32{
		{0, 0, 0},
		{0, 0, 1},
		{0, 1, -5},
		{0, 0, 0},
	})
	order := PositionOrdering(0)

	if c := order(mesh.Vertex(0), mesh.Vertex(1)); c >= 0 {
		t.Errorf("(0,0,0) vs (0,0,1) = %d, want < 0", c)
	}
	if c := order(mesh.Vertex(2), mesh.Vertex(1)); c <= 0 {
		t.Errorf("(0,1,-5) vs (0,0,1) = %d, want > 0", c)
	}
	if c := order(mesh.Vertex(0), mesh.Vertex(3)); c != 0 {
		t.Errorf("equal positions = %d, want 0", c)
	}
}

func TestJoinVertices(t *testing.T) {
	desc := cmod.NewVertexDescription(attr(cmod.Texture0, cmod.Float2), attr(cmod.Position, cmod.Float3))
	mesh := buildMesh(t, desc, [][]float32{
		{0, 0, 1, 0, 0},
		{0, 0, 0, 1, 0},
		{0, 0, 0, 0, 1},
		{9, 9, 0, 1, 0}, // same position as 1, different uv
		{0, 0, 0, 0, 0},
		{5, 5, 0, 0, 1}, // same position as 2
		{7, 7, 3, 3, 3}, // unused
	})
	faces := []Face{newFace(0, 1, 2), newFace(3, 4, 5)}
	pos, _ := desc.Attribute(cmod.Position)

	mergeMap := JoinVertices(faces, mesh.VertexData(), desc.Stride, mesh.VertexCount(),
		PositionOrdering(pos.Offset), PositionEquivalence(pos.Offset, 0))

	want := []uint32{0, 1, 2, 1, 4, 2, 6}
	for i := range want {
		if mergeMap[i] != want[i] {
			t.Errorf("mergeMap[%d] = %d, want %d", i, mergeMap[i], want[i])
		}
	}
	if faces[1].PositionIndices != [3]uint32{1, 4, 2} {
		t.Errorf("face 1 positions = %v, want [1 4 2]", faces[1].PositionIndices)
	}
	if faces[1].AttributeIndices != [3]uint32{3, 4, 5} {
		t.Errorf("face 1 attributes changed: %v", faces[1].AttributeIndices)
	}
}

func TestJoinVertices_TexCoordSeparates(t *testing.T) {
	desc := cmod.NewVertexDescription(attr(cmod.Position, cmod.Float3), attr(cmod.Texture0, cmod.Float2))
	mesh := buildMesh(t, desc, [][]float32{
		{1, 2, 3, 0, 0},
		{1, 2, 3, 0.5, 0},
		{1, 2, 3.00000001, 0, 0},
	})
	faces := []Face{newFace(0, 1, 2)}
	tex, _ := desc.Attribute(cmod.Texture0)

	mergeMap := JoinVertices(faces, mesh.VertexData(), desc.Stride, mesh.VertexCount(),
		PositionTexCoordOrdering(0, tex.Offset),
		PositionTexCoordEquivalence(0, tex.Offset, tangentWeldTolerance))

	if mergeMap[2] != mergeMap[0] {
		t.Errorf("vertex 2 maps to %d, want %d", mergeMap[2], mergeMap[0])
	}
	if mergeMap[1] == mergeMap[0] {
		t.Error("vertices with different texture coordinates were welded")
	}
}
