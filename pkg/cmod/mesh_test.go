package cmod

import (
	"errors"
	"testing"
)

func TestMesh_SetVertices(t *testing.T) {
	mesh := NewMesh(NewVertexDescription(attr(Position, Float3)))

	if err := mesh.SetVertices(2, make([]byte, 24)); err != nil {
		t.Fatalf("SetVertices: %v", err)
	}
	if mesh.VertexCount() != 2 {
		t.Errorf("vertex count = %d, want 2", mesh.VertexCount())
	}

	err := mesh.SetVertices(3, make([]byte, 24))
	if !errors.Is(err, ErrVertexDataSize) {
		t.Errorf("got %v, want ErrVertexDataSize", err)
	}
	if mesh.VertexCount() != 2 {
		t.Error("failed SetVertices changed the mesh")
	}
}

func TestMesh_RemapIndices(t *testing.T) {
	mesh := NewMesh(NewVertexDescription(attr(Color0, UByte4)))
	mesh.AddGroup(TriList, 0, []uint32{0, 1, 2})
	mesh.AddGroup(TriFan, 1, []uint32{2, 3, 1})

	mesh.RemapIndices([]uint32{0, 0, 1, 2})

	want := [][]uint32{{0, 0, 1}, {1, 2, 0}}
	for g, group := range mesh.Groups() {
		for i, idx := range group.Indices {
			if idx != want[g][i] {
				t.Errorf("group %d index %d = %d, want %d", g, i, idx, want[g][i])
			}
		}
	}
}

func TestMesh_Validate(t *testing.T) {
	mesh := NewMesh(NewVertexDescription(attr(Color0, UByte4)))
	if err := mesh.SetVertices(3, make([]byte, 12)); err != nil {
		t.Fatal(err)
	}
	mesh.AddGroup(TriList, 0, []uint32{0, 1, 2})
	if err := mesh.Validate(); err != nil {
		t.Errorf("valid mesh: %v", err)
	}

	mesh.AddGroup(TriList, 0, []uint32{0, 1, 3})
	if err := mesh.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}

	mesh.ClearGroups()
	mesh.AddGroup(PrimitiveGroupType(42), 0, nil)
	if err := mesh.Validate(); !errors.Is(err, ErrInvalidPrimType) {
		t.Errorf("got %v, want ErrInvalidPrimType", err)
	}
}

func TestMesh_VertexDescriptionIsCopy(t *testing.T) {
	mesh := NewMesh(NewVertexDescription(attr(Position, Float3)))
	desc := mesh.VertexDescription()
	desc.Attributes[0].Semantic = Normal

	if a := mesh.VertexDescription().Attributes[0]; a.Semantic != Position {
		t.Errorf("mesh layout changed through returned copy: %s", a.Semantic)
	}
}
