package geometry

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

func TestBuildFaces(t *testing.T) {
	tests := []struct {
		name  string
		group cmod.PrimitiveGroup
		want  [][3]uint32
	}{
		{
			name:  "trilist",
			group: cmod.PrimitiveGroup{Prim: cmod.TriList, Indices: []uint32{0, 1, 2, 2, 1, 3}},
			want:  [][3]uint32{{0, 1, 2}, {2, 1, 3}},
		},
		{
			name:  "tristrip alternates winding",
			group: cmod.PrimitiveGroup{Prim: cmod.TriStrip, Indices: []uint32{0, 1, 2, 3, 4}},
			want:  [][3]uint32{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}},
		},
		{
			name:  "trifan",
			group: cmod.PrimitiveGroup{Prim: cmod.TriFan, Indices: []uint32{0, 1, 2, 3, 4}},
			want:  [][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := BuildFaces([]cmod.PrimitiveGroup{tt.group})
			if err != nil {
				t.Fatalf("BuildFaces: %v", err)
			}
			if len(faces) != len(tt.want) {
				t.Fatalf("got %d faces, want %d", len(faces), len(tt.want))
			}
			for i, f := range faces {
				if f.AttributeIndices != tt.want[i] {
					t.Errorf("face %d = %v, want %v", i, f.AttributeIndices, tt.want[i])
				}
				if f.PositionIndices != f.AttributeIndices {
					t.Errorf("face %d position indices %v differ from attribute indices", i, f.PositionIndices)
				}
			}
		})
	}
}

func TestBuildFaces_GroupOrder(t *testing.T) {
	faces, err := BuildFaces([]cmod.PrimitiveGroup{
		{Prim: cmod.TriList, Indices: []uint32{0, 1, 2}},
		{Prim: cmod.TriFan, Indices: []uint32{3, 4, 5, 6}},
	})
	if err != nil {
		t.Fatalf("BuildFaces: %v", err)
	}
	want := [][3]uint32{{0, 1, 2}, {3, 4, 5}, {3, 5, 6}}
	for i, f := range faces {
		if f.AttributeIndices != want[i] {
			t.Errorf("face %d = %v, want %v", i, f.AttributeIndices, want[i])
		}
	}
}

func TestBuildFaces_Errors(t *testing.T) {
	tests := []struct {
		name  string
		group cmod.PrimitiveGroup
		want  error
	}{
		{"trilist not multiple of 3", cmod.PrimitiveGroup{Prim: cmod.TriList, Indices: []uint32{0, 1, 2, 3}}, ErrInvalidTopology},
		{"empty trilist", cmod.PrimitiveGroup{Prim: cmod.TriList}, ErrInvalidTopology},
		{"short strip", cmod.PrimitiveGroup{Prim: cmod.TriStrip, Indices: []uint32{0, 1}}, ErrInvalidTopology},
		{"short fan", cmod.PrimitiveGroup{Prim: cmod.TriFan, Indices: []uint32{0}}, ErrInvalidTopology},
		{"lines", cmod.PrimitiveGroup{Prim: cmod.LineList, Indices: []uint32{0, 1}}, ErrUnsupportedGeometry},
		{"points", cmod.PrimitiveGroup{Prim: cmod.PointList, Indices: []uint32{0}}, ErrUnsupportedTopology},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildFaces([]cmod.PrimitiveGroup{tt.group})
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFaceNormal(t *testing.T) {
	n := faceNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0, 2, 0})
	if n != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v, want +Z", n)
	}

	n = faceNormal(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2})
	if n != (mgl32.Vec3{}) {
		t.Errorf("degenerate normal = %v, want zero", n)
	}
}

func TestBuildAdjacency(t *testing.T) {
	faces := []Face{
		newFace(0, 1, 2),
		newFace(2, 1, 3),
		newFace(3, 3, 4),
	}
	adj := BuildAdjacency(faces, 6)

	tests := []struct {
		vertex uint32
		want   []uint32
	}{
		{0, []uint32{0}},
		{1, []uint32{0, 1}},
		{2, []uint32{0, 1}},
		{3, []uint32{1, 2, 2}},
		{4, []uint32{2}},
		{5, nil},
	}
	for _, tt := range tests {
		got := adj.Faces(tt.vertex)
		if len(got) != len(tt.want) {
			t.Errorf("vertex %d: faces %v, want %v", tt.vertex, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("vertex %d: faces %v, want %v", tt.vertex, got, tt.want)
				break
			}
		}
	}
}
