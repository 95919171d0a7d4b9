package main

import (
	"testing"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

func TestPrimitiveStats(t *testing.T) {
	mesh := cmod.NewMesh(cmod.NewVertexDescription(cmod.VertexAttribute{Semantic: cmod.Position, Format: cmod.Float3}))
	if err := mesh.SetVertices(3, make([]byte, 3*12)); err != nil {
		t.Fatal(err)
	}
	// Fans, points and lists tie at two groups; strips appear once.
	mesh.AddGroup(cmod.TriFan, 0, []uint32{0, 1, 2})
	mesh.AddGroup(cmod.PointList, 0, []uint32{0})
	mesh.AddGroup(cmod.TriStrip, 0, []uint32{0, 1, 2})
	mesh.AddGroup(cmod.TriList, 0, []uint32{0, 1, 2})
	mesh.AddGroup(cmod.PointList, 0, []uint32{1, 2})
	mesh.AddGroup(cmod.TriFan, 0, []uint32{2, 1, 0})
	mesh.AddGroup(cmod.TriList, 0, []uint32{2, 1, 0})
	model := &cmod.Model{}
	model.AddMesh(mesh)

	want := []primStat{
		{cmod.TriList, 2},
		{cmod.TriFan, 2},
		{cmod.PointList, 2},
		{cmod.TriStrip, 1},
	}

	// Map iteration order varies, so repeat to catch unstable ties.
	for run := 0; run < 20; run++ {
		stats, indices := primitiveStats(model)
		if indices != 18 {
			t.Fatalf("indices = %d, want 18", indices)
		}
		if len(stats) != len(want) {
			t.Fatalf("got %d primitive types, want %d", len(stats), len(want))
		}
		for i := range want {
			if stats[i] != want[i] {
				t.Fatalf("run %d: stats = %v, want %v", run, stats, want)
			}
		}
	}
}
