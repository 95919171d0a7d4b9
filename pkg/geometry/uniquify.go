package geometry

import (
	"slices"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// UniquifyVertices removes byte-identical vertices from mesh in place and
// returns how many were removed. The compacted buffer keeps one record per
// distinct value, in sorted order, and every group index is remapped. The
// mesh is left untouched when all vertices are already distinct.
func UniquifyVertices(mesh *cmod.Mesh) (int, error) {
	if err := checkLayout(mesh); err != nil {
		return 0, err
	}
	count := mesh.VertexCount()
	if count == 0 {
		return 0, nil
	}
	stride := mesh.Stride()
	data := mesh.VertexData()

	verts := make([]Vertex, count)
	for i := range verts {
		verts[i] = Vertex{Index: uint32(i), Attributes: record(data, stride, uint32(i))}
	}
	slices.SortStableFunc(verts, func(a, b Vertex) int {
		return ExactOrdering(a.Attributes, b.Attributes)
	})

	unique := uint32(1)
	for i := 1; i < len(verts); i++ {
		if !ExactEquivalence(verts[i-1].Attributes, verts[i].Attributes) {
			unique++
		}
	}
	if unique == count {
		return 0, nil
	}

	out := make([]byte, 0, uint64(unique)*uint64(stride))
	vertexMap := make([]uint32, count)
	next := uint32(0)
	for i := range verts {
		if i == 0 || !ExactEquivalence(verts[i-1].Attributes, verts[i].Attributes) {
			out = append(out, verts[i].Attributes...)
			next++
		}
		vertexMap[verts[i].Index] = next - 1
	}

	if err := mesh.SetVertices(unique, out); err != nil {
		panic("geometry: " + err.Error())
	}
	mesh.RemapIndices(vertexMap)
	return int(count - unique), nil
}
