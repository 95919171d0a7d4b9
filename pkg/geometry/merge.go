package geometry

import (
	"slices"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// MergeMeshes concatenates meshes sharing a vertex description into one
// mesh per distinct description. Within a class, vertex buffers and groups
// keep their original order; group indices are shifted by the number of
// vertices preceding their mesh. Empty groups are dropped. The inputs are
// not modified.
func MergeMeshes(meshes []*cmod.Mesh) []*cmod.Mesh {
	sorted := slices.Clone(meshes)
	slices.SortStableFunc(sorted, func(a, b *cmod.Mesh) int {
		return a.VertexDescription().Compare(b.VertexDescription())
	})

	var merged []*cmod.Mesh
	for start := 0; start < len(sorted); {
		desc := sorted[start].VertexDescription()
		end := start + 1
		for end < len(sorted) && desc.Equal(sorted[end].VertexDescription()) {
			end++
		}
		merged = append(merged, mergeRun(desc, sorted[start:end]))
		start = end
	}
	return merged
}

func mergeRun(desc cmod.VertexDescription, run []*cmod.Mesh) *cmod.Mesh {
	var total uint32
	size := 0
	for _, m := range run {
		total += m.VertexCount()
		size += len(m.VertexData())
	}

	data := make([]byte, 0, size)
	out := cmod.NewMesh(desc)
	var offset uint32
	for _, m := range run {
		data = append(data, m.VertexData()...)
		for _, g := range m.Groups() {
			if len(g.Indices) == 0 {
				continue
			}
			indices := make([]uint32, len(g.Indices))
			for i, idx := range g.Indices {
				indices[i] = idx + offset
			}
			out.AddGroup(g.Prim, g.MaterialIndex, indices)
		}
		offset += m.VertexCount()
	}

	if err := out.SetVertices(total, data); err != nil {
		panic("geometry: " + err.Error())
	}
	return out
}

// MergeModelMeshes returns a model with model's materials and its meshes
// merged by vertex description.
func MergeModelMeshes(model *cmod.Model) *cmod.Model {
	return model.WithMeshes(MergeMeshes(model.Meshes))
}
