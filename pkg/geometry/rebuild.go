package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

type attributeCopy struct {
	from, to, size uint32
}

// rebuildWithAttribute creates the expanded mesh produced by the
// generators: one vertex per face corner holding the source attributes
// plus a Float3 attribute sem taken from vectors (indexed by corner). Every
// source group becomes a triangle list over its run of corners.
func rebuildWithAttribute(src *cmod.Mesh, faces []Face, sem cmod.VertexAttributeSemantic, vectors []mgl32.Vec3) (*cmod.Mesh, error) {
	oldDesc := src.VertexDescription()
	newDesc := oldDesc.Augment(sem, cmod.Float3)

	var (
		copies []attributeCopy
		target uint32
	)
	for _, a := range newDesc.Attributes {
		if a.Semantic == sem {
			target = a.Offset
			continue
		}
		old, ok := oldDesc.Attribute(a.Semantic)
		if !ok || old.Format != a.Format {
			panic(fmt.Sprintf("geometry: attribute %s lost while augmenting", a.Semantic))
		}
		copies = append(copies, attributeCopy{from: old.Offset, to: a.Offset, size: a.Format.Size()})
	}

	cornerCount := uint32(len(faces) * 3)
	data := make([]byte, uint64(cornerCount)*uint64(newDesc.Stride))
	oldData := src.VertexData()
	for f := range faces {
		for j, idx := range faces[f].AttributeIndices {
			corner := uint32(f*3 + j)
			dst := record(data, newDesc.Stride, corner)
			rec := record(oldData, oldDesc.Stride, idx)
			for _, c := range copies {
				copy(dst[c.to:c.to+c.size], rec[c.from:c.from+c.size])
			}
			putVec3(dst, target, vectors[corner])
		}
	}

	mesh := cmod.NewMesh(newDesc)
	if err := mesh.SetVertices(cornerCount, data); err != nil {
		return nil, err
	}

	var first uint32
	for _, g := range src.Groups() {
		n, err := GroupFaceCount(g)
		if err != nil {
			return nil, err
		}
		indices := make([]uint32, n*3)
		for i := range indices {
			indices[i] = first + uint32(i)
		}
		mesh.AddGroup(cmod.TriList, g.MaterialIndex, indices)
		first += uint32(n * 3)
	}
	if first != cornerCount {
		panic(fmt.Sprintf("geometry: groups cover %d corners, built %d", first, cornerCount))
	}

	return mesh, nil
}

// cornerVectors averages face vectors at every face corner over the faces
// sharing the corner's position vertex.
func cornerVectors(faces []Face, vertexCount uint32, cosThreshold float32) []mgl32.Vec3 {
	adj := BuildAdjacency(faces, vertexCount)
	out := make([]mgl32.Vec3, len(faces)*3)
	for f := range faces {
		for j, v := range faces[f].PositionIndices {
			out[f*3+j] = averageFaceVectors(faces, uint32(f), adj.Faces(v), cosThreshold)
		}
	}
	return out
}
