package geometry

import (
	"fmt"
	"math"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// NormalOptions controls normal generation.
type NormalOptions struct {
	// SmoothingAngle is the largest angle, in radians, between two face
	// normals that still get averaged together. 0 gives flat shading, Pi
	// smooths everything.
	SmoothingAngle float32
	// Weld merges corners with identical positions before averaging.
	Weld bool
}

// GenerateNormals returns a new mesh with a Float3 Normal attribute. The
// result is a flat triangle list with one vertex per face corner; group
// boundaries and materials are kept. The source mesh is not modified.
func GenerateNormals(mesh *cmod.Mesh, opts NormalOptions) (*cmod.Mesh, error) {
	if err := checkLayout(mesh); err != nil {
		return nil, err
	}
	desc := mesh.VertexDescription()
	pos, err := requireAttribute(desc, cmod.Position, cmod.Float3)
	if err != nil {
		return nil, err
	}

	faces, err := BuildFaces(mesh.Groups())
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, ErrEmptyMesh
	}
	count := mesh.VertexCount()
	if err := checkFaceIndices(faces, count); err != nil {
		return nil, err
	}

	data, stride := mesh.VertexData(), desc.Stride
	for f := range faces {
		i := faces[f].AttributeIndices
		faces[f].Normal = faceNormal(
			readVec3(record(data, stride, i[0]), pos.Offset),
			readVec3(record(data, stride, i[1]), pos.Offset),
			readVec3(record(data, stride, i[2]), pos.Offset),
		)
	}

	if opts.Weld {
		JoinVertices(faces, data, stride, count,
			PositionOrdering(pos.Offset),
			PositionEquivalence(pos.Offset, 0))
	}

	cosAngle := float32(math.Cos(float64(opts.SmoothingAngle)))
	normals := cornerVectors(faces, count, cosAngle)

	out, err := rebuildWithAttribute(mesh, faces, cmod.Normal, normals)
	if err != nil {
		return nil, fmt.Errorf("rebuilding mesh: %w", err)
	}
	return out, nil
}
