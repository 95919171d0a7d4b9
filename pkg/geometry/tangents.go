package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// tangentWeldTolerance is the relative tolerance on position and texture
// coordinate when welding before tangent generation.
const tangentWeldTolerance = 1e-5

// TangentOptions controls tangent generation.
type TangentOptions struct {
	// Weld merges corners with matching position and texture coordinate
	// before averaging.
	Weld bool
}

// GenerateTangents returns a new mesh with a Float3 Tangent attribute
// computed from position and Texture0 derivatives. The mesh must carry
// Float3 positions and normals and Float2 texture coordinates, and must
// consist of triangle lists only. The result has one vertex per face
// corner; the source mesh is not modified.
func GenerateTangents(mesh *cmod.Mesh, opts TangentOptions) (*cmod.Mesh, error) {
	if err := checkLayout(mesh); err != nil {
		return nil, err
	}
	desc := mesh.VertexDescription()
	pos, err := requireAttribute(desc, cmod.Position, cmod.Float3)
	if err != nil {
		return nil, err
	}
	if _, err := requireAttribute(desc, cmod.Normal, cmod.Float3); err != nil {
		return nil, err
	}
	tex, err := requireAttribute(desc, cmod.Texture0, cmod.Float2)
	if err != nil {
		return nil, err
	}

	for i, g := range mesh.Groups() {
		if g.Prim != cmod.TriList {
			return nil, fmt.Errorf("group %d: %w: %s, convert to triangle lists first", i, ErrUnsupportedGeometry, g.Prim)
		}
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
		var (
			p  [3]mgl32.Vec3
			uv [3]mgl32.Vec2
		)
		for k, idx := range faces[f].AttributeIndices {
			rec := record(data, stride, idx)
			p[k] = readVec3(rec, pos.Offset)
			uv[k] = readVec2(rec, tex.Offset)
		}
		faces[f].Normal = faceTangent(p, uv)
	}

	if opts.Weld {
		JoinVertices(faces, data, stride, count,
			PositionTexCoordOrdering(pos.Offset, tex.Offset),
			PositionTexCoordEquivalence(pos.Offset, tex.Offset, tangentWeldTolerance))
	}

	// Every incident face contributes, whatever its direction.
	tangents := cornerVectors(faces, count, float32(math.Inf(-1)))

	out, err := rebuildWithAttribute(mesh, faces, cmod.Tangent, tangents)
	if err != nil {
		return nil, fmt.Errorf("rebuilding mesh: %w", err)
	}
	return out, nil
}

// faceTangent returns the unnormalized tangent of a triangle, or zero when
// the texture mapping is degenerate.
func faceTangent(p [3]mgl32.Vec3, uv [3]mgl32.Vec2) mgl32.Vec3 {
	s1 := uv[1].X() - uv[0].X()
	s2 := uv[2].X() - uv[0].X()
	t1 := uv[1].Y() - uv[0].Y()
	t2 := uv[2].Y() - uv[0].Y()
	a := s1*t2 - s2*t1
	if a == 0 {
		return mgl32.Vec3{}
	}
	return p[1].Sub(p[0]).Mul(t2).Sub(p[2].Sub(p[0]).Mul(t1)).Mul(1 / a)
}
