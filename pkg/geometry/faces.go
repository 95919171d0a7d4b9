package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// Face is one triangle of a mesh being processed.
type Face struct {
	// AttributeIndices index the source vertex buffer.
	AttributeIndices [3]uint32
	// PositionIndices drive adjacency. They equal AttributeIndices unless
	// the vertices were welded.
	PositionIndices [3]uint32
	// Normal is the face normal, or the face tangent during tangent
	// generation.
	Normal mgl32.Vec3
}

// GroupFaceCount returns the number of triangles a primitive group
// decomposes into.
func GroupFaceCount(g cmod.PrimitiveGroup) (int, error) {
	n := len(g.Indices)
	switch g.Prim {
	case cmod.TriList:
		if n < 3 || n%3 != 0 {
			return 0, fmt.Errorf("%w: triangle list with %d indices", ErrInvalidTopology, n)
		}
		return n / 3, nil
	case cmod.TriStrip, cmod.TriFan:
		if n < 3 {
			return 0, fmt.Errorf("%w: %s with %d indices", ErrInvalidTopology, g.Prim, n)
		}
		return n - 2, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedTopology, g.Prim)
	}
}

// BuildFaces decomposes triangle lists, strips and fans into one face per
// triangle, in group order. Strip triangles alternate their first two
// corners so every face keeps the strip's winding.
func BuildFaces(groups []cmod.PrimitiveGroup) ([]Face, error) {
	total := 0
	for i, g := range groups {
		n, err := GroupFaceCount(g)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		total += n
	}

	faces := make([]Face, 0, total)
	for _, g := range groups {
		idx := g.Indices
		switch g.Prim {
		case cmod.TriList:
			for j := 0; j+2 < len(idx); j += 3 {
				faces = append(faces, newFace(idx[j], idx[j+1], idx[j+2]))
			}
		case cmod.TriStrip:
			for j := 2; j < len(idx); j++ {
				if j%2 == 0 {
					faces = append(faces, newFace(idx[j-2], idx[j-1], idx[j]))
				} else {
					faces = append(faces, newFace(idx[j-1], idx[j-2], idx[j]))
				}
			}
		case cmod.TriFan:
			for j := 2; j < len(idx); j++ {
				faces = append(faces, newFace(idx[0], idx[j-1], idx[j]))
			}
		}
	}

	if len(faces) != total {
		panic(fmt.Sprintf("geometry: built %d faces, counted %d", len(faces), total))
	}
	return faces, nil
}

func newFace(i0, i1, i2 uint32) Face {
	f := Face{AttributeIndices: [3]uint32{i0, i1, i2}}
	f.PositionIndices = f.AttributeIndices
	return f
}

// checkFaceIndices verifies every face corner refers to an existing vertex.
func checkFaceIndices(faces []Face, vertexCount uint32) error {
	for f := range faces {
		for _, idx := range faces[f].AttributeIndices {
			if idx >= vertexCount {
				return fmt.Errorf("%w: face %d uses vertex %d of %d", ErrIndexOutOfRange, f, idx, vertexCount)
			}
		}
	}
	return nil
}

// faceNormal returns the unit normal of triangle (p0, p1, p2), or the zero
// vector for a degenerate triangle.
func faceNormal(p0, p1, p2 mgl32.Vec3) mgl32.Vec3 {
	n := p1.Sub(p0).Cross(p2.Sub(p1))
	if n.LenSqr() > 0 {
		n = n.Normalize()
	}
	return n
}
