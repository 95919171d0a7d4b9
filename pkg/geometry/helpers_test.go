package geometry

import (
	"encoding/binary"
	"math"
	"math/bits"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

func attr(sem cmod.VertexAttributeSemantic, format cmod.VertexAttributeFormat) cmod.VertexAttribute {
	return cmod.VertexAttribute{Semantic: sem, Format: format}
}

// buildMesh creates a mesh whose records are the given float values
// written back to back.
func buildMesh(t *testing.T, desc cmod.VertexDescription, verts [][]float32) *cmod.Mesh {
	t.Helper()
	data := make([]byte, 0, len(verts)*int(desc.Stride))
	for _, v := range verts {
		for _, f := range v {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
	}
	mesh := cmod.NewMesh(desc)
	if err := mesh.SetVertices(uint32(len(verts)), data); err != nil {
		t.Fatalf("SetVertices: %v", err)
	}
	return mesh
}

// buildByteMesh creates a mesh with one UByte4 color per vertex.
func buildByteMesh(t *testing.T, colors [][4]byte) *cmod.Mesh {
	t.Helper()
	data := make([]byte, 0, len(colors)*4)
	for _, c := range colors {
		data = append(data, c[:]...)
	}
	mesh := cmod.NewMesh(cmod.NewVertexDescription(attr(cmod.Color0, cmod.UByte4)))
	if err := mesh.SetVertices(uint32(len(colors)), data); err != nil {
		t.Fatalf("SetVertices: %v", err)
	}
	return mesh
}

// shortStrideMesh returns a triangle whose Float3 position runs past the
// 8 byte stride of its layout.
func shortStrideMesh(t *testing.T) *cmod.Mesh {
	t.Helper()
	desc := cmod.VertexDescription{
		Stride:     8,
		Attributes: []cmod.VertexAttribute{{Semantic: cmod.Position, Format: cmod.Float3}},
	}
	mesh := cmod.NewMesh(desc)
	if err := mesh.SetVertices(3, make([]byte, 3*8)); err != nil {
		t.Fatalf("SetVertices: %v", err)
	}
	mesh.AddGroup(cmod.TriList, 0, []uint32{0, 1, 2})
	return mesh
}

func uniquify(t *testing.T, mesh *cmod.Mesh) int {
	t.Helper()
	removed, err := UniquifyVertices(mesh)
	if err != nil {
		t.Fatalf("UniquifyVertices: %v", err)
	}
	return removed
}

func sequence(n int) []uint32 {
	s := make([]uint32, n)
	for i := range s {
		s[i] = uint32(i)
	}
	return s
}

func vec3Near(a, b mgl32.Vec3, tol float32) bool {
	return a.ApproxEqualThreshold(b, tol)
}

func isFinite(v mgl32.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

// cubeCorner returns corner i of the cube [-1, 1]^3; bit k of i selects
// the sign of coordinate k.
func cubeCorner(i uint32) mgl32.Vec3 {
	var p mgl32.Vec3
	for k := range p {
		p[k] = float32(int(i>>k&1)*2 - 1)
	}
	return p
}

// cubeTriangles splits every cube face along the diagonal joining its two
// corners with an even number of set bits, wound outwards.
func cubeTriangles() [][3]uint32 {
	var tris [][3]uint32
	for axis := 0; axis < 3; axis++ {
		for side := uint32(0); side < 2; side++ {
			var even, odd []uint32
			for c := uint32(0); c < 8; c++ {
				if c>>axis&1 != side {
					continue
				}
				if bits.OnesCount32(c)%2 == 0 {
					even = append(even, c)
				} else {
					odd = append(odd, c)
				}
			}
			var outward mgl32.Vec3
			outward[axis] = float32(int(side)*2 - 1)
			for _, o := range odd {
				tri := [3]uint32{even[0], o, even[1]}
				n := faceNormal(cubeCorner(tri[0]), cubeCorner(tri[1]), cubeCorner(tri[2]))
				if n.Dot(outward) < 0 {
					tri[1], tri[2] = tri[2], tri[1]
				}
				tris = append(tris, tri)
			}
		}
	}
	return tris
}

func positionDesc() cmod.VertexDescription {
	return cmod.NewVertexDescription(attr(cmod.Position, cmod.Float3))
}

// sharedCube has 8 vertices shared by 12 triangles.
func sharedCube(t *testing.T) *cmod.Mesh {
	t.Helper()
	verts := make([][]float32, 8)
	for i := range verts {
		p := cubeCorner(uint32(i))
		verts[i] = p[:]
	}
	mesh := buildMesh(t, positionDesc(), verts)
	var indices []uint32
	for _, tri := range cubeTriangles() {
		indices = append(indices, tri[:]...)
	}
	mesh.AddGroup(cmod.TriList, 0, indices)
	return mesh
}

// splitCube has a separate vertex for each of the 36 triangle corners.
func splitCube(t *testing.T) *cmod.Mesh {
	t.Helper()
	var verts [][]float32
	for _, tri := range cubeTriangles() {
		for _, c := range tri {
			p := cubeCorner(c)
			verts = append(verts, p[:])
		}
	}
	mesh := buildMesh(t, positionDesc(), verts)
	mesh.AddGroup(cmod.TriList, 0, sequence(36))
	return mesh
}

func attributeVec3(t *testing.T, mesh *cmod.Mesh, sem cmod.VertexAttributeSemantic, i uint32) mgl32.Vec3 {
	t.Helper()
	a, ok := mesh.VertexDescription().Attribute(sem)
	if !ok {
		t.Fatalf("mesh has no %s attribute", sem)
	}
	return readVec3(mesh.Vertex(i), a.Offset)
}

// renderedGroup is what a renderer sees for a primitive group: its topology,
// material and the record behind each index.
type renderedGroup struct {
	prim     cmod.PrimitiveGroupType
	material uint32
	records  []byte
}

func render(meshes ...*cmod.Mesh) []renderedGroup {
	var out []renderedGroup
	for _, m := range meshes {
		for _, g := range m.Groups() {
			rg := renderedGroup{prim: g.Prim, material: g.MaterialIndex}
			for _, idx := range g.Indices {
				rg.records = append(rg.records, m.Vertex(idx)...)
			}
			out = append(out, rg)
		}
	}
	return out
}

func renderedEqual(a, b []renderedGroup) bool {
	return slices.EqualFunc(a, b, func(x, y renderedGroup) bool {
		return x.prim == y.prim && x.material == y.material && slices.Equal(x.records, y.records)
	})
}

// canonicalTriangles returns the triangles of groups, each rotated to start
// at its smallest index, sorted.
func canonicalTriangles(t *testing.T, groups []cmod.PrimitiveGroup) [][3]uint32 {
	t.Helper()
	faces, err := BuildFaces(groups)
	if err != nil {
		t.Fatalf("BuildFaces: %v", err)
	}
	tris := make([][3]uint32, len(faces))
	for i, f := range faces {
		a := f.AttributeIndices
		r := 0
		for k := 1; k < 3; k++ {
			if a[k] < a[r] {
				r = k
			}
		}
		tris[i] = [3]uint32{a[r], a[(r+1)%3], a[(r+2)%3]}
	}
	slices.SortFunc(tris, func(x, y [3]uint32) int {
		return slices.Compare(x[:], y[:])
	})
	return tris
}
