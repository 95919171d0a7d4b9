package cmod

import "fmt"

// Color is an RGB color.
type Color [3]float32

// BlendMode is the material blend function.
type BlendMode int16

const (
	NormalBlend             BlendMode = 0
	AdditiveBlend           BlendMode = 1
	PremultipliedAlphaBlend BlendMode = 2

	blendCount = 3
)

var blendNames = [blendCount]string{"normal", "add", "premultiplied"}

// String returns the ASCII cmod name of the blend mode.
func (b BlendMode) String() string {
	if b >= 0 && b < blendCount {
		return blendNames[b]
	}
	return fmt.Sprintf("Unknown(%d)", int16(b))
}

// TextureSemantic is the role of a material texture map.
type TextureSemantic int16

const (
	DiffuseMap  TextureSemantic = 0
	NormalMap   TextureSemantic = 1
	SpecularMap TextureSemantic = 2
	EmissiveMap TextureSemantic = 3

	textureSemanticCount = 4
)

var textureNames = [textureSemanticCount]string{"texture0", "normalmap", "specularmap", "emissivemap"}

// Material holds surface parameters. The mesh tools carry materials
// through unchanged.
type Material struct {
	Diffuse       Color
	Emissive      Color
	Specular      Color
	SpecularPower float32
	Opacity       float32
	Blend         BlendMode
	Maps          [textureSemanticCount]string
}

// NewMaterial returns a material with default parameters.
func NewMaterial() *Material {
	return &Material{
		SpecularPower: 1,
		Opacity:       1,
	}
}

// Model is an ordered collection of materials and meshes.
type Model struct {
	Materials []*Material
	Meshes    []*Mesh
}

// AddMaterial appends a material and returns its index.
func (m *Model) AddMaterial(mat *Material) uint32 {
	m.Materials = append(m.Materials, mat)
	return uint32(len(m.Materials) - 1)
}

// AddMesh appends a mesh.
func (m *Model) AddMesh(mesh *Mesh) {
	m.Meshes = append(m.Meshes, mesh)
}

// WithMeshes returns a model sharing m's materials with a new mesh list.
func (m *Model) WithMeshes(meshes []*Mesh) *Model {
	return &Model{
		Materials: append([]*Material(nil), m.Materials...),
		Meshes:    meshes,
	}
}

// VertexCount returns the total vertex count over all meshes.
func (m *Model) VertexCount() int {
	n := 0
	for _, mesh := range m.Meshes {
		n += int(mesh.VertexCount())
	}
	return n
}
