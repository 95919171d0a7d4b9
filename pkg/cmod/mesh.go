package cmod

import (
	"errors"
	"fmt"
)

// Mesh errors.
var (
	ErrVertexDataSize  = errors.New("vertex data size does not match count and stride")
	ErrIndexOutOfRange = errors.New("primitive group index out of range")
	ErrInvalidPrimType = errors.New("invalid primitive group type")
)

// PrimitiveGroup is a run of indices sharing one topology and one material.
type PrimitiveGroup struct {
	Prim          PrimitiveGroupType
	MaterialIndex uint32
	Indices       []uint32
}

// Mesh is an interleaved vertex buffer with its layout and primitive groups.
type Mesh struct {
	desc        VertexDescription
	vertices    []byte
	vertexCount uint32
	groups      []PrimitiveGroup
}

// NewMesh creates an empty mesh with the given vertex layout.
func NewMesh(desc VertexDescription) *Mesh {
	return &Mesh{desc: desc.Clone()}
}

// VertexDescription returns a copy of the mesh vertex layout.
func (m *Mesh) VertexDescription() VertexDescription {
	return m.desc.Clone()
}

// SetVertexDescription replaces the vertex layout. Vertex data must be
// replaced with SetVertices afterwards if the stride changed.
func (m *Mesh) SetVertexDescription(desc VertexDescription) {
	m.desc = desc.Clone()
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() uint32 {
	return m.vertexCount
}

// Stride returns the size in bytes of one vertex record.
func (m *Mesh) Stride() uint32 {
	return m.desc.Stride
}

// VertexData returns the raw vertex buffer. Callers must not modify it.
func (m *Mesh) VertexData() []byte {
	return m.vertices
}

// Vertex returns the record of vertex i.
func (m *Mesh) Vertex(i uint32) []byte {
	s := m.desc.Stride
	return m.vertices[i*s : (i+1)*s : (i+1)*s]
}

// SetVertices replaces the vertex buffer. The mesh takes ownership of data.
func (m *Mesh) SetVertices(count uint32, data []byte) error {
	if uint64(len(data)) != uint64(count)*uint64(m.desc.Stride) {
		return fmt.Errorf("%w: %d bytes for %d vertices of stride %d",
			ErrVertexDataSize, len(data), count, m.desc.Stride)
	}
	m.vertices = data
	m.vertexCount = count
	return nil
}

// Groups returns the primitive groups in order.
func (m *Mesh) Groups() []PrimitiveGroup {
	return m.groups
}

// AddGroup appends a primitive group. The mesh takes ownership of indices.
func (m *Mesh) AddGroup(prim PrimitiveGroupType, materialIndex uint32, indices []uint32) {
	m.groups = append(m.groups, PrimitiveGroup{
		Prim:          prim,
		MaterialIndex: materialIndex,
		Indices:       indices,
	})
}

// ClearGroups removes all primitive groups.
func (m *Mesh) ClearGroups() {
	m.groups = nil
}

// RemapIndices replaces every index i with vertexMap[i].
func (m *Mesh) RemapIndices(vertexMap []uint32) {
	for g := range m.groups {
		indices := m.groups[g].Indices
		for i, idx := range indices {
			indices[i] = vertexMap[idx]
		}
	}
}

// IndexCount returns the total number of indices over all groups.
func (m *Mesh) IndexCount() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.Indices)
	}
	return n
}

// Validate checks the vertex layout, the buffer size and that every index
// refers to an existing vertex.
func (m *Mesh) Validate() error {
	if err := m.desc.Validate(); err != nil {
		return err
	}
	if uint64(len(m.vertices)) != uint64(m.vertexCount)*uint64(m.desc.Stride) {
		return ErrVertexDataSize
	}
	for g, group := range m.groups {
		if !group.Prim.Valid() {
			return fmt.Errorf("group %d: %w: %d", g, ErrInvalidPrimType, group.Prim)
		}
		for _, idx := range group.Indices {
			if idx >= m.vertexCount {
				return fmt.Errorf("group %d: %w: %d >= %d", g, ErrIndexOutOfRange, idx, m.vertexCount)
			}
		}
	}
	return nil
}
