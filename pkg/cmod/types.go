// Package cmod provides the mesh data model and the Celestia cmod model
// container (ASCII and binary) used by the mesh fixing tools.
package cmod

import "fmt"

// VertexAttributeSemantic is the role of a vertex attribute.
type VertexAttributeSemantic int16

const (
	Position     VertexAttributeSemantic = 0
	Color0       VertexAttributeSemantic = 1
	Color1       VertexAttributeSemantic = 2
	Normal       VertexAttributeSemantic = 3
	Tangent      VertexAttributeSemantic = 4
	Texture0     VertexAttributeSemantic = 5
	Texture1     VertexAttributeSemantic = 6
	Texture2     VertexAttributeSemantic = 7
	Texture3     VertexAttributeSemantic = 8
	PointSize    VertexAttributeSemantic = 9
	NextPosition VertexAttributeSemantic = 10
	ScaleFactor  VertexAttributeSemantic = 11

	semanticCount = 12
)

var semanticNames = [semanticCount]string{
	"position",
	"color0",
	"color1",
	"normal",
	"tangent",
	"texcoord0",
	"texcoord1",
	"texcoord2",
	"texcoord3",
	"pointsize",
	"nextposition",
	"scalefactor",
}

// Valid reports whether s is a known semantic.
func (s VertexAttributeSemantic) Valid() bool {
	return s >= 0 && s < semanticCount
}

// String returns the ASCII cmod name of the semantic.
func (s VertexAttributeSemantic) String() string {
	if s.Valid() {
		return semanticNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", int16(s))
}

func parseSemantic(name string) (VertexAttributeSemantic, bool) {
	for i, n := range semanticNames {
		if n == name {
			return VertexAttributeSemantic(i), true
		}
	}
	return 0, false
}

// VertexAttributeFormat is the storage format of a vertex attribute.
type VertexAttributeFormat int16

const (
	Float1 VertexAttributeFormat = 0
	Float2 VertexAttributeFormat = 1
	Float3 VertexAttributeFormat = 2
	Float4 VertexAttributeFormat = 3
	UByte4 VertexAttributeFormat = 4

	formatCount = 5
)

var formatNames = [formatCount]string{"f1", "f2", "f3", "f4", "ub4"}

// Valid reports whether f is a known format.
func (f VertexAttributeFormat) Valid() bool {
	return f >= 0 && f < formatCount
}

// String returns the ASCII cmod name of the format.
func (f VertexAttributeFormat) String() string {
	if f.Valid() {
		return formatNames[f]
	}
	return fmt.Sprintf("Unknown(%d)", int16(f))
}

// Size returns the size in bytes of one attribute of this format.
func (f VertexAttributeFormat) Size() uint32 {
	switch f {
	case Float1, UByte4:
		return 4
	case Float2:
		return 8
	case Float3:
		return 12
	case Float4:
		return 16
	default:
		return 0
	}
}

// Components returns the number of scalar components in the format.
func (f VertexAttributeFormat) Components() int {
	switch f {
	case Float1:
		return 1
	case Float2:
		return 2
	case Float3:
		return 3
	case Float4, UByte4:
		return 4
	default:
		return 0
	}
}

func parseFormat(name string) (VertexAttributeFormat, bool) {
	for i, n := range formatNames {
		if n == name {
			return VertexAttributeFormat(i), true
		}
	}
	return 0, false
}

// PrimitiveGroupType is the topology of a primitive group.
type PrimitiveGroupType int16

const (
	TriList    PrimitiveGroupType = 0
	TriStrip   PrimitiveGroupType = 1
	TriFan     PrimitiveGroupType = 2
	LineList   PrimitiveGroupType = 3
	LineStrip  PrimitiveGroupType = 4
	PointList  PrimitiveGroupType = 5
	SpriteList PrimitiveGroupType = 6

	primitiveCount = 7
)

var primitiveNames = [primitiveCount]string{
	"trilist",
	"tristrip",
	"trifan",
	"linelist",
	"linestrip",
	"points",
	"sprites",
}

// Valid reports whether p is a known primitive type.
func (p PrimitiveGroupType) Valid() bool {
	return p >= 0 && p < primitiveCount
}

// String returns the ASCII cmod name of the primitive type.
func (p PrimitiveGroupType) String() string {
	if p.Valid() {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", int16(p))
}

func parsePrimitive(name string) (PrimitiveGroupType, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return PrimitiveGroupType(i), true
		}
	}
	return 0, false
}
