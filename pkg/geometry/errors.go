// Package geometry implements the mesh processing operations: face
// decomposition, vertex welding, normal and tangent generation, vertex
// uniquification, mesh merging and triangle strip conversion.
package geometry

import (
	"errors"
	"fmt"
)

// Generation errors.
var (
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
	ErrUnsupportedTopology = fmt.Errorf("%w: primitive type is not a triangle list, strip or fan", ErrUnsupportedGeometry)
	ErrInvalidTopology     = errors.New("invalid primitive group index count")
	ErrMissingAttribute    = errors.New("missing vertex attribute")
	ErrAttributeFormat     = errors.New("invalid vertex attribute format")
	ErrEmptyMesh           = errors.New("mesh has no faces")
	ErrIndexOutOfRange     = errors.New("vertex index out of range")
)
