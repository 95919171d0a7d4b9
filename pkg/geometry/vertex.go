package geometry

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/cmodfix/pkg/cmod"
)

// Vertex pairs an index into a vertex buffer with its borrowed record.
type Vertex struct {
	Index      uint32
	Attributes []byte
}

func record(data []byte, stride, i uint32) []byte {
	return data[i*stride : (i+1)*stride : (i+1)*stride]
}

func float32At(rec []byte, off uint32) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(rec[off : off+4]))
}

func readVec3(rec []byte, off uint32) mgl32.Vec3 {
	return mgl32.Vec3{float32At(rec, off), float32At(rec, off+4), float32At(rec, off+8)}
}

func readVec2(rec []byte, off uint32) mgl32.Vec2 {
	return mgl32.Vec2{float32At(rec, off), float32At(rec, off+4)}
}

func putVec3(rec []byte, off uint32, v mgl32.Vec3) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(rec[off+uint32(i)*4:], math.Float32bits(f))
	}
}

// checkLayout verifies that the vertex layout of mesh is well formed and
// that the buffer holds exactly VertexCount records.
func checkLayout(mesh *cmod.Mesh) error {
	desc := mesh.VertexDescription()
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrAttributeFormat, err)
	}
	if uint64(len(mesh.VertexData())) != uint64(mesh.VertexCount())*uint64(desc.Stride) {
		return fmt.Errorf("%w: %w", ErrAttributeFormat, cmod.ErrVertexDataSize)
	}
	return nil
}

// requireAttribute returns the attribute with the given semantic and
// checks its format.
func requireAttribute(desc cmod.VertexDescription, sem cmod.VertexAttributeSemantic, format cmod.VertexAttributeFormat) (cmod.VertexAttribute, error) {
	a, ok := desc.Attribute(sem)
	if !ok {
		return a, fmt.Errorf("%w: %s", ErrMissingAttribute, sem)
	}
	if a.Format != format {
		return a, fmt.Errorf("%w: %s is %s, need %s", ErrAttributeFormat, sem, a.Format, format)
	}
	return a, nil
}
