package geometry

import (
	"bytes"
	"cmp"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexOrdering compares two vertex records.
type VertexOrdering func(a, b []byte) int

// VertexEquivalence reports whether two vertex records belong together.
type VertexEquivalence func(a, b []byte) bool

// ExactOrdering compares whole records byte by byte.
func ExactOrdering(a, b []byte) int {
	return bytes.Compare(a, b)
}

// ExactEquivalence reports byte-identical records.
func ExactEquivalence(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// PositionOrdering orders records by the (x, y, z) position at posOffset.
func PositionOrdering(posOffset uint32) VertexOrdering {
	return func(a, b []byte) int {
		for i := uint32(0); i < 3; i++ {
			if c := cmp.Compare(float32At(a, posOffset+i*4), float32At(b, posOffset+i*4)); c != 0 {
				return c
			}
		}
		return 0
	}
}

// PositionTexCoordOrdering orders records by position, then by the (u, v)
// texture coordinate at texOffset.
func PositionTexCoordOrdering(posOffset, texOffset uint32) VertexOrdering {
	byPosition := PositionOrdering(posOffset)
	return func(a, b []byte) int {
		if c := byPosition(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(float32At(a, texOffset), float32At(b, texOffset)); c != 0 {
			return c
		}
		return cmp.Compare(float32At(a, texOffset+4), float32At(b, texOffset+4))
	}
}

// approxEqual compares with a tolerance relative to the smaller magnitude.
// A zero tolerance requires exact equality.
func approxEqual(x, y, tolerance float32) bool {
	return mgl32.Abs(x-y) <= tolerance*min(mgl32.Abs(x), mgl32.Abs(y))
}

func componentsEqual(a, b []byte, off uint32, n uint32, tolerance float32) bool {
	for i := uint32(0); i < n; i++ {
		if !approxEqual(float32At(a, off+i*4), float32At(b, off+i*4), tolerance) {
			return false
		}
	}
	return true
}

// PositionEquivalence matches records whose positions agree per coordinate
// within the relative tolerance.
func PositionEquivalence(posOffset uint32, tolerance float32) VertexEquivalence {
	return func(a, b []byte) bool {
		return componentsEqual(a, b, posOffset, 3, tolerance)
	}
}

// PositionTexCoordEquivalence matches records whose positions and texture
// coordinates both agree within the relative tolerance.
func PositionTexCoordEquivalence(posOffset, texOffset uint32, tolerance float32) VertexEquivalence {
	return func(a, b []byte) bool {
		return componentsEqual(a, b, posOffset, 3, tolerance) &&
			componentsEqual(a, b, texOffset, 2, tolerance)
	}
}
