package cmod

import (
	"cmp"
	"errors"
	"fmt"
)

// Vertex layout errors.
var (
	ErrInvalidSemantic   = errors.New("invalid vertex attribute semantic")
	ErrInvalidFormat     = errors.New("invalid vertex attribute format")
	ErrDuplicateSemantic = errors.New("duplicate vertex attribute semantic")
	ErrAttributeOverlap  = errors.New("vertex attributes overlap")
	ErrAttributeRange    = errors.New("vertex attribute exceeds stride")
)

// VertexAttribute describes one field of an interleaved vertex record.
type VertexAttribute struct {
	Semantic VertexAttributeSemantic
	Format   VertexAttributeFormat
	Offset   uint32
}

// Compare orders attributes by semantic, then format, then offset.
func (a VertexAttribute) Compare(b VertexAttribute) int {
	if c := cmp.Compare(a.Semantic, b.Semantic); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Format, b.Format); c != 0 {
		return c
	}
	return cmp.Compare(a.Offset, b.Offset)
}

// VertexDescription is the layout of one interleaved vertex record.
type VertexDescription struct {
	Stride     uint32
	Attributes []VertexAttribute
}

// NewVertexDescription builds a packed description. Offsets in attrs are
// ignored; attributes are laid out back to back in the given order.
func NewVertexDescription(attrs ...VertexAttribute) VertexDescription {
	desc := VertexDescription{Attributes: make([]VertexAttribute, len(attrs))}
	for i, a := range attrs {
		a.Offset = desc.Stride
		desc.Attributes[i] = a
		desc.Stride += a.Format.Size()
	}
	return desc
}

// Clone returns a deep copy of the description.
func (d VertexDescription) Clone() VertexDescription {
	return VertexDescription{
		Stride:     d.Stride,
		Attributes: append([]VertexAttribute(nil), d.Attributes...),
	}
}

// Attribute returns the attribute with the given semantic.
func (d VertexDescription) Attribute(semantic VertexAttributeSemantic) (VertexAttribute, bool) {
	for _, a := range d.Attributes {
		if a.Semantic == semantic {
			return a, true
		}
	}
	return VertexAttribute{}, false
}

// Augment returns a copy of d that carries an attribute with the given
// semantic and format. An existing attribute with the same semantic is
// reused if its format matches and dropped otherwise. Surviving attributes
// keep their relative order and are repacked.
func (d VertexDescription) Augment(semantic VertexAttributeSemantic, format VertexAttributeFormat) VertexDescription {
	out := VertexDescription{Attributes: make([]VertexAttribute, 0, len(d.Attributes)+1)}
	found := false
	for _, a := range d.Attributes {
		if a.Semantic == semantic {
			if a.Format != format {
				continue
			}
			found = true
		}
		a.Offset = out.Stride
		out.Attributes = append(out.Attributes, a)
		out.Stride += a.Format.Size()
	}
	if !found {
		out.Attributes = append(out.Attributes, VertexAttribute{
			Semantic: semantic,
			Format:   format,
			Offset:   out.Stride,
		})
		out.Stride += format.Size()
	}
	return out
}

// Equal reports structural equality.
func (d VertexDescription) Equal(o VertexDescription) bool {
	return d.Compare(o) == 0
}

// Compare orders descriptions by stride, then attribute count (fewer
// first), then attribute by attribute.
func (d VertexDescription) Compare(o VertexDescription) int {
	if c := cmp.Compare(d.Stride, o.Stride); c != 0 {
		return c
	}
	if c := cmp.Compare(len(d.Attributes), len(o.Attributes)); c != 0 {
		return c
	}
	for i := range d.Attributes {
		if c := d.Attributes[i].Compare(o.Attributes[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Validate checks that every attribute is well formed, lies inside the
// stride, does not overlap another attribute and has a unique semantic.
func (d VertexDescription) Validate() error {
	var seen [semanticCount]bool
	for i, a := range d.Attributes {
		if !a.Semantic.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidSemantic, a.Semantic)
		}
		if !a.Format.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidFormat, a.Format)
		}
		if seen[a.Semantic] {
			return fmt.Errorf("%w: %s", ErrDuplicateSemantic, a.Semantic)
		}
		seen[a.Semantic] = true

		end := a.Offset + a.Format.Size()
		if end > d.Stride {
			return fmt.Errorf("%w: %s ends at %d, stride %d", ErrAttributeRange, a.Semantic, end, d.Stride)
		}
		for _, b := range d.Attributes[:i] {
			if a.Offset < b.Offset+b.Format.Size() && b.Offset < end {
				return fmt.Errorf("%w: %s and %s", ErrAttributeOverlap, b.Semantic, a.Semantic)
			}
		}
	}
	return nil
}
