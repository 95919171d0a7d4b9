package cmod

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Binary container tokens.
const (
	tokMaterial      int16 = 1001
	tokEndMaterial   int16 = 1002
	tokDiffuse       int16 = 1003
	tokSpecular      int16 = 1004
	tokSpecularPower int16 = 1005
	tokOpacity       int16 = 1006
	tokTexture       int16 = 1007
	tokMesh          int16 = 1009
	tokEndMesh       int16 = 1010
	tokVertexDesc    int16 = 1011
	tokEndVertexDesc int16 = 1012
	tokVertices      int16 = 1013
	tokEmissive      int16 = 1014
	tokBlend         int16 = 1015
)

// Binary container value types.
const (
	typeFloat1 int16 = 1
	typeFloat2 int16 = 2
	typeFloat3 int16 = 3
	typeFloat4 int16 = 4
	typeString int16 = 5
	typeUint32 int16 = 6
	typeColor  int16 = 7
)

// binaryReader reads little-endian values and remembers the first error.
type binaryReader struct {
	r   *bytes.Reader
	err error
}

func (br *binaryReader) read(v any) {
	if br.err != nil {
		return
	}
	if err := binary.Read(br.r, binary.LittleEndian, v); err != nil {
		br.err = ErrTruncatedData
	}
}

func (br *binaryReader) int16() int16 {
	var v int16
	br.read(&v)
	return v
}

func (br *binaryReader) uint32() uint32 {
	var v uint32
	br.read(&v)
	return v
}

func (br *binaryReader) float32() float32 {
	var v float32
	br.read(&v)
	return v
}

func (br *binaryReader) bytes(n uint64) []byte {
	if br.err != nil {
		return nil
	}
	if n > uint64(br.r.Len()) {
		br.err = ErrTruncatedData
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		br.err = ErrTruncatedData
		return nil
	}
	return buf
}

func (br *binaryReader) expectType(want int16) {
	if got := br.int16(); br.err == nil && got != want {
		br.err = fmt.Errorf("%w: value type %d, expected %d", ErrUnexpectedToken, got, want)
	}
}

func parseBinary(r *bytes.Reader) (*Model, error) {
	br := &binaryReader{r: r}
	model := &Model{}

	for r.Len() > 0 {
		switch tok := br.int16(); tok {
		case tokMaterial:
			mat := parseBinaryMaterial(br)
			if br.err != nil {
				return nil, fmt.Errorf("material %d: %w", len(model.Materials), br.err)
			}
			model.AddMaterial(mat)
		case tokMesh:
			mesh := parseBinaryMesh(br)
			if br.err != nil {
				return nil, fmt.Errorf("mesh %d: %w", len(model.Meshes), br.err)
			}
			model.AddMesh(mesh)
		default:
			if br.err != nil {
				return nil, br.err
			}
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedToken, tok)
		}
	}

	return model, nil
}

func parseBinaryMaterial(br *binaryReader) *Material {
	mat := NewMaterial()
	for br.err == nil {
		switch tok := br.int16(); tok {
		case tokEndMaterial:
			return mat
		case tokDiffuse, tokSpecular, tokEmissive:
			br.expectType(typeColor)
			var c Color
			br.read(&c)
			switch tok {
			case tokDiffuse:
				mat.Diffuse = c
			case tokSpecular:
				mat.Specular = c
			default:
				mat.Emissive = c
			}
		case tokSpecularPower:
			br.expectType(typeFloat1)
			mat.SpecularPower = br.float32()
		case tokOpacity:
			br.expectType(typeFloat1)
			mat.Opacity = br.float32()
		case tokBlend:
			blend := BlendMode(br.int16())
			if br.err == nil && (blend < 0 || blend >= blendCount) {
				br.err = fmt.Errorf("%w: blend mode %d", ErrInvalidValue, blend)
			}
			mat.Blend = blend
		case tokTexture:
			sem := TextureSemantic(br.int16())
			br.expectType(typeString)
			var n uint16
			br.read(&n)
			name := br.bytes(uint64(n))
			if br.err == nil && (sem < 0 || sem >= textureSemanticCount) {
				br.err = fmt.Errorf("%w: texture semantic %d", ErrInvalidValue, sem)
			}
			if br.err == nil {
				mat.Maps[sem] = string(name)
			}
		default:
			if br.err == nil {
				br.err = fmt.Errorf("%w: %d in material", ErrUnexpectedToken, tok)
			}
		}
	}
	return nil
}

func parseBinaryMesh(br *binaryReader) *Mesh {
	if tok := br.int16(); br.err == nil && tok != tokVertexDesc {
		br.err = fmt.Errorf("%w: %d, expected vertex description", ErrUnexpectedToken, tok)
		return nil
	}

	var attrs []VertexAttribute
	for br.err == nil {
		sem := br.int16()
		if sem == tokEndVertexDesc {
			break
		}
		format := br.int16()
		attrs = append(attrs, VertexAttribute{
			Semantic: VertexAttributeSemantic(sem),
			Format:   VertexAttributeFormat(format),
		})
	}
	if br.err != nil {
		return nil
	}

	desc := NewVertexDescription(attrs...)
	if err := desc.Validate(); err != nil {
		br.err = err
		return nil
	}

	if tok := br.int16(); br.err == nil && tok != tokVertices {
		br.err = fmt.Errorf("%w: %d, expected vertices", ErrUnexpectedToken, tok)
		return nil
	}
	count := br.uint32()
	data := br.bytes(uint64(count) * uint64(desc.Stride))
	if br.err != nil {
		return nil
	}

	mesh := NewMesh(desc)
	if err := mesh.SetVertices(count, data); err != nil {
		br.err = err
		return nil
	}

	for br.err == nil {
		tok := br.int16()
		if tok == tokEndMesh || br.err != nil {
			break
		}
		prim := PrimitiveGroupType(tok)
		if !prim.Valid() {
			br.err = fmt.Errorf("%w: %d", ErrInvalidPrimType, tok)
			break
		}
		material := br.uint32()
		n := br.uint32()
		if br.err == nil && uint64(n)*4 > uint64(br.r.Len()) {
			br.err = ErrTruncatedData
			break
		}
		indices := make([]uint32, n)
		br.read(indices)
		mesh.AddGroup(prim, material, indices)
	}
	if br.err != nil {
		return nil
	}
	return mesh
}

// binaryWriter writes little-endian values and remembers the first error.
type binaryWriter struct {
	w   io.Writer
	err error
}

func (bw *binaryWriter) write(v any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binaryWriter) fail(err error) {
	if bw.err == nil {
		bw.err = err
	}
}

func writeBinary(w io.Writer, model *Model) error {
	bw := &binaryWriter{w: w}
	bw.write([]byte(binaryHeader))

	for _, mat := range model.Materials {
		writeBinaryMaterial(bw, mat)
	}
	for _, mesh := range model.Meshes {
		writeBinaryMesh(bw, mesh)
	}
	return bw.err
}

func writeBinaryMaterial(bw *binaryWriter, mat *Material) {
	bw.write(tokMaterial)

	bw.write(tokDiffuse)
	bw.write(typeColor)
	bw.write(mat.Diffuse)
	if mat.Specular != (Color{}) {
		bw.write(tokSpecular)
		bw.write(typeColor)
		bw.write(mat.Specular)
	}
	if mat.Emissive != (Color{}) {
		bw.write(tokEmissive)
		bw.write(typeColor)
		bw.write(mat.Emissive)
	}
	if mat.SpecularPower != 1 {
		bw.write(tokSpecularPower)
		bw.write(typeFloat1)
		bw.write(mat.SpecularPower)
	}
	if mat.Opacity != 1 {
		bw.write(tokOpacity)
		bw.write(typeFloat1)
		bw.write(mat.Opacity)
	}
	if mat.Blend != NormalBlend {
		bw.write(tokBlend)
		bw.write(int16(mat.Blend))
	}
	for sem, name := range mat.Maps {
		if name == "" {
			continue
		}
		if len(name) > math.MaxUint16 {
			bw.fail(fmt.Errorf("%w: %s name is %d bytes", ErrInvalidValue, textureNames[sem], len(name)))
			return
		}
		bw.write(tokTexture)
		bw.write(int16(sem))
		bw.write(typeString)
		bw.write(uint16(len(name)))
		bw.write([]byte(name))
	}

	bw.write(tokEndMaterial)
}

func writeBinaryMesh(bw *binaryWriter, mesh *Mesh) {
	bw.write(tokMesh)

	bw.write(tokVertexDesc)
	for _, a := range mesh.desc.Attributes {
		bw.write(int16(a.Semantic))
		bw.write(int16(a.Format))
	}
	bw.write(tokEndVertexDesc)

	bw.write(tokVertices)
	bw.write(mesh.VertexCount())
	bw.write(packedVertexData(mesh))

	for _, g := range mesh.Groups() {
		bw.write(int16(g.Prim))
		bw.write(g.MaterialIndex)
		bw.write(uint32(len(g.Indices)))
		bw.write(g.Indices)
	}

	bw.write(tokEndMesh)
}

// packedVertexData returns the vertex records laid out back to back in
// attribute order, the layout the reader rebuilds from the vertexdesc.
func packedVertexData(mesh *Mesh) []byte {
	desc := mesh.desc
	packed := NewVertexDescription(desc.Attributes...)
	if packed.Equal(desc) {
		return mesh.vertices
	}

	data := make([]byte, 0, uint64(mesh.vertexCount)*uint64(packed.Stride))
	for v := uint32(0); v < mesh.vertexCount; v++ {
		rec := mesh.Vertex(v)
		for _, a := range desc.Attributes {
			data = append(data, rec[a.Offset:a.Offset+a.Format.Size()]...)
		}
	}
	return data
}
