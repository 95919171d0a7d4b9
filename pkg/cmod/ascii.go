package cmod

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type asciiToken struct {
	text   string
	quoted bool
	line   int
}

// asciiLexer splits ASCII cmod text into whitespace separated tokens,
// skipping '#' comments. Double-quoted strings form a single token.
type asciiLexer struct {
	data []byte
	pos  int
	line int
}

func (l *asciiLexer) next() (asciiToken, error) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' {
				l.pos++
			}
		case c == '"':
			start := l.pos + 1
			end := start
			for end < len(l.data) && l.data[end] != '"' && l.data[end] != '\n' {
				end++
			}
			if end >= len(l.data) || l.data[end] != '"' {
				return asciiToken{}, fmt.Errorf("line %d: %w: unterminated string", l.line, ErrInvalidValue)
			}
			l.pos = end + 1
			return asciiToken{text: string(l.data[start:end]), quoted: true, line: l.line}, nil
		default:
			start := l.pos
			for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && l.data[l.pos] != '#' {
				l.pos++
			}
			return asciiToken{text: string(l.data[start:l.pos]), line: l.line}, nil
		}
	}
	return asciiToken{}, io.EOF
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// word returns the next unquoted token or an error naming what was expected.
func (l *asciiLexer) word(what string) (string, error) {
	tok, err := l.next()
	if err == io.EOF {
		return "", fmt.Errorf("line %d: %w: expected %s", l.line, ErrTruncatedData, what)
	}
	if err != nil {
		return "", err
	}
	if tok.quoted {
		return "", fmt.Errorf("line %d: %w: string, expected %s", tok.line, ErrUnexpectedToken, what)
	}
	return tok.text, nil
}

func (l *asciiLexer) expect(keyword string) error {
	w, err := l.word(keyword)
	if err != nil {
		return err
	}
	if w != keyword {
		return fmt.Errorf("line %d: %w: %q, expected %q", l.line, ErrUnexpectedToken, w, keyword)
	}
	return nil
}

func (l *asciiLexer) float() (float32, error) {
	w, err := l.word("number")
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(w, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: %q", l.line, ErrInvalidValue, w)
	}
	return float32(f), nil
}

func (l *asciiLexer) uint(bits int) (uint64, error) {
	w, err := l.word("integer")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(w, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: %q", l.line, ErrInvalidValue, w)
	}
	return v, nil
}

func (l *asciiLexer) color() (Color, error) {
	var c Color
	for i := range c {
		f, err := l.float()
		if err != nil {
			return c, err
		}
		c[i] = f
	}
	return c, nil
}

func parseASCII(data []byte) (*Model, error) {
	l := &asciiLexer{data: data, line: 1}
	model := &Model{}

	for {
		tok, err := l.next()
		if err == io.EOF {
			return model, nil
		}
		if err != nil {
			return nil, err
		}

		switch tok.text {
		case "material":
			mat, err := parseASCIIMaterial(l)
			if err != nil {
				return nil, fmt.Errorf("material %d: %w", len(model.Materials), err)
			}
			model.AddMaterial(mat)
		case "mesh":
			mesh, err := parseASCIIMesh(l)
			if err != nil {
				return nil, fmt.Errorf("mesh %d: %w", len(model.Meshes), err)
			}
			model.AddMesh(mesh)
		default:
			return nil, fmt.Errorf("line %d: %w: %q", tok.line, ErrUnexpectedToken, tok.text)
		}
	}
}

func parseASCIIMaterial(l *asciiLexer) (*Material, error) {
	mat := NewMaterial()
	for {
		prop, err := l.word("material property")
		if err != nil {
			return nil, err
		}

		switch prop {
		case "end_material":
			return mat, nil
		case "diffuse":
			mat.Diffuse, err = l.color()
		case "specular":
			mat.Specular, err = l.color()
		case "emissive":
			mat.Emissive, err = l.color()
		case "specpower":
			mat.SpecularPower, err = l.float()
		case "opacity":
			mat.Opacity, err = l.float()
		case "blend":
			var name string
			if name, err = l.word("blend mode"); err == nil {
				mat.Blend, err = parseBlend(name)
			}
		default:
			sem, ok := parseTextureSemantic(prop)
			if !ok {
				return nil, fmt.Errorf("line %d: %w: %q", l.line, ErrUnexpectedToken, prop)
			}
			tok, err := l.next()
			if err == io.EOF {
				return nil, fmt.Errorf("line %d: %w: expected texture name", l.line, ErrTruncatedData)
			}
			if err != nil {
				return nil, err
			}
			if !tok.quoted {
				return nil, fmt.Errorf("line %d: %w: texture name must be quoted", tok.line, ErrInvalidValue)
			}
			mat.Maps[sem] = tok.text
		}
		if err != nil {
			return nil, err
		}
	}
}

func parseBlend(name string) (BlendMode, error) {
	for i, n := range blendNames {
		if n == name {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: blend mode %q", ErrInvalidValue, name)
}

func parseTextureSemantic(name string) (TextureSemantic, bool) {
	for i, n := range textureNames {
		if n == name {
			return TextureSemantic(i), true
		}
	}
	return 0, false
}

func parseASCIIMesh(l *asciiLexer) (*Mesh, error) {
	if err := l.expect("vertexdesc"); err != nil {
		return nil, err
	}

	var attrs []VertexAttribute
	for {
		name, err := l.word("vertex attribute")
		if err != nil {
			return nil, err
		}
		if name == "end_vertexdesc" {
			break
		}
		sem, ok := parseSemantic(name)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", l.line, ErrInvalidSemantic, name)
		}
		fname, err := l.word("attribute format")
		if err != nil {
			return nil, err
		}
		format, ok := parseFormat(fname)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", l.line, ErrInvalidFormat, fname)
		}
		attrs = append(attrs, VertexAttribute{Semantic: sem, Format: format})
	}

	desc := NewVertexDescription(attrs...)
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	if err := l.expect("vertices"); err != nil {
		return nil, err
	}
	count, err := l.uint(32)
	if err != nil {
		return nil, err
	}

	data := make([]byte, 0, min(count*uint64(desc.Stride), uint64(len(l.data))))
	for v := uint64(0); v < count; v++ {
		for _, a := range desc.Attributes {
			if data, err = parseASCIIAttribute(l, data, a.Format); err != nil {
				return nil, err
			}
		}
	}

	mesh := NewMesh(desc)
	if err := mesh.SetVertices(uint32(count), data); err != nil {
		return nil, err
	}

	for {
		name, err := l.word("primitive group")
		if err != nil {
			return nil, err
		}
		if name == "end_mesh" {
			return mesh, nil
		}
		prim, ok := parsePrimitive(name)
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", l.line, ErrInvalidPrimType, name)
		}
		material, err := l.uint(32)
		if err != nil {
			return nil, err
		}
		n, err := l.uint(32)
		if err != nil {
			return nil, err
		}
		indices := make([]uint32, 0, min(n, uint64(len(l.data))))
		for i := uint64(0); i < n; i++ {
			idx, err := l.uint(32)
			if err != nil {
				return nil, err
			}
			indices = append(indices, uint32(idx))
		}
		mesh.AddGroup(prim, uint32(material), indices)
	}
}

func parseASCIIAttribute(l *asciiLexer, data []byte, format VertexAttributeFormat) ([]byte, error) {
	if format == UByte4 {
		for i := 0; i < 4; i++ {
			b, err := l.uint(8)
			if err != nil {
				return nil, err
			}
			data = append(data, byte(b))
		}
		return data, nil
	}
	for i := 0; i < format.Components(); i++ {
		f, err := l.float()
		if err != nil {
			return nil, err
		}
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
	}
	return data, nil
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func writeASCII(w *bufio.Writer, model *Model) error {
	fmt.Fprintf(w, "%s\n\n", asciiHeader)

	for i, mat := range model.Materials {
		if err := writeASCIIMaterial(w, mat); err != nil {
			return fmt.Errorf("material %d: %w", i, err)
		}
	}
	for _, mesh := range model.Meshes {
		writeASCIIMesh(w, mesh)
	}
	return nil
}

func writeColor(w *bufio.Writer, name string, c Color) {
	fmt.Fprintf(w, "%s %s %s %s\n", name, formatFloat(c[0]), formatFloat(c[1]), formatFloat(c[2]))
}

func writeASCIIMaterial(w *bufio.Writer, mat *Material) error {
	for sem, name := range mat.Maps {
		if strings.ContainsAny(name, "\"\n") {
			return fmt.Errorf("%w: %s name %q cannot be quoted", ErrInvalidValue, textureNames[sem], name)
		}
	}

	w.WriteString("material\n")
	writeColor(w, "diffuse", mat.Diffuse)
	if mat.Specular != (Color{}) {
		writeColor(w, "specular", mat.Specular)
	}
	if mat.Emissive != (Color{}) {
		writeColor(w, "emissive", mat.Emissive)
	}
	if mat.SpecularPower != 1 {
		fmt.Fprintf(w, "specpower %s\n", formatFloat(mat.SpecularPower))
	}
	if mat.Opacity != 1 {
		fmt.Fprintf(w, "opacity %s\n", formatFloat(mat.Opacity))
	}
	if mat.Blend != NormalBlend {
		fmt.Fprintf(w, "blend %s\n", mat.Blend)
	}
	for sem, name := range mat.Maps {
		if name != "" {
			fmt.Fprintf(w, "%s \"%s\"\n", textureNames[sem], name)
		}
	}
	w.WriteString("end_material\n\n")
	return nil
}

const indicesPerLine = 16

func writeASCIIMesh(w *bufio.Writer, mesh *Mesh) {
	desc := mesh.desc

	w.WriteString("mesh\nvertexdesc\n")
	for _, a := range desc.Attributes {
		fmt.Fprintf(w, "%s %s\n", a.Semantic, a.Format)
	}
	w.WriteString("end_vertexdesc\n\n")

	fmt.Fprintf(w, "vertices %d\n", mesh.VertexCount())
	for v := uint32(0); v < mesh.VertexCount(); v++ {
		rec := mesh.Vertex(v)
		for i, a := range desc.Attributes {
			if i > 0 {
				w.WriteByte(' ')
			}
			field := rec[a.Offset : a.Offset+a.Format.Size()]
			if a.Format == UByte4 {
				fmt.Fprintf(w, "%d %d %d %d", field[0], field[1], field[2], field[3])
				continue
			}
			for c := 0; c < a.Format.Components(); c++ {
				if c > 0 {
					w.WriteByte(' ')
				}
				w.WriteString(formatFloat(math.Float32frombits(binary.LittleEndian.Uint32(field[c*4:]))))
			}
		}
		w.WriteByte('\n')
	}
	w.WriteByte('\n')

	for _, g := range mesh.Groups() {
		fmt.Fprintf(w, "%s %d %d\n", g.Prim, g.MaterialIndex, len(g.Indices))
		for i, idx := range g.Indices {
			if i > 0 {
				if i%indicesPerLine == 0 {
					w.WriteByte('\n')
				} else {
					w.WriteByte(' ')
				}
			}
			w.WriteString(strconv.FormatUint(uint64(idx), 10))
		}
		w.WriteString("\n\n")
	}

	w.WriteString("end_mesh\n\n")
}
