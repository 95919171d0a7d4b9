package cmod

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Container errors.
var (
	ErrInvalidHeader   = errors.New("invalid cmod header")
	ErrUnexpectedToken = errors.New("unexpected cmod token")
	ErrTruncatedData   = errors.New("truncated cmod data")
	ErrInvalidValue    = errors.New("invalid cmod value")
)

const (
	asciiHeader  = "#celmodel__ascii"
	binaryHeader = "#celmodel_binary"
	headerLength = 16
)

// Format selects the container encoding.
type Format int

const (
	FormatASCII Format = iota
	FormatBinary
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// LoadModel reads a model in either container encoding. Every mesh is
// validated before it is returned.
func LoadModel(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}
	return ParseModel(data)
}

// ParseModel decodes a model from a byte slice.
func ParseModel(data []byte) (*Model, error) {
	if len(data) < headerLength {
		return nil, ErrInvalidHeader
	}

	var (
		model *Model
		err   error
	)
	switch string(data[:headerLength]) {
	case asciiHeader:
		model, err = parseASCII(data[headerLength:])
	case binaryHeader:
		model, err = parseBinary(bytes.NewReader(data[headerLength:]))
	default:
		return nil, ErrInvalidHeader
	}
	if err != nil {
		return nil, err
	}

	for i, mesh := range model.Meshes {
		if err := mesh.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
	}
	return model, nil
}

// SaveModel writes a model in the given container encoding.
func SaveModel(w io.Writer, model *Model, format Format) error {
	bw := bufio.NewWriter(w)

	var err error
	switch format {
	case FormatASCII:
		err = writeASCII(bw, model)
	case FormatBinary:
		err = writeBinary(bw, model)
	default:
		return fmt.Errorf("unsupported output format %s", format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}
