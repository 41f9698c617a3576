// Package formats decodes and builds the payloads of 3DS and I3D chunk files.
package formats

import (
	"errors"
	"fmt"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
)

// Chunk file errors.
var (
	ErrMalformedPayload = errors.New("malformed chunk payload")
	ErrNotChunkFile     = errors.New("not a 3DS/I3D file: PRIMARY chunk missing")
)

// ChunkError ties an error to the chunk it was raised for.
type ChunkError struct {
	ID     uint16
	Offset int // -1 for chunks not read from a file
	Op     string
	Err    error
}

func (e *ChunkError) Error() string {
	name := chunk.Default().Name(e.ID)
	if e.Offset < 0 {
		return fmt.Sprintf("0x%04X %s: %s: %v", e.ID, name, e.Op, e.Err)
	}
	return fmt.Sprintf("0x%04X %s at %d: %s: %v", e.ID, name, e.Offset, e.Op, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

func chunkErr(n *chunk.Node, op string, err error) error {
	return &ChunkError{ID: n.ID, Offset: n.Offset, Op: op, Err: err}
}
