package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	vec "github.com/Faultbox/i3d-tools/pkg/math"
	"github.com/Faultbox/i3d-tools/pkg/mesh"
)

func putF32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

// makeFaceMapPayload builds a FACE_MAP_CHANNEL payload by hand.
func makeFaceMapPayload(channel int32, uvs [][2]float32, faces [][3]uint16) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(channel))
	b = binary.LittleEndian.AppendUint16(b, uint16(len(uvs)))
	for _, uv := range uvs {
		b = putF32(b, uv[0])
		b = putF32(b, uv[1])
	}
	b = binary.LittleEndian.AppendUint16(b, uint16(len(faces)))
	for _, f := range faces {
		for _, i := range f {
			b = binary.LittleEndian.AppendUint16(b, i)
		}
	}
	return b
}

func TestDecode_FaceMapChannel(t *testing.T) {
	data := makeFaceMapPayload(-2, [][2]float32{{0, 0}, {1, 0.5}}, [][3]uint16{{0, 1, 1}})

	p, err := Decode(chunk.IDFaceMapChannel, data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	fmc, ok := p.(FaceMapChannel)
	if !ok {
		t.Fatalf("got %T, want FaceMapChannel", p)
	}
	if fmc.Channel != -2 {
		t.Errorf("channel = %d, want -2", fmc.Channel)
	}
	if len(fmc.UVs) != 2 || fmc.UVs[1] != (vec.Vec2{X: 1, Y: 0.5}) {
		t.Errorf("uvs = %v", fmc.UVs)
	}
	if !reflect.DeepEqual(fmc.Faces, [][3]uint16{{0, 1, 1}}) {
		t.Errorf("faces = %v", fmc.Faces)
	}

	out, err := fmc.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("encoded layout differs:\n got %x\nwant %x", out, data)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		id   uint16
		data []byte
	}{
		{"points count beyond payload", chunk.IDPointArray, []byte{2, 0, 0, 0, 0, 0}},
		{"empty point array", chunk.IDPointArray, nil},
		{"faces truncated", chunk.IDFaceArray, []byte{1, 0, 0, 0}},
		{"smoothing not multiple of 4", chunk.IDSmoothing, []byte{1, 0, 0}},
		{"material group without terminator", chunk.IDMaterialGroup, []byte("abc")},
		{"material group missing faces", chunk.IDMaterialGroup, append([]byte("abc\x00"), 3, 0, 1, 0)},
		{"channel missing face count", chunk.IDFaceMapChannel, makeFaceMapPayload(1, nil, nil)[:6]},
		{"short transform", chunk.IDTransform, make([]byte, 40)},
		{"object name without terminator", chunk.IDObject, []byte("Box")},
		{"short version", chunk.IDVersion, []byte{3, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.id, tt.data)
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("got %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestDecode_Opaque(t *testing.T) {
	data := []byte{1, 2, 3}
	p, err := Decode(chunk.IDKFPosTrack, data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	op, ok := p.(Opaque)
	if !ok || op.ChunkID() != chunk.IDKFPosTrack || !bytes.Equal(op.Data, data) {
		t.Errorf("got %#v", p)
	}
	data[0] = 9
	if op.Data[0] != 1 {
		t.Error("opaque payload aliases the input")
	}
}

func TestEncode_Capacity(t *testing.T) {
	ok := PointArray{Points: make([]vec.Vec3, mesh.MaxCount)}
	if _, err := ok.Encode(); err != nil {
		t.Errorf("65535 points: %v", err)
	}

	tests := []struct {
		name string
		p    Payload
	}{
		{"points", PointArray{Points: make([]vec.Vec3, mesh.MaxCount+1)}},
		{"faces", FaceArray{Faces: make([]FaceRecord, mesh.MaxCount+1)}},
		{"uvs", SharedUV{UVs: make([]vec.Vec2, mesh.MaxCount+1)}},
		{"channel uvs", FaceMapChannel{UVs: make([]vec.Vec2, mesh.MaxCount+1)}},
		{"material group", MaterialGroup{Name: "m", Faces: make([]uint16, mesh.MaxCount+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.p.Encode(); !errors.Is(err, mesh.ErrCapacityExceeded) {
				t.Errorf("got %v, want ErrCapacityExceeded", err)
			}
		})
	}

	_, err := EncodeNode(PointArray{Points: make([]vec.Vec3, mesh.MaxCount+1)})
	var ce *ChunkError
	if !errors.As(err, &ce) || ce.ID != chunk.IDPointArray {
		t.Errorf("EncodeNode error = %v, want *ChunkError for POINT_ARRAY", err)
	}
}

func TestChunkError_Message(t *testing.T) {
	err := &ChunkError{ID: chunk.IDFaceMapChannel, Offset: 1234, Op: "split", Err: mesh.ErrAmbiguousReindex}
	msg := err.Error()
	for _, want := range []string{"0x4200", "FACE_MAP_CHANNEL", "1234", "split", "ambiguous reindex"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}
	if !errors.Is(err, mesh.ErrAmbiguousReindex) {
		t.Error("ChunkError does not unwrap")
	}
}
