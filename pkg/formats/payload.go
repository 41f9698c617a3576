package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/encoding"
	"github.com/Faultbox/i3d-tools/pkg/math"
	"github.com/Faultbox/i3d-tools/pkg/mesh"
)

// Payload is a decoded chunk payload. The set of implementations is closed:
// every id without a dedicated shape decodes to Opaque.
type Payload interface {
	ChunkID() uint16
	Encode() ([]byte, error)
}

// PointArray is the POINT_ARRAY (0x4110) payload.
type PointArray struct {
	Points []math.Vec3
}

// FaceRecord is one entry of the face array.
type FaceRecord struct {
	A, B, C uint16
	Flags   uint16
}

// FaceArray is the prefix of OBJECT_FACES (0x4120). Material groups and
// smoothing follow it as child chunks.
type FaceArray struct {
	Faces []FaceRecord
}

// MaterialGroup is the OBJECT_MATERIAL (0x4130) payload.
type MaterialGroup struct {
	Name  string
	Faces []uint16
}

// Smoothing is the OBJECT_SMOOTH (0x4150) payload: one mask per face with no
// count prefix.
type Smoothing struct {
	Masks []uint32
}

// SharedUV is the OBJECT_UV (0x4140) payload.
type SharedUV struct {
	UVs []math.Vec2
}

// FaceMapChannel is the I3D FACE_MAP_CHANNEL (0x4200) payload.
type FaceMapChannel struct {
	Channel int32
	UVs     []math.Vec2
	Faces   [][3]uint16
}

// TransformMatrix is the OBJECT_TRANS_MATRIX (0x4160) payload.
type TransformMatrix struct {
	Matrix math.Affine
}

// ObjectName is the name prefix of OBJECT (0x4000).
type ObjectName struct {
	Name string
}

// Name is a single cstring payload (MAT_NAME, MAT_MAP_FILEPATH, INSTANCE_NAME).
type Name struct {
	ID    uint16
	Value string
}

// Version is a single u32 payload (M3D_VERSION, EDIT_CONFIG).
type Version struct {
	ID    uint16
	Value uint32
}

// Opaque is any payload without a dedicated shape.
type Opaque struct {
	ID   uint16
	Data []byte
}

func (PointArray) ChunkID() uint16      { return chunk.IDPointArray }
func (FaceArray) ChunkID() uint16       { return chunk.IDFaceArray }
func (MaterialGroup) ChunkID() uint16   { return chunk.IDMaterialGroup }
func (Smoothing) ChunkID() uint16       { return chunk.IDSmoothing }
func (SharedUV) ChunkID() uint16        { return chunk.IDSharedUV }
func (FaceMapChannel) ChunkID() uint16  { return chunk.IDFaceMapChannel }
func (TransformMatrix) ChunkID() uint16 { return chunk.IDTransform }
func (ObjectName) ChunkID() uint16      { return chunk.IDObject }
func (p Name) ChunkID() uint16          { return p.ID }
func (p Version) ChunkID() uint16       { return p.ID }
func (p Opaque) ChunkID() uint16        { return p.ID }

// Decode decodes a payload according to its chunk id.
func Decode(id uint16, payload []byte) (Payload, error) {
	r := bytes.NewReader(payload)
	switch id {
	case chunk.IDPointArray:
		return decodePointArray(r)
	case chunk.IDFaceArray:
		return decodeFaceArray(r)
	case chunk.IDMaterialGroup:
		return decodeMaterialGroup(payload)
	case chunk.IDSmoothing:
		return decodeSmoothing(payload)
	case chunk.IDSharedUV:
		return decodeSharedUV(r)
	case chunk.IDFaceMapChannel:
		return decodeFaceMapChannel(r)
	case chunk.IDTransform:
		var p TransformMatrix
		if err := binary.Read(r, binary.LittleEndian, &p.Matrix); err != nil {
			return nil, malformed("transform matrix", err)
		}
		return p, nil
	case chunk.IDObject:
		s, _, ok := encoding.ReadCString(payload, 0)
		if !ok {
			return nil, malformed("object name", io.ErrUnexpectedEOF)
		}
		return ObjectName{Name: s}, nil
	case chunk.IDMatName, chunk.IDMatMapFile, chunk.IDKFInstanceName:
		s, _, ok := encoding.ReadCString(payload, 0)
		if !ok {
			return nil, malformed("name", io.ErrUnexpectedEOF)
		}
		return Name{ID: id, Value: s}, nil
	case chunk.IDVersion, chunk.IDEditConfig:
		p := Version{ID: id}
		if err := binary.Read(r, binary.LittleEndian, &p.Value); err != nil {
			return nil, malformed("version", err)
		}
		return p, nil
	default:
		return Opaque{ID: id, Data: append([]byte(nil), payload...)}, nil
	}
}

func malformed(what string, err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%s: %w: %v", what, ErrMalformedPayload, err)
}

func readCount(r *bytes.Reader, what string, size int) (int, error) {
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, malformed(what+" count", err)
	}
	if int(count)*size > r.Len() {
		return 0, malformed(what, fmt.Errorf("count %d needs %d bytes, %d left", count, int(count)*size, r.Len()))
	}
	return int(count), nil
}

func decodePointArray(r *bytes.Reader) (Payload, error) {
	count, err := readCount(r, "points", 12)
	if err != nil {
		return nil, err
	}
	p := PointArray{Points: make([]math.Vec3, count)}
	if err := binary.Read(r, binary.LittleEndian, p.Points); err != nil {
		return nil, malformed("points", err)
	}
	return p, nil
}

func decodeFaceArray(r *bytes.Reader) (Payload, error) {
	count, err := readCount(r, "faces", 8)
	if err != nil {
		return nil, err
	}
	p := FaceArray{Faces: make([]FaceRecord, count)}
	if err := binary.Read(r, binary.LittleEndian, p.Faces); err != nil {
		return nil, malformed("faces", err)
	}
	return p, nil
}

func decodeMaterialGroup(payload []byte) (Payload, error) {
	name, next, ok := encoding.ReadCString(payload, 0)
	if !ok {
		return nil, malformed("material group name", io.ErrUnexpectedEOF)
	}
	r := bytes.NewReader(payload[next:])
	count, err := readCount(r, "material group", 2)
	if err != nil {
		return nil, err
	}
	p := MaterialGroup{Name: name, Faces: make([]uint16, count)}
	if err := binary.Read(r, binary.LittleEndian, p.Faces); err != nil {
		return nil, malformed("material group", err)
	}
	return p, nil
}

func decodeSmoothing(payload []byte) (Payload, error) {
	if len(payload)%4 != 0 {
		return nil, malformed("smoothing", fmt.Errorf("%d bytes is not a whole number of masks", len(payload)))
	}
	p := Smoothing{Masks: make([]uint32, len(payload)/4)}
	for i := range p.Masks {
		p.Masks[i] = binary.LittleEndian.Uint32(payload[i*4:])
	}
	return p, nil
}

func decodeSharedUV(r *bytes.Reader) (Payload, error) {
	count, err := readCount(r, "uvs", 8)
	if err != nil {
		return nil, err
	}
	p := SharedUV{UVs: make([]math.Vec2, count)}
	if err := binary.Read(r, binary.LittleEndian, p.UVs); err != nil {
		return nil, malformed("uvs", err)
	}
	return p, nil
}

func decodeFaceMapChannel(r *bytes.Reader) (Payload, error) {
	var p FaceMapChannel
	if err := binary.Read(r, binary.LittleEndian, &p.Channel); err != nil {
		return nil, malformed("channel id", err)
	}
	uvCount, err := readCount(r, "channel uvs", 8)
	if err != nil {
		return nil, err
	}
	p.UVs = make([]math.Vec2, uvCount)
	if err := binary.Read(r, binary.LittleEndian, p.UVs); err != nil {
		return nil, malformed("channel uvs", err)
	}
	faceCount, err := readCount(r, "channel faces", 6)
	if err != nil {
		return nil, err
	}
	p.Faces = make([][3]uint16, faceCount)
	if err := binary.Read(r, binary.LittleEndian, p.Faces); err != nil {
		return nil, malformed("channel faces", err)
	}
	return p, nil
}

func checkCount(what string, n int) error {
	if n > mesh.MaxCount {
		return fmt.Errorf("%s: %d: %w", what, n, mesh.ErrCapacityExceeded)
	}
	return nil
}

func write(buf *bytes.Buffer, v any) {
	// bytes.Buffer writes cannot fail
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func (p PointArray) Encode() ([]byte, error) {
	if err := checkCount("points", len(p.Points)); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(2 + len(p.Points)*12)
	write(&buf, uint16(len(p.Points)))
	write(&buf, p.Points)
	return buf.Bytes(), nil
}

func (p FaceArray) Encode() ([]byte, error) {
	if err := checkCount("faces", len(p.Faces)); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(2 + len(p.Faces)*8)
	write(&buf, uint16(len(p.Faces)))
	write(&buf, p.Faces)
	return buf.Bytes(), nil
}

func (p MaterialGroup) Encode() ([]byte, error) {
	if err := checkCount("material group "+p.Name, len(p.Faces)); err != nil {
		return nil, err
	}
	out := encoding.AppendCString(nil, p.Name)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(p.Faces)))
	for _, f := range p.Faces {
		out = binary.LittleEndian.AppendUint16(out, f)
	}
	return out, nil
}

func (p Smoothing) Encode() ([]byte, error) {
	if err := checkCount("smoothing", len(p.Masks)); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(p.Masks)*4)
	for _, m := range p.Masks {
		out = binary.LittleEndian.AppendUint32(out, m)
	}
	return out, nil
}

func (p SharedUV) Encode() ([]byte, error) {
	if err := checkCount("uvs", len(p.UVs)); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(2 + len(p.UVs)*8)
	write(&buf, uint16(len(p.UVs)))
	write(&buf, p.UVs)
	return buf.Bytes(), nil
}

func (p FaceMapChannel) Encode() ([]byte, error) {
	if err := checkCount("channel uvs", len(p.UVs)); err != nil {
		return nil, err
	}
	if err := checkCount("channel faces", len(p.Faces)); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(4 + 2 + len(p.UVs)*8 + 2 + len(p.Faces)*6)
	write(&buf, p.Channel)
	write(&buf, uint16(len(p.UVs)))
	write(&buf, p.UVs)
	write(&buf, uint16(len(p.Faces)))
	write(&buf, p.Faces)
	return buf.Bytes(), nil
}

func (p TransformMatrix) Encode() ([]byte, error) {
	var buf bytes.Buffer
	write(&buf, p.Matrix)
	return buf.Bytes(), nil
}

func (p ObjectName) Encode() ([]byte, error) {
	return encoding.AppendCString(nil, p.Name), nil
}

func (p Name) Encode() ([]byte, error) {
	return encoding.AppendCString(nil, p.Value), nil
}

func (p Version) Encode() ([]byte, error) {
	return binary.LittleEndian.AppendUint32(nil, p.Value), nil
}

func (p Opaque) Encode() ([]byte, error) {
	return p.Data, nil
}

// EncodeNode encodes p into a chunk node with the given children.
func EncodeNode(p Payload, children ...*chunk.Node) (*chunk.Node, error) {
	data, err := p.Encode()
	if err != nil {
		return nil, &ChunkError{ID: p.ChunkID(), Offset: -1, Op: "encode", Err: err}
	}
	return chunk.NewNode(p.ChunkID(), data, children...), nil
}
