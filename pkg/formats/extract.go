package formats

import (
	"fmt"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/mesh"
)

// ExtractedMesh is a mesh read from an OBJECT_MESH node together with the
// children that have no field in mesh.Mesh. Those are kept verbatim so a
// rebuilt node loses nothing.
type ExtractedMesh struct {
	Mesh       *mesh.Mesh
	Extras     []*chunk.Node // OBJECT_MESH children, source order
	FaceExtras []*chunk.Node // OBJECT_FACES children, source order
}

// ReadObjectName returns the raw name stored in an OBJECT node's prefix.
func ReadObjectName(obj *chunk.Node) (string, error) {
	p, err := Decode(chunk.IDObject, obj.Payload)
	if err != nil {
		return "", chunkErr(obj, "object name", err)
	}
	return p.(ObjectName).Name, nil
}

// ExtractMesh copies the geometry out of an OBJECT_MESH node. The result is
// not validated; call Mesh.Validate before converting it.
func ExtractMesh(name string, n *chunk.Node) (*ExtractedMesh, error) {
	ex := &ExtractedMesh{Mesh: &mesh.Mesh{Name: name}}
	m := ex.Mesh

	var (
		points, faces *chunk.Node
		smoothing     []*chunk.Node
	)
	for _, c := range n.Children {
		switch c.ID {
		case chunk.IDPointArray:
			if points != nil {
				return nil, chunkErr(c, "point array", fmt.Errorf("duplicate: %w", ErrMalformedPayload))
			}
			points = c
			p, err := Decode(c.ID, c.Payload)
			if err != nil {
				return nil, chunkErr(c, "point array", err)
			}
			m.Positions = p.(PointArray).Points

		case chunk.IDFaceArray:
			if faces != nil {
				return nil, chunkErr(c, "face array", fmt.Errorf("duplicate: %w", ErrMalformedPayload))
			}
			faces = c
			nested, err := extractFaces(ex, c)
			if err != nil {
				return nil, err
			}
			smoothing = append(smoothing, nested...)

		case chunk.IDSmoothing:
			smoothing = append(smoothing, c)

		case chunk.IDSharedUV:
			p, err := Decode(c.ID, c.Payload)
			if err != nil {
				return nil, chunkErr(c, "shared uvs", err)
			}
			m.Shared = p.(SharedUV).UVs

		case chunk.IDTransform:
			p, err := Decode(c.ID, c.Payload)
			if err != nil {
				return nil, chunkErr(c, "transform", err)
			}
			xf := p.(TransformMatrix).Matrix
			m.Transform = &xf

		case chunk.IDFaceMapChannel:
			p, err := Decode(c.ID, c.Payload)
			if err != nil {
				return nil, chunkErr(c, "uv channel", err)
			}
			fmc := p.(FaceMapChannel)
			if m.Channels == nil {
				m.Channels = make(map[int32]*mesh.CornerChannel)
			}
			if _, dup := m.Channels[fmc.Channel]; dup {
				return nil, chunkErr(c, "uv channel", fmt.Errorf("channel %d repeated: %w", fmc.Channel, ErrMalformedPayload))
			}
			ch := &mesh.CornerChannel{UVs: fmc.UVs, Faces: make([]mesh.Triangle, len(fmc.Faces))}
			for i, f := range fmc.Faces {
				ch.Faces[i] = mesh.Triangle{int(f[0]), int(f[1]), int(f[2])}
			}
			m.Channels[fmc.Channel] = ch

		default:
			ex.Extras = append(ex.Extras, c)
		}
	}

	if len(smoothing) > 1 {
		return nil, chunkErr(smoothing[1], "smoothing", fmt.Errorf("duplicate: %w", ErrMalformedPayload))
	}
	if len(smoothing) == 1 {
		c := smoothing[0]
		p, err := Decode(c.ID, c.Payload)
		if err != nil {
			return nil, chunkErr(c, "smoothing", err)
		}
		masks := p.(Smoothing).Masks
		if len(masks) != len(m.Faces) {
			return nil, chunkErr(c, "smoothing", fmt.Errorf("%d masks for %d faces: %w", len(masks), len(m.Faces), ErrMalformedPayload))
		}
		m.Smoothing = masks
	}
	return ex, nil
}

// extractFaces reads the face records and material groups of an OBJECT_FACES
// node and returns its smoothing children for the caller to resolve.
func extractFaces(ex *ExtractedMesh, n *chunk.Node) ([]*chunk.Node, error) {
	m := ex.Mesh
	p, err := Decode(n.ID, n.Payload)
	if err != nil {
		return nil, chunkErr(n, "face array", err)
	}
	records := p.(FaceArray).Faces
	m.Faces = make([]mesh.Triangle, len(records))
	m.FaceFlags = make([]uint16, len(records))
	for i, r := range records {
		m.Faces[i] = mesh.Triangle{int(r.A), int(r.B), int(r.C)}
		m.FaceFlags[i] = r.Flags
	}

	var smoothing []*chunk.Node
	for _, c := range n.Children {
		switch c.ID {
		case chunk.IDMaterialGroup:
			p, err := Decode(c.ID, c.Payload)
			if err != nil {
				return nil, chunkErr(c, "material group", err)
			}
			group := p.(MaterialGroup)
			if m.FaceMaterial == nil {
				m.FaceMaterial = make([]string, len(records))
			}
			for _, f := range group.Faces {
				if int(f) >= len(records) {
					return nil, chunkErr(c, "material group "+group.Name,
						fmt.Errorf("face %d of %d: %w", f, len(records), mesh.ErrIndexOutOfRange))
				}
				m.FaceMaterial[f] = group.Name
			}
		case chunk.IDSmoothing:
			smoothing = append(smoothing, c)
		default:
			ex.FaceExtras = append(ex.FaceExtras, c)
		}
	}
	return smoothing, nil
}
