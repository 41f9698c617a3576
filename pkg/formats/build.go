package formats

import (
	"encoding/binary"
	"fmt"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/encoding"
	"github.com/Faultbox/i3d-tools/pkg/mesh"
)

// Dialect selects how a mesh node is laid out.
type Dialect uint8

const (
	// Dialect3DS writes shared uvs (0x4140) in the classic child order:
	// points, transform, faces, uvs, then preserved chunks.
	Dialect3DS Dialect = iota
	// DialectI3D writes corner channels (0x4200) with children sorted by id.
	DialectI3D
)

func (d Dialect) String() string {
	switch d {
	case Dialect3DS:
		return "3ds"
	case DialectI3D:
		return "i3d"
	default:
		return fmt.Sprintf("dialect(%d)", uint8(d))
	}
}

// BuildMeshNode serializes a mesh into an OBJECT_MESH node. The mesh must
// already be in the dialect's uv layout: Dialect3DS rejects corner channels
// and DialectI3D rejects a shared channel.
func BuildMeshNode(ex *ExtractedMesh, d Dialect) (*chunk.Node, error) {
	m := ex.Mesh
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	switch {
	case d == Dialect3DS && len(m.Channels) > 0:
		return nil, fmt.Errorf("mesh %q: %d corner channels in a 3ds mesh: %w", m.Name, len(m.Channels), mesh.ErrAmbiguousReindex)
	case d == DialectI3D && m.Shared != nil:
		return nil, fmt.Errorf("mesh %q: shared uvs in an i3d mesh: %w", m.Name, mesh.ErrAmbiguousReindex)
	}

	points, err := EncodeNode(PointArray{Points: m.Positions})
	if err != nil {
		return nil, err
	}
	faces, err := buildFaceNode(ex)
	if err != nil {
		return nil, err
	}

	children := []*chunk.Node{points}
	if m.Transform != nil {
		xf, _ := EncodeNode(TransformMatrix{Matrix: *m.Transform})
		children = append(children, xf)
	}
	children = append(children, faces)
	if m.Shared != nil {
		uv, err := EncodeNode(SharedUV{UVs: m.Shared})
		if err != nil {
			return nil, err
		}
		children = append(children, uv)
	}
	for _, id := range m.ChannelIDs() {
		ch := m.Channels[id]
		fmc := FaceMapChannel{Channel: id, UVs: ch.UVs, Faces: make([][3]uint16, len(ch.Faces))}
		for i, f := range ch.Faces {
			fmc.Faces[i] = [3]uint16{uint16(f[0]), uint16(f[1]), uint16(f[2])}
		}
		node, err := EncodeNode(fmc)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	children = append(children, ex.Extras...)

	out := chunk.NewNode(chunk.IDObjectMesh, nil, children...)
	if d == DialectI3D {
		out.SortChildren()
	}
	return out, nil
}

func buildFaceNode(ex *ExtractedMesh) (*chunk.Node, error) {
	m := ex.Mesh
	records := make([]FaceRecord, len(m.Faces))
	for i, f := range m.Faces {
		records[i] = FaceRecord{A: uint16(f[0]), B: uint16(f[1]), C: uint16(f[2])}
		if m.FaceFlags != nil {
			records[i].Flags = m.FaceFlags[i]
		}
	}

	var children []*chunk.Node
	if m.FaceMaterial != nil {
		for _, g := range mesh.GroupMaterials(m.FaceMaterial) {
			if g.Default {
				continue
			}
			mg := MaterialGroup{Name: g.Name, Faces: make([]uint16, len(g.Faces))}
			for i, f := range g.Faces {
				mg.Faces[i] = uint16(f)
			}
			node, err := EncodeNode(mg)
			if err != nil {
				return nil, err
			}
			children = append(children, node)
		}
	}
	if m.Smoothing != nil {
		node, err := EncodeNode(Smoothing{Masks: m.Smoothing})
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	children = append(children, ex.FaceExtras...)

	return EncodeNode(FaceArray{Faces: records}, children...)
}

// BuildObjectNode wraps a mesh node into a named OBJECT node.
func BuildObjectNode(name string, meshNode *chunk.Node) *chunk.Node {
	data, _ := ObjectName{Name: name}.Encode()
	return chunk.NewNode(chunk.IDObject, data, meshNode)
}

// Material describes a material for BuildMaterialNode.
type Material struct {
	Name     string
	Diffuse  *[3]uint8
	TwoSided bool
	Texture  string // texture file name, empty for none
}

// BuildMaterialNode builds a MATERIAL node.
func BuildMaterialNode(mat Material) *chunk.Node {
	name, _ := EncodeNode(Name{ID: chunk.IDMatName, Value: mat.Name})
	node := chunk.NewNode(chunk.IDMaterial, nil, name)
	if mat.Diffuse != nil {
		rgb := chunk.NewNode(chunk.IDColor24, mat.Diffuse[:])
		node.Children = append(node.Children, chunk.NewNode(chunk.IDMatDiffuse, nil, rgb))
	}
	if mat.TwoSided {
		node.Children = append(node.Children, chunk.NewNode(chunk.IDMatTwoSide, nil))
	}
	if mat.Texture != "" {
		file, _ := EncodeNode(Name{ID: chunk.IDMatMapFile, Value: mat.Texture})
		node.Children = append(node.Children, chunk.NewNode(chunk.IDMatTexMap, nil, file))
	}
	return node
}

// KeyframerNode builds a minimal KFDATA block: a scene header and one
// object node tag per object, all at the origin.
func KeyframerNode(scene string, objects []string, frames uint32) *chunk.Node {
	hdr := binary.LittleEndian.AppendUint16(nil, 5)
	hdr = encoding.AppendCString(hdr, scene)
	hdr = binary.LittleEndian.AppendUint32(hdr, frames)

	kf := chunk.NewNode(chunk.IDKFData, nil, chunk.NewNode(chunk.IDKFHeader, hdr))
	for i, name := range objects {
		nodeHdr := encoding.AppendCString(nil, name)
		// flags1, flags2, parent (-1 = root)
		nodeHdr = append(nodeHdr, 0, 0, 0, 0, 0xFF, 0xFF)
		kf.Children = append(kf.Children, chunk.NewNode(chunk.IDKFObjectNode, nil,
			chunk.NewNode(chunk.IDKFNodeID, binary.LittleEndian.AppendUint16(nil, uint16(i))),
			chunk.NewNode(chunk.IDKFNodeHeader, nodeHdr),
			chunk.NewNode(chunk.IDKFPivot, make([]byte, 12)),
		))
	}
	return kf
}

// Document versions written by ComposeDocument.
const (
	Version3DS uint32 = 3
	VersionI3D uint32 = 200
)

// ComposeDocument assembles a complete chunk file:
// PRIMARY{M3D_VERSION, OBJECTINFO{EDIT_CONFIG, materials, objects}, extra}.
// extra holds top-level siblings such as a KFDATA block.
func ComposeDocument(version uint32, materials, objects []*chunk.Node, extra ...*chunk.Node) *chunk.Tree {
	ver, _ := EncodeNode(Version{ID: chunk.IDVersion, Value: version})
	cfg, _ := EncodeNode(Version{ID: chunk.IDEditConfig, Value: 3})

	info := chunk.NewNode(chunk.IDObjectInfo, nil, cfg)
	info.Children = append(info.Children, materials...)
	info.Children = append(info.Children, objects...)

	primary := chunk.NewNode(chunk.IDPrimary, nil, ver, info)
	primary.Children = append(primary.Children, extra...)
	return &chunk.Tree{Roots: []*chunk.Node{primary}}
}
