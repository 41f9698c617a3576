package formats

import (
	"sort"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/math"
)

// MaterialInfo summarizes one MATERIAL block.
type MaterialInfo struct {
	Name     string   `yaml:"name"`
	Textures []string `yaml:"textures,omitempty"`
	TwoSided bool     `yaml:"two_sided,omitempty"`
}

// ChannelInfo summarizes one corner uv channel.
type ChannelInfo struct {
	ID    int32 `yaml:"id"`
	UVs   int   `yaml:"uvs"`
	Faces int   `yaml:"faces"`
}

// ObjectInfo summarizes one OBJECT block.
type ObjectInfo struct {
	Name      string        `yaml:"name"`
	Kind      string        `yaml:"kind"` // mesh, light, camera or empty
	Vertices  int           `yaml:"vertices,omitempty"`
	Faces     int           `yaml:"faces,omitempty"`
	SharedUVs int           `yaml:"shared_uvs,omitempty"`
	Channels  []ChannelInfo `yaml:"channels,omitempty"`
	Materials []string      `yaml:"materials,omitempty"`
	Smoothing []int         `yaml:"smoothing_groups,omitempty"`
	Transform bool          `yaml:"transform,omitempty"`
	Min       *math.Vec3    `yaml:"min,omitempty"`
	Max       *math.Vec3    `yaml:"max,omitempty"`
	Error     string        `yaml:"error,omitempty"`
}

// Document summarizes a chunk file.
type Document struct {
	Version     uint32         `yaml:"version"`
	MeshVersion uint32         `yaml:"mesh_version,omitempty"`
	Materials   []MaterialInfo `yaml:"materials,omitempty"`
	Objects     []ObjectInfo   `yaml:"objects,omitempty"`
	Keyframer   bool           `yaml:"keyframer"`
}

// TotalVertices returns the vertex count over all mesh objects.
func (d *Document) TotalVertices() int {
	total := 0
	for _, o := range d.Objects {
		total += o.Vertices
	}
	return total
}

// TotalFaces returns the face count over all mesh objects.
func (d *Document) TotalFaces() int {
	total := 0
	for _, o := range d.Objects {
		total += o.Faces
	}
	return total
}

// Summarize collects materials and objects from a decoded tree. Objects whose
// mesh cannot be extracted are listed with their error instead of failing the
// whole summary.
func Summarize(tree *chunk.Tree) (*Document, error) {
	if len(tree.Roots) == 0 || tree.Roots[0].ID != chunk.IDPrimary {
		return nil, ErrNotChunkFile
	}
	primary := tree.Roots[0]
	doc := &Document{}

	if n := primary.Child(chunk.IDVersion); n != nil {
		if p, err := Decode(n.ID, n.Payload); err == nil {
			doc.Version = p.(Version).Value
		}
	}
	doc.Keyframer = primary.Child(chunk.IDKFData) != nil

	info := primary.Child(chunk.IDObjectInfo)
	if info == nil {
		return doc, nil
	}
	if n := info.Child(chunk.IDEditConfig); n != nil {
		if p, err := Decode(n.ID, n.Payload); err == nil {
			doc.MeshVersion = p.(Version).Value
		}
	}
	for _, n := range info.ChildrenOf(chunk.IDMaterial) {
		doc.Materials = append(doc.Materials, summarizeMaterial(n))
	}
	for _, n := range info.ChildrenOf(chunk.IDObject) {
		doc.Objects = append(doc.Objects, summarizeObject(n))
	}
	return doc, nil
}

func summarizeMaterial(n *chunk.Node) MaterialInfo {
	var info MaterialInfo
	if c := n.Child(chunk.IDMatName); c != nil {
		if p, err := Decode(c.ID, c.Payload); err == nil {
			info.Name = p.(Name).Value
		}
	}
	info.TwoSided = n.Child(chunk.IDMatTwoSide) != nil
	for _, tm := range n.ChildrenOf(chunk.IDMatTexMap) {
		for _, f := range tm.ChildrenOf(chunk.IDMatMapFile) {
			if p, err := Decode(f.ID, f.Payload); err == nil {
				info.Textures = append(info.Textures, p.(Name).Value)
			}
		}
	}
	return info
}

func summarizeObject(n *chunk.Node) ObjectInfo {
	var info ObjectInfo
	name, err := ReadObjectName(n)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Name = name

	meshNode := n.Child(chunk.IDObjectMesh)
	switch {
	case meshNode != nil:
		info.Kind = "mesh"
	case n.Child(chunk.IDObjectLight) != nil:
		info.Kind = "light"
		return info
	case n.Child(chunk.IDObjectCamera) != nil:
		info.Kind = "camera"
		return info
	default:
		info.Kind = "empty"
		return info
	}

	ex, err := ExtractMesh(name, meshNode)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	m := ex.Mesh
	info.Vertices = m.VertexCount()
	info.Faces = m.FaceCount()
	info.SharedUVs = len(m.Shared)
	info.Transform = m.Transform != nil
	for _, id := range m.ChannelIDs() {
		ch := m.Channels[id]
		info.Channels = append(info.Channels, ChannelInfo{ID: id, UVs: len(ch.UVs), Faces: len(ch.Faces)})
	}

	seen := make(map[string]bool)
	for _, name := range m.FaceMaterial {
		if name != "" && !seen[name] {
			seen[name] = true
			info.Materials = append(info.Materials, name)
		}
	}

	groups := make(map[int]bool)
	for _, g := range m.SmoothingGroups() {
		if g != 0 {
			groups[g] = true
		}
	}
	for g := range groups {
		info.Smoothing = append(info.Smoothing, g)
	}
	sort.Ints(info.Smoothing)

	if lo, hi, ok := m.Bounds(); ok {
		info.Min, info.Max = &lo, &hi
	}
	if err := m.Validate(); err != nil {
		info.Error = err.Error()
	}
	return info
}
