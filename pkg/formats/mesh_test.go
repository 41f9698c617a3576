package formats

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	vec "github.com/Faultbox/i3d-tools/pkg/math"
	"github.com/Faultbox/i3d-tools/pkg/mesh"
)

// makeQuad returns a two-face quad with a seam on corner channel 1.
func makeQuad() *mesh.Mesh {
	return &mesh.Mesh{
		Name:         "Quad",
		Positions:    []vec.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:        []mesh.Triangle{{0, 1, 2}, {0, 2, 3}},
		FaceFlags:    []uint16{7, 7},
		FaceMaterial: []string{"Brick", ""},
		Smoothing:    []uint32{1, 6},
		Channels: map[int32]*mesh.CornerChannel{
			1: {
				UVs:   []vec.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}},
				Faces: []mesh.Triangle{{0, 1, 2}, {4, 2, 3}},
			},
		},
	}
}

func childIDs(n *chunk.Node) []uint16 {
	ids := make([]uint16, len(n.Children))
	for i, c := range n.Children {
		ids[i] = c.ID
	}
	return ids
}

func TestBuildMeshNode_I3DRoundTrip(t *testing.T) {
	extra := chunk.NewNode(chunk.IDTriVisible, []byte{1})
	src := &ExtractedMesh{Mesh: makeQuad(), Extras: []*chunk.Node{extra}}

	node, err := BuildMeshNode(src, DialectI3D)
	if err != nil {
		t.Fatalf("BuildMeshNode failed: %v", err)
	}
	want := []uint16{chunk.IDPointArray, chunk.IDFaceArray, chunk.IDTriVisible, chunk.IDFaceMapChannel}
	if got := childIDs(node); !reflect.DeepEqual(got, want) {
		t.Errorf("children = %x, want %x", got, want)
	}

	tree, anomalies := chunk.Read(node.Bytes(), chunk.Default())
	if len(anomalies) != 0 {
		t.Fatalf("anomalies: %v", anomalies.Err())
	}
	ex, err := ExtractMesh("Quad", tree.Roots[0])
	if err != nil {
		t.Fatalf("ExtractMesh failed: %v", err)
	}
	got := ex.Mesh
	orig := makeQuad()
	if !reflect.DeepEqual(got.Positions, orig.Positions) || !reflect.DeepEqual(got.Faces, orig.Faces) {
		t.Error("geometry changed")
	}
	if !reflect.DeepEqual(got.FaceMaterial, orig.FaceMaterial) {
		t.Errorf("materials = %q", got.FaceMaterial)
	}
	if !reflect.DeepEqual(got.Smoothing, orig.Smoothing) {
		t.Errorf("smoothing = %v", got.Smoothing)
	}
	if !reflect.DeepEqual(got.FaceFlags, orig.FaceFlags) {
		t.Errorf("flags = %v", got.FaceFlags)
	}
	if !reflect.DeepEqual(got.Channels[1], orig.Channels[1]) {
		t.Errorf("channel 1 = %+v", got.Channels[1])
	}
	if len(ex.Extras) != 1 || !bytes.Equal(ex.Extras[0].Payload, []byte{1}) {
		t.Errorf("extras = %v", ex.Extras)
	}
}

func TestBuildMeshNode_3DSOrder(t *testing.T) {
	m := makeQuad()
	if _, err := m.ToShared(1); err != nil {
		t.Fatalf("ToShared failed: %v", err)
	}
	xf := vec.IdentityAffine()
	m.Transform = &xf

	node, err := BuildMeshNode(&ExtractedMesh{Mesh: m}, Dialect3DS)
	if err != nil {
		t.Fatalf("BuildMeshNode failed: %v", err)
	}
	want := []uint16{chunk.IDPointArray, chunk.IDTransform, chunk.IDFaceArray, chunk.IDSharedUV}
	if got := childIDs(node); !reflect.DeepEqual(got, want) {
		t.Errorf("children = %x, want %x", got, want)
	}

	faces := node.Child(chunk.IDFaceArray)
	// the default group is never written
	if groups := faces.ChildrenOf(chunk.IDMaterialGroup); len(groups) != 1 {
		t.Errorf("material groups = %d, want 1", len(groups))
	}
	if faces.Child(chunk.IDSmoothing) == nil {
		t.Error("smoothing not nested in the face array")
	}
}

func TestBuildMeshNode_DialectMismatch(t *testing.T) {
	if _, err := BuildMeshNode(&ExtractedMesh{Mesh: makeQuad()}, Dialect3DS); !errors.Is(err, mesh.ErrAmbiguousReindex) {
		t.Errorf("corner channels in 3ds: got %v", err)
	}

	m := makeQuad()
	m.Channels = nil
	m.Shared = make([]vec.Vec2, 4)
	if _, err := BuildMeshNode(&ExtractedMesh{Mesh: m}, DialectI3D); !errors.Is(err, mesh.ErrAmbiguousReindex) {
		t.Errorf("shared uvs in i3d: got %v", err)
	}
}

func TestBuildMeshNode_Capacity(t *testing.T) {
	build := func(n int) *mesh.Mesh {
		return &mesh.Mesh{Positions: make([]vec.Vec3, n)}
	}
	if _, err := BuildMeshNode(&ExtractedMesh{Mesh: build(mesh.MaxCount)}, Dialect3DS); err != nil {
		t.Errorf("65535 positions: %v", err)
	}
	if _, err := BuildMeshNode(&ExtractedMesh{Mesh: build(mesh.MaxCount + 1)}, Dialect3DS); !errors.Is(err, mesh.ErrCapacityExceeded) {
		t.Errorf("65536 positions: got %v, want ErrCapacityExceeded", err)
	}
}

func TestExtractMesh_SiblingSmoothing(t *testing.T) {
	m := makeQuad()
	m.Smoothing = nil
	node, err := BuildMeshNode(&ExtractedMesh{Mesh: m}, DialectI3D)
	if err != nil {
		t.Fatalf("BuildMeshNode failed: %v", err)
	}
	smooth, _ := EncodeNode(Smoothing{Masks: []uint32{2, 2}})
	node.Children = append(node.Children, smooth)

	ex, err := ExtractMesh("Quad", node)
	if err != nil {
		t.Fatalf("ExtractMesh failed: %v", err)
	}
	if !reflect.DeepEqual(ex.Mesh.SmoothingGroups(), []int{2, 2}) {
		t.Errorf("groups = %v", ex.Mesh.SmoothingGroups())
	}
}

func TestExtractMesh_Errors(t *testing.T) {
	base := func() *chunk.Node {
		node, err := BuildMeshNode(&ExtractedMesh{Mesh: makeQuad()}, DialectI3D)
		if err != nil {
			t.Fatalf("BuildMeshNode failed: %v", err)
		}
		return node
	}

	tests := []struct {
		name    string
		mutate  func(n *chunk.Node)
		wantErr error
	}{
		{
			name: "material group face out of range",
			mutate: func(n *chunk.Node) {
				g, _ := EncodeNode(MaterialGroup{Name: "X", Faces: []uint16{5}})
				faces := n.Child(chunk.IDFaceArray)
				faces.Children = append(faces.Children, g)
			},
			wantErr: mesh.ErrIndexOutOfRange,
		},
		{
			name: "smoothing count mismatch",
			mutate: func(n *chunk.Node) {
				n.Child(chunk.IDFaceArray).Child(chunk.IDSmoothing).Payload = []byte{1, 0, 0, 0}
			},
			wantErr: ErrMalformedPayload,
		},
		{
			name: "repeated channel",
			mutate: func(n *chunk.Node) {
				n.Children = append(n.Children, n.Child(chunk.IDFaceMapChannel).Clone())
			},
			wantErr: ErrMalformedPayload,
		},
		{
			name: "truncated points",
			mutate: func(n *chunk.Node) {
				n.Child(chunk.IDPointArray).Payload = []byte{9, 0}
			},
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := base()
			tt.mutate(n)
			_, err := ExtractMesh("Quad", n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			var ce *ChunkError
			if !errors.As(err, &ce) {
				t.Errorf("error %v is not a *ChunkError", err)
			}
		})
	}
}

func TestComposeDocument_Summarize(t *testing.T) {
	meshNode, err := BuildMeshNode(&ExtractedMesh{Mesh: makeQuad()}, DialectI3D)
	if err != nil {
		t.Fatalf("BuildMeshNode failed: %v", err)
	}
	rgb := [3]uint8{200, 100, 50}
	materials := []*chunk.Node{BuildMaterialNode(Material{Name: "Brick", Diffuse: &rgb, Texture: "brick.bmp", TwoSided: true})}
	objects := []*chunk.Node{BuildObjectNode("Quad", meshNode)}
	tree := ComposeDocument(VersionI3D, materials, objects, KeyframerNode("Quad", []string{"Quad"}, 100))

	data := tree.Bytes()
	reread, anomalies := chunk.Read(data, chunk.Default())
	if len(anomalies) != 0 {
		t.Fatalf("anomalies: %v", anomalies.Err())
	}
	if !bytes.Equal(reread.Bytes(), data) {
		t.Fatal("composed document does not round trip")
	}

	doc, err := Summarize(reread)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if doc.Version != VersionI3D || doc.MeshVersion != 3 || !doc.Keyframer {
		t.Errorf("header = %+v", doc)
	}
	if len(doc.Materials) != 1 {
		t.Fatalf("materials = %d, want 1", len(doc.Materials))
	}
	mat := doc.Materials[0]
	if mat.Name != "Brick" || !mat.TwoSided || !reflect.DeepEqual(mat.Textures, []string{"brick.bmp"}) {
		t.Errorf("material = %+v", mat)
	}
	if len(doc.Objects) != 1 {
		t.Fatalf("objects = %d, want 1", len(doc.Objects))
	}
	obj := doc.Objects[0]
	if obj.Name != "Quad" || obj.Kind != "mesh" || obj.Vertices != 4 || obj.Faces != 2 {
		t.Errorf("object = %+v", obj)
	}
	if !reflect.DeepEqual(obj.Channels, []ChannelInfo{{ID: 1, UVs: 5, Faces: 2}}) {
		t.Errorf("channels = %+v", obj.Channels)
	}
	if !reflect.DeepEqual(obj.Smoothing, []int{1, 2}) {
		t.Errorf("smoothing = %v", obj.Smoothing)
	}
	if !reflect.DeepEqual(obj.Materials, []string{"Brick"}) {
		t.Errorf("object materials = %v", obj.Materials)
	}
	if obj.Max == nil || *obj.Max != (vec.Vec3{X: 1, Y: 1}) {
		t.Errorf("max = %v", obj.Max)
	}
	if obj.Error != "" {
		t.Errorf("unexpected error %q", obj.Error)
	}
	if doc.TotalVertices() != 4 || doc.TotalFaces() != 2 {
		t.Errorf("totals = %d/%d", doc.TotalVertices(), doc.TotalFaces())
	}
}

func TestSummarize_NotChunkFile(t *testing.T) {
	tree := &chunk.Tree{Roots: []*chunk.Node{chunk.NewNode(chunk.IDKFData, nil)}}
	if _, err := Summarize(tree); !errors.Is(err, ErrNotChunkFile) {
		t.Errorf("got %v, want ErrNotChunkFile", err)
	}
}

func TestReadObjectName(t *testing.T) {
	obj := BuildObjectNode("Box01", chunk.NewNode(chunk.IDObjectMesh, nil))
	name, err := ReadObjectName(obj)
	if err != nil {
		t.Fatalf("ReadObjectName failed: %v", err)
	}
	if name != "Box01" {
		t.Errorf("name = %q, want Box01", name)
	}

	p, err := Decode(chunk.IDObject, obj.Payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got, ok := p.(ObjectName); !ok || got.Name != "Box01" {
		t.Errorf("payload = %#v", p)
	}

	unterminated := chunk.NewNode(chunk.IDObject, []byte("Box"))
	var ce *ChunkError
	if _, err := ReadObjectName(unterminated); !errors.Is(err, ErrMalformedPayload) || !errors.As(err, &ce) {
		t.Errorf("err = %v, want ChunkError wrapping ErrMalformedPayload", err)
	}
}
