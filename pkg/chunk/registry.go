package chunk

import (
	"fmt"
	"sort"
)

// Kind tells the decoder whether to descend into a chunk.
type Kind uint8

const (
	Auto      Kind = iota // descend only if the payload starts with a fitting header
	Container             // always descend
	Flat                  // opaque payload, never descend
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case Container:
		return "container"
	case Flat:
		return "flat"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Prefix describes payload bytes a container carries before its children.
type Prefix uint8

const (
	PrefixNone      Prefix = iota
	PrefixCString          // NUL-terminated name (OBJECT)
	PrefixFaceArray        // u16 count + count*8 bytes of face records (OBJECT_FACES)
)

// Entry classifies one chunk type.
type Entry struct {
	ID     uint16
	Name   string
	Kind   Kind
	Prefix Prefix
}

// Registry is an immutable chunk-type table.
type Registry struct {
	entries map[uint16]Entry
}

// NewRegistry builds a registry. Later entries override earlier ones with the same ID.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[uint16]Entry, len(entries))}
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return r
}

// Lookup returns the entry for id. Unknown ids are reported as Auto so that
// unseen extension chunks are peeked rather than blindly truncated.
func (r *Registry) Lookup(id uint16) Entry {
	if e, ok := r.entries[id]; ok {
		return e
	}
	return Entry{ID: id, Name: fmt.Sprintf("UNKNOWN_%04X", id), Kind: Auto}
}

// Known reports whether id has an explicit entry.
func (r *Registry) Known(id uint16) bool {
	_, ok := r.entries[id]
	return ok
}

// Name returns the label for id.
func (r *Registry) Name(id uint16) string {
	return r.Lookup(id).Name
}

// IDs returns all registered ids in ascending order.
func (r *Registry) IDs() []uint16 {
	ids := make([]uint16, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var defaultRegistry = NewRegistry(
	Entry{IDPrimary, "PRIMARY", Container, PrefixNone},
	Entry{IDVersion, "M3D_VERSION", Flat, PrefixNone},
	Entry{IDObjectInfo, "OBJECTINFO", Container, PrefixNone},
	Entry{IDEditConfig, "EDIT_CONFIG", Flat, PrefixNone},

	Entry{IDColorFloat, "COLOR_FLOAT", Flat, PrefixNone},
	Entry{IDColor24, "COLOR_24", Flat, PrefixNone},
	Entry{IDLinColor24F, "LIN_COLOR_24F", Flat, PrefixNone},
	Entry{IDPercentI, "PERCENT_I", Flat, PrefixNone},
	Entry{IDPercentF, "PERCENT_F", Flat, PrefixNone},

	Entry{IDMaterial, "MATERIAL", Container, PrefixNone},
	Entry{IDMatName, "MAT_NAME", Flat, PrefixNone},
	Entry{IDMatAmbient, "MAT_AMBIENT", Auto, PrefixNone},
	Entry{IDMatDiffuse, "MAT_DIFFUSE", Auto, PrefixNone},
	Entry{IDMatSpecular, "MAT_SPECULAR", Auto, PrefixNone},
	Entry{IDMatShininess, "MAT_SHININESS", Auto, PrefixNone},
	Entry{IDMatShin2Pct, "MAT_SHIN2PCT", Auto, PrefixNone},
	Entry{IDMatTransparent, "MAT_TRANSPARENCY", Auto, PrefixNone},
	Entry{IDMatXPFall, "MAT_XPFALL", Auto, PrefixNone},
	Entry{IDMatRefBlur, "MAT_REFBLUR", Auto, PrefixNone},
	Entry{IDMatTwoSide, "MAT_TWO_SIDE", Flat, PrefixNone},
	Entry{IDMatSelfIlPct, "MAT_SELF_ILPCT", Auto, PrefixNone},
	Entry{IDMatWireSize, "MAT_WIRESIZE", Flat, PrefixNone},
	Entry{IDMatTransFallIn, "MAT_TRANS_FALLOFF_IN", Flat, PrefixNone},
	Entry{IDMatSoften, "MAT_SOFTEN", Flat, PrefixNone},
	Entry{IDMatShading, "MAT_SHADING", Flat, PrefixNone},
	Entry{IDMatTexMap, "MAT_TEXMAP", Container, PrefixNone},
	Entry{IDMatMapFile, "MAT_MAP_FILEPATH", Flat, PrefixNone},
	Entry{IDMatMapTiling, "MAT_MAP_TILING", Flat, PrefixNone},
	Entry{IDMatMapTexBlur, "MAT_MAP_TEXBLUR", Flat, PrefixNone},

	Entry{IDObject, "OBJECT", Container, PrefixCString},
	Entry{IDObjectMesh, "OBJECT_MESH", Container, PrefixNone},
	Entry{IDPointArray, "POINT_ARRAY", Flat, PrefixNone},
	Entry{IDVertexOptions, "VERTEX_OPTIONS", Flat, PrefixNone},
	Entry{IDFaceArray, "OBJECT_FACES", Container, PrefixFaceArray},
	Entry{IDMaterialGroup, "OBJECT_MATERIAL", Flat, PrefixNone},
	Entry{IDSharedUV, "OBJECT_UV", Flat, PrefixNone},
	Entry{IDSmoothing, "OBJECT_SMOOTH", Flat, PrefixNone},
	Entry{IDTransform, "OBJECT_TRANS_MATRIX", Flat, PrefixNone},
	Entry{IDTriVisible, "OBJECT_TRI_VISIBLE", Flat, PrefixNone},
	Entry{IDMeshTexInfo, "MESH_TEXTURE_INFO", Auto, PrefixNone},
	Entry{IDMeshColor, "MESH_COLOR", Auto, PrefixNone},
	Entry{IDFaceMapChannel, "FACE_MAP_CHANNEL", Flat, PrefixNone},
	Entry{IDObjectLight, "OBJECT_LIGHT", Flat, PrefixNone},
	Entry{IDObjectCamera, "OBJECT_CAMERA", Flat, PrefixNone},

	Entry{IDViewportLayout, "VIEWPORT_LAYOUT", Flat, PrefixNone},
	Entry{IDViewportData, "VIEWPORT_DATA", Flat, PrefixNone},
	Entry{IDViewportData3, "VIEWPORT_DATA_3", Flat, PrefixNone},
	Entry{IDMeshDisplay, "MESH_DISPLAY", Flat, PrefixNone},

	Entry{IDKFData, "KFDATA", Container, PrefixNone},
	Entry{IDKFHeader, "KFHDR", Flat, PrefixNone},
	Entry{IDKFCurTimeRange, "KFCURTIME_RANGE", Flat, PrefixNone},
	Entry{IDKFCurTime, "KFCURTIME", Flat, PrefixNone},
	Entry{IDKFObjectNode, "OBJECT_NODE_TAG", Container, PrefixNone},
	Entry{IDKFCameraNode, "CAMERA_NODE_TAG", Container, PrefixNone},
	Entry{IDKFTargetNode, "TARGET_NODE_TAG", Container, PrefixNone},
	Entry{IDKFLightNode, "LIGHT_NODE_TAG", Container, PrefixNone},
	Entry{IDKFLTargetNode, "L_TARGET_NODE_TAG", Container, PrefixNone},
	Entry{IDKFSpotlightNode, "SPOTLIGHT_NODE_TAG", Container, PrefixNone},
	Entry{IDKFNodeHeader, "NODE_HDR", Flat, PrefixNone},
	Entry{IDKFInstanceName, "INSTANCE_NAME", Flat, PrefixNone},
	Entry{IDKFPivot, "PIVOT", Flat, PrefixNone},
	Entry{IDKFBoundBox, "BOUNDBOX", Flat, PrefixNone},
	Entry{IDKFPosTrack, "POS_TRACK_TAG", Flat, PrefixNone},
	Entry{IDKFRotTrack, "ROT_TRACK_TAG", Flat, PrefixNone},
	Entry{IDKFSclTrack, "SCL_TRACK_TAG", Flat, PrefixNone},
	Entry{IDKFNodeID, "NODE_ID", Flat, PrefixNone},
)

// Default returns the 3DS/I3D registry. The returned value is shared and must
// not be modified; it has no mutating methods.
func Default() *Registry {
	return defaultRegistry
}
