// Package mesh holds the in-memory triangle mesh and the algorithms that move
// texture coordinates between shared-index and corner-index layouts.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/i3d-tools/pkg/math"
)

// MaxCount is the largest vertex, face or uv count a u16 field can carry.
const MaxCount = 0xFFFF

var (
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrCapacityExceeded  = errors.New("count exceeds 65535")
	ErrAmbiguousReindex  = errors.New("ambiguous reindex")
	ErrSmoothingGroup    = errors.New("smoothing group out of range")
	ErrInconsistentFaces = errors.New("per-face data length mismatch")
)

// Triangle holds three vertex indices.
type Triangle [3]int

// CornerChannel is a corner-indexed uv channel: its own uv table plus one uv
// triangle per geometric face.
type CornerChannel struct {
	UVs   []math.Vec2
	Faces []Triangle
}

// Clone returns a deep copy.
func (c *CornerChannel) Clone() *CornerChannel {
	return &CornerChannel{
		UVs:   append([]math.Vec2(nil), c.UVs...),
		Faces: append([]Triangle(nil), c.Faces...),
	}
}

// Mesh is one triangle mesh. Per-face slices are either nil or have one entry
// per face.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Faces     []Triangle

	FaceFlags    []uint16
	FaceMaterial []string // "" means no material
	Smoothing    []uint32 // raw smoothing masks

	Transform *math.Affine

	Shared   []math.Vec2              // shared-indexed uvs, one per position
	Channels map[int32]*CornerChannel // corner-indexed uv channels by id
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// VertexCount returns the number of positions.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// HasUVs reports whether the mesh carries any uv data.
func (m *Mesh) HasUVs() bool {
	return m.Shared != nil || len(m.Channels) > 0
}

// ChannelIDs returns the corner channel ids in ascending order.
func (m *Mesh) ChannelIDs() []int32 {
	ids := make([]int32, 0, len(m.Channels))
	for id := range m.Channels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Validate checks the index and length invariants.
func (m *Mesh) Validate() error {
	faces := len(m.Faces)
	if err := checkFaces(m.Faces, len(m.Positions)); err != nil {
		return fmt.Errorf("faces: %w", err)
	}
	if m.FaceFlags != nil && len(m.FaceFlags) != faces {
		return fmt.Errorf("face flags: %d for %d faces: %w", len(m.FaceFlags), faces, ErrInconsistentFaces)
	}
	if m.FaceMaterial != nil && len(m.FaceMaterial) != faces {
		return fmt.Errorf("face materials: %d for %d faces: %w", len(m.FaceMaterial), faces, ErrInconsistentFaces)
	}
	if m.Smoothing != nil && len(m.Smoothing) != faces {
		return fmt.Errorf("smoothing: %d for %d faces: %w", len(m.Smoothing), faces, ErrInconsistentFaces)
	}
	if m.Shared != nil && len(m.Shared) != len(m.Positions) {
		return fmt.Errorf("shared uvs: %d for %d positions: %w", len(m.Shared), len(m.Positions), ErrAmbiguousReindex)
	}
	for _, id := range m.ChannelIDs() {
		ch := m.Channels[id]
		if len(ch.Faces) != faces {
			return fmt.Errorf("channel %d: %d uv faces for %d faces: %w", id, len(ch.Faces), faces, ErrAmbiguousReindex)
		}
		if err := checkFaces(ch.Faces, len(ch.UVs)); err != nil {
			return fmt.Errorf("channel %d: %w", id, err)
		}
	}
	return nil
}

func checkFaces(faces []Triangle, limit int) error {
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= limit {
				return fmt.Errorf("face %d index %d (limit %d): %w", i, idx, limit, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// SmoothingGroups decodes the per-face masks into group ids (0 = off).
// It returns nil when the mesh has no smoothing data.
func (m *Mesh) SmoothingGroups() []int {
	if m.Smoothing == nil {
		return nil
	}
	groups := make([]int, len(m.Smoothing))
	for i, mask := range m.Smoothing {
		groups[i] = DecodeSmoothing(mask)
	}
	return groups
}

// SetSmoothingGroups encodes group ids into per-face masks.
func (m *Mesh) SetSmoothingGroups(groups []int) error {
	if len(groups) != len(m.Faces) {
		return fmt.Errorf("%d groups for %d faces: %w", len(groups), len(m.Faces), ErrInconsistentFaces)
	}
	masks := make([]uint32, len(groups))
	for i, g := range groups {
		mask, err := EncodeSmoothing(g)
		if err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
		masks[i] = mask
	}
	m.Smoothing = masks
	return nil
}

// AddSmoothing assigns every face to group when the mesh has no smoothing
// data. It reports whether anything was added.
func (m *Mesh) AddSmoothing(group int) (bool, error) {
	if m.Smoothing != nil || len(m.Faces) == 0 {
		return false, nil
	}
	groups := make([]int, len(m.Faces))
	for i := range groups {
		groups[i] = group
	}
	if err := m.SetSmoothingGroups(groups); err != nil {
		return false, err
	}
	return true, nil
}

// BakeTransform applies the placement matrix to every position and clears it.
// It reports whether a transform was applied.
func (m *Mesh) BakeTransform() bool {
	if m.Transform == nil {
		return false
	}
	t := *m.Transform
	for i, p := range m.Positions {
		m.Positions[i] = t.Apply(p)
	}
	m.Transform = nil
	return true
}

// Bounds returns the axis-aligned bounds of the positions.
func (m *Mesh) Bounds() (lo, hi math.Vec3, ok bool) {
	return math.Bounds(m.Positions)
}
