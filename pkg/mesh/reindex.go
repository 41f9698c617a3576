package mesh

import (
	"fmt"

	"github.com/Faultbox/i3d-tools/pkg/math"
)

// SplitResult is a shared-index mesh produced from a corner channel.
// Positions and UVs have the same length, and Source[i] is the input position
// index that output vertex i was copied from.
type SplitResult struct {
	Positions []math.Vec3
	UVs       []math.Vec2
	Faces     []Triangle
	Source    []int
}

type cornerKey struct {
	pos, uv int
}

// Split duplicates positions so that every (position, uv) pair used by a face
// corner becomes its own vertex. The first occurrence of a pair appends a
// vertex; later occurrences reuse it. Positions no face refers to are dropped.
func Split(positions []math.Vec3, faces []Triangle, ch *CornerChannel) (*SplitResult, error) {
	if ch == nil || len(ch.Faces) != len(faces) {
		got := 0
		if ch != nil {
			got = len(ch.Faces)
		}
		return nil, fmt.Errorf("%d uv faces for %d faces: %w", got, len(faces), ErrAmbiguousReindex)
	}
	if err := checkFaces(faces, len(positions)); err != nil {
		return nil, fmt.Errorf("position faces: %w", err)
	}
	if err := checkFaces(ch.Faces, len(ch.UVs)); err != nil {
		return nil, fmt.Errorf("uv faces: %w", err)
	}

	res := &SplitResult{
		Positions: make([]math.Vec3, 0, len(positions)),
		UVs:       make([]math.Vec2, 0, len(positions)),
		Faces:     make([]Triangle, len(faces)),
		Source:    make([]int, 0, len(positions)),
	}
	seen := make(map[cornerKey]int, len(positions))
	for fi, f := range faces {
		uf := ch.Faces[fi]
		for k := 0; k < 3; k++ {
			key := cornerKey{f[k], uf[k]}
			idx, ok := seen[key]
			if !ok {
				idx = len(res.Positions)
				if idx >= MaxCount {
					return nil, fmt.Errorf("split vertices at face %d: %w", fi, ErrCapacityExceeded)
				}
				seen[key] = idx
				res.Positions = append(res.Positions, positions[key.pos])
				res.UVs = append(res.UVs, ch.UVs[key.uv])
				res.Source = append(res.Source, key.pos)
			}
			res.Faces[fi][k] = idx
		}
	}
	return res, nil
}

// ReindexResult reports what ToShared did.
type ReindexResult struct {
	Channel  int32 // channel used, meaningful only when a channel existed
	Fallback bool  // the preferred channel was missing
	Before   int   // vertex count before
	After    int   // vertex count after
	Source   []int // output vertex -> input vertex, nil when order is unchanged
}

// Reordered reports whether per-vertex data keyed by the old order is now invalid.
func (r ReindexResult) Reordered() bool {
	return r.Source != nil
}

// ToShared converts the mesh to the shared-index layout used by 3DS. The
// preferred channel is used when present, otherwise the lowest channel id.
// All corner channels are removed afterwards.
//
// A mesh with no uv data is left untouched. A shared channel that does not
// match the position count is rejected instead of guessed at. A mesh without
// faces keeps its positions and loses its uvs, since no corner references them.
func (m *Mesh) ToShared(prefer int32) (ReindexResult, error) {
	res := ReindexResult{Before: len(m.Positions), After: len(m.Positions)}
	if len(m.Channels) == 0 {
		if m.Shared != nil && len(m.Shared) != len(m.Positions) {
			return res, fmt.Errorf("%d shared uvs for %d positions: %w", len(m.Shared), len(m.Positions), ErrAmbiguousReindex)
		}
		return res, nil
	}

	if len(m.Faces) == 0 {
		res.Channel = prefer
		if _, ok := m.Channels[prefer]; !ok {
			res.Channel = m.ChannelIDs()[0]
			res.Fallback = true
		}
		m.Shared = nil
		m.Channels = nil
		return res, nil
	}

	ch, ok := m.Channels[prefer]
	res.Channel = prefer
	if !ok {
		res.Channel = m.ChannelIDs()[0]
		res.Fallback = true
		ch = m.Channels[res.Channel]
	}

	if aligned(m.Faces, ch, len(m.Positions)) {
		m.Shared = append([]math.Vec2(nil), ch.UVs...)
		m.Channels = nil
		return res, nil
	}

	split, err := Split(m.Positions, m.Faces, ch)
	if err != nil {
		return res, fmt.Errorf("channel %d: %w", res.Channel, err)
	}
	m.Positions = split.Positions
	m.Faces = split.Faces
	m.Shared = split.UVs
	m.Channels = nil
	res.After = len(split.Positions)
	res.Source = split.Source
	return res, nil
}

// aligned reports whether the channel already indexes uvs by position.
func aligned(faces []Triangle, ch *CornerChannel, positions int) bool {
	if len(ch.UVs) != positions || len(ch.Faces) != len(faces) {
		return false
	}
	for i := range faces {
		if faces[i] != ch.Faces[i] {
			return false
		}
	}
	return true
}

// Dedup builds a corner channel from per-corner uvs, keeping each distinct
// value once in first-seen order. Values are compared by their float bits.
func Dedup(corners [][3]math.Vec2) (*CornerChannel, error) {
	ch := &CornerChannel{Faces: make([]Triangle, len(corners))}
	seen := make(map[[2]uint32]int)
	for fi, corner := range corners {
		for k, uv := range corner {
			key := uv.Key()
			idx, ok := seen[key]
			if !ok {
				idx = len(ch.UVs)
				if idx >= MaxCount {
					return nil, fmt.Errorf("uv table at face %d: %w", fi, ErrCapacityExceeded)
				}
				seen[key] = idx
				ch.UVs = append(ch.UVs, uv)
			}
			ch.Faces[fi][k] = idx
		}
	}
	return ch, nil
}

// Corners expands a channel into per-corner uvs.
func (c *CornerChannel) Corners() [][3]math.Vec2 {
	out := make([][3]math.Vec2, len(c.Faces))
	for i, f := range c.Faces {
		out[i] = [3]math.Vec2{c.UVs[f[0]], c.UVs[f[1]], c.UVs[f[2]]}
	}
	return out
}

// ToCorner converts a shared uv channel into corner channel id. By default the
// position faces double as uv faces and the uv table is copied; with compact
// set the per-corner uvs are deduplicated into the smallest table instead.
// A mesh without a shared channel is left untouched. An existing channel with
// the same id is never replaced.
func (m *Mesh) ToCorner(id int32, compact bool) error {
	if m.Shared == nil {
		return nil
	}
	if _, ok := m.Channels[id]; ok {
		return fmt.Errorf("channel %d already present next to shared uvs: %w", id, ErrAmbiguousReindex)
	}
	if len(m.Shared) != len(m.Positions) {
		return fmt.Errorf("%d shared uvs for %d positions: %w", len(m.Shared), len(m.Positions), ErrAmbiguousReindex)
	}
	if err := checkFaces(m.Faces, len(m.Positions)); err != nil {
		return err
	}

	ch := &CornerChannel{
		UVs:   append([]math.Vec2(nil), m.Shared...),
		Faces: append([]Triangle(nil), m.Faces...),
	}
	if compact {
		var err error
		if ch, err = Dedup(ch.Corners()); err != nil {
			return fmt.Errorf("channel %d: %w", id, err)
		}
	}
	if m.Channels == nil {
		m.Channels = make(map[int32]*CornerChannel)
	}
	m.Channels[id] = ch
	m.Shared = nil
	return nil
}
