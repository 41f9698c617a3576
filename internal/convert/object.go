package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/formats"
)

// perVertex lists mesh children holding one record per vertex. They become
// meaningless once vertices are split or reordered.
var perVertex = []uint16{chunk.IDVertexOptions, chunk.IDMeshColor}

func (c *Converter) convertObject(obj *chunk.Node, dir Direction, stats *Stats, log *zap.Logger) error {
	name, err := formats.ReadObjectName(obj)
	if err != nil {
		return err
	}
	log = log.With(zap.String("object", c.charset.Display(name)))

	for i, child := range obj.Children {
		if child.ID != chunk.IDObjectMesh {
			continue
		}
		rebuilt, err := c.convertMesh(name, child, dir, stats, log)
		if err != nil {
			return err
		}
		obj.Children[i] = rebuilt
		stats.Meshes++
	}
	return nil
}

func (c *Converter) convertMesh(name string, n *chunk.Node, dir Direction, stats *Stats, log *zap.Logger) (*chunk.Node, error) {
	ex, err := formats.ExtractMesh(name, n)
	if err != nil {
		return nil, err
	}
	m := ex.Mesh
	if err := m.Validate(); err != nil {
		return nil, meshErr(n, "validate", err)
	}
	stats.VerticesIn += m.VertexCount()
	stats.Faces += m.FaceCount()

	if c.opts.BakeTransform && m.BakeTransform() {
		stats.Baked++
		log.Debug("baked transform")
	}

	dialect := formats.Dialect3DS
	switch dir {
	case ToThreeDS:
		res, err := m.ToShared(c.opts.UVChannel)
		if err != nil {
			return nil, meshErr(n, "split", err)
		}
		if res.Fallback {
			stats.Fallbacks++
			log.Warn("uv channel missing, using lowest channel",
				zap.Int32("requested", c.opts.UVChannel),
				zap.Int32("used", res.Channel))
		}
		if res.Reordered() {
			log.Debug("split uv seams", zap.Int("before", res.Before), zap.Int("after", res.After))
			dropped := dropPerVertex(ex)
			for _, id := range dropped {
				log.Warn("dropping per-vertex chunk after split", zap.String("chunk", chunk.Default().Name(id)))
			}
			stats.Dropped += len(dropped)
		}
	case ToI3D:
		dialect = formats.DialectI3D
		if err := m.ToCorner(c.opts.UVChannel, c.opts.CompactUVs); err != nil {
			return nil, meshErr(n, "uv channel", err)
		}
	}

	if c.opts.AddSmoothing {
		added, err := m.AddSmoothing(1)
		if err != nil {
			return nil, meshErr(n, "smoothing", err)
		}
		if added {
			log.Debug("added smoothing group 1")
		}
	}

	stats.VerticesOut += m.VertexCount()
	out, err := formats.BuildMeshNode(ex, dialect)
	if err != nil {
		return nil, meshErr(n, "build", err)
	}
	return out, nil
}

// dropPerVertex removes per-vertex extras and returns the removed ids.
func dropPerVertex(ex *formats.ExtractedMesh) []uint16 {
	var dropped []uint16
	kept := ex.Extras[:0]
	for _, n := range ex.Extras {
		if isPerVertex(n.ID) {
			dropped = append(dropped, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	ex.Extras = kept
	return dropped
}

func isPerVertex(id uint16) bool {
	for _, v := range perVertex {
		if v == id {
			return true
		}
	}
	return false
}

func meshErr(n *chunk.Node, op string, err error) error {
	return &formats.ChunkError{ID: n.ID, Offset: n.Offset, Op: op, Err: err}
}
