// Package convert runs whole-file conversions between the 3DS and I3D dialects.
package convert

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/i3d-tools/internal/config"
	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/encoding"
	"github.com/Faultbox/i3d-tools/pkg/formats"
)

// ErrStructure is returned when a file has anomalies in data a conversion needs.
var ErrStructure = errors.New("damaged chunk structure")

// Direction selects the target dialect.
type Direction uint8

const (
	ToThreeDS Direction = iota
	ToI3D
)

func (d Direction) String() string {
	if d == ToI3D {
		return "3ds->i3d"
	}
	return "i3d->3ds"
}

// Options controls a conversion.
type Options struct {
	UVChannel     int32
	BakeTransform bool
	CompactUVs    bool
	AddSmoothing  bool
}

// OptionsFrom extracts conversion options from the config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		UVChannel:     cfg.Conversion.UVChannel,
		BakeTransform: cfg.Conversion.BakeTransform,
		CompactUVs:    cfg.Conversion.CompactUVs,
		AddSmoothing:  cfg.Conversion.AddSmoothing,
	}
}

// Stats summarizes a finished conversion.
type Stats struct {
	Objects     int
	Meshes      int
	VerticesIn  int
	VerticesOut int
	Faces       int
	Fallbacks   int // meshes that used another channel than requested
	Baked       int
	Dropped     int // per-vertex chunks dropped after splitting
	Warnings    int // non-fatal anomalies
}

// Converter converts chunk trees between dialects. A Converter holds no state
// between calls and may be reused.
type Converter struct {
	opts    Options
	reg     *chunk.Registry
	charset encoding.Charset
	log     *zap.Logger
}

// New creates a converter. A nil logger discards output.
func New(opts Options, charset encoding.Charset, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{opts: opts, reg: chunk.Default(), charset: charset, log: log}
}

// ConvertFile reads src, converts it and writes dst. dst is only replaced
// when the whole conversion succeeds.
func (c *Converter) ConvertFile(src, dst string, dir Direction) (Stats, error) {
	log := c.log.With(
		zap.String("run", uuid.NewString()),
		zap.String("direction", dir.String()),
	)
	log.Info("converting", zap.String("src", src), zap.String("dst", dst))

	data, err := os.ReadFile(src)
	if err != nil {
		return Stats{}, fmt.Errorf("reading %s: %w", src, err)
	}
	tree, anomalies := chunk.Read(data, c.reg)

	stats, err := c.Convert(tree, anomalies, dir, log)
	if err != nil {
		return stats, err
	}
	if err := WriteDocument(dst, tree); err != nil {
		return stats, err
	}

	log.Info("done",
		zap.Int("objects", stats.Objects),
		zap.Int("meshes", stats.Meshes),
		zap.Int("vertices_in", stats.VerticesIn),
		zap.Int("vertices_out", stats.VerticesOut),
		zap.Int("faces", stats.Faces),
		zap.Int("warnings", stats.Warnings),
	)
	return stats, nil
}

// Convert rewrites every mesh of tree in place for the target dialect.
// Chunks outside OBJECTINFO objects are passed through untouched.
func (c *Converter) Convert(tree *chunk.Tree, anomalies chunk.Anomalies, dir Direction, log *zap.Logger) (Stats, error) {
	if log == nil {
		log = c.log
	}
	var stats Stats

	if err := checkAnomalies(anomalies, log); err != nil {
		return stats, err
	}
	stats.Warnings = len(anomalies)

	if len(tree.Roots) == 0 || tree.Roots[0].ID != chunk.IDPrimary {
		return stats, formats.ErrNotChunkFile
	}
	primary := tree.Roots[0]
	info := primary.Child(chunk.IDObjectInfo)
	if info == nil {
		return stats, fmt.Errorf("%w: OBJECTINFO missing", formats.ErrNotChunkFile)
	}

	if dir == ToThreeDS {
		if n := primary.Child(chunk.IDVersion); n != nil {
			n.Payload, _ = formats.Version{ID: chunk.IDVersion, Value: formats.Version3DS}.Encode()
		}
	}

	for _, obj := range info.ChildrenOf(chunk.IDObject) {
		stats.Objects++
		if err := c.convertObject(obj, dir, &stats, log); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// checkAnomalies fails on anomalies touching OBJECTINFO or the PRIMARY chunk
// itself and logs the rest.
func checkAnomalies(anomalies chunk.Anomalies, log *zap.Logger) error {
	var fatal chunk.Anomalies
	for _, a := range anomalies {
		if a.Touches(chunk.IDObjectInfo) || (a.Kind != chunk.TruncatedHeader && a.ID == chunk.IDPrimary) {
			fatal = append(fatal, a)
			continue
		}
		log.Warn("ignoring damaged chunk outside OBJECTINFO", zap.Error(a))
	}
	if len(fatal) > 0 {
		return fmt.Errorf("%w: %v", ErrStructure, fatal.Err())
	}
	return nil
}
