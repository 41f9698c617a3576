package convert

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/encoding"
	"github.com/Faultbox/i3d-tools/pkg/formats"
)

// Entry describes one chunk in an analysis report.
type Entry struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Offset   int     `yaml:"offset"`
	Length   uint32  `yaml:"length"`
	Kind     string  `yaml:"kind"`
	Known    bool    `yaml:"known"`
	Detail   string  `yaml:"detail,omitempty"`
	Children []Entry `yaml:"children,omitempty"`
}

// AnomalyEntry describes one structural anomaly.
type AnomalyEntry struct {
	Kind     string   `yaml:"kind"`
	ID       string   `yaml:"id,omitempty"`
	Offset   int      `yaml:"offset"`
	Declared uint32   `yaml:"declared,omitempty"`
	Limit    int      `yaml:"limit"`
	Path     []string `yaml:"path,omitempty"`
}

// Report is the result of analyzing a chunk file. Anomalies never abort an
// analysis; they are listed next to whatever could be decoded.
type Report struct {
	File      string         `yaml:"file"`
	Size      int            `yaml:"size"`
	Chunks    int            `yaml:"chunks"`
	Unknown   []string       `yaml:"unknown_ids,omitempty"`
	Anomalies []AnomalyEntry `yaml:"anomalies,omitempty"`
	Tree      []Entry        `yaml:"tree"`
}

// Analyzer builds reports.
type Analyzer struct {
	Registry *chunk.Registry
	Charset  encoding.Charset
	MaxDepth int // 0 = unlimited
}

// Analyze decodes data and describes its chunk tree.
func (a *Analyzer) Analyze(file string, data []byte) *Report {
	reg := a.Registry
	if reg == nil {
		reg = chunk.Default()
	}
	tree, anomalies := chunk.Read(data, reg)

	r := &Report{File: file, Size: len(data), Chunks: tree.Count()}

	unknown := make(map[uint16]bool)
	tree.Walk(func(n *chunk.Node, _ []*chunk.Node) bool {
		if !reg.Known(n.ID) {
			unknown[n.ID] = true
		}
		return true
	})
	ids := make([]uint16, 0, len(unknown))
	for id := range unknown {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		r.Unknown = append(r.Unknown, hexID(id))
	}

	for _, an := range anomalies {
		e := AnomalyEntry{Kind: an.Kind.String(), Offset: an.Offset, Declared: an.Declared, Limit: an.Limit}
		if an.Kind != chunk.TruncatedHeader {
			e.ID = hexID(an.ID)
		}
		for _, p := range an.Ancestors {
			e.Path = append(e.Path, reg.Name(p))
		}
		r.Anomalies = append(r.Anomalies, e)
	}

	for _, root := range tree.Roots {
		r.Tree = append(r.Tree, a.entry(reg, root, 1))
	}
	return r
}

func (a *Analyzer) entry(reg *chunk.Registry, n *chunk.Node, depth int) Entry {
	info := reg.Lookup(n.ID)
	e := Entry{
		ID:     hexID(n.ID),
		Name:   info.Name,
		Offset: n.Offset,
		Length: n.Declared,
		Kind:   info.Kind.String(),
		Known:  reg.Known(n.ID),
		Detail: a.detail(n),
	}
	if a.MaxDepth > 0 && depth >= a.MaxDepth {
		return e
	}
	for _, c := range n.Children {
		e.Children = append(e.Children, a.entry(reg, c, depth+1))
	}
	return e
}

// detail renders a short description of payloads with a known shape.
func (a *Analyzer) detail(n *chunk.Node) string {
	p, err := formats.Decode(n.ID, n.Payload)
	if err != nil {
		return "malformed: " + err.Error()
	}
	switch v := p.(type) {
	case formats.ObjectName:
		return fmt.Sprintf("%q", a.Charset.Display(v.Name))
	case formats.Name:
		return fmt.Sprintf("%q", a.Charset.Display(v.Value))
	case formats.Version:
		return fmt.Sprintf("version %d", v.Value)
	case formats.PointArray:
		return fmt.Sprintf("%d points", len(v.Points))
	case formats.FaceArray:
		return fmt.Sprintf("%d faces", len(v.Faces))
	case formats.MaterialGroup:
		return fmt.Sprintf("%q: %d faces", a.Charset.Display(v.Name), len(v.Faces))
	case formats.Smoothing:
		return fmt.Sprintf("%d masks", len(v.Masks))
	case formats.SharedUV:
		return fmt.Sprintf("%d uvs", len(v.UVs))
	case formats.FaceMapChannel:
		return fmt.Sprintf("channel %d: %d uvs, %d faces", v.Channel, len(v.UVs), len(v.Faces))
	case formats.TransformMatrix:
		t := v.Matrix.Translation()
		return fmt.Sprintf("translate (%g, %g, %g)", t.X, t.Y, t.Z)
	case formats.Opaque:
		if len(v.Data) > 0 && len(n.Children) == 0 {
			return fmt.Sprintf("%d bytes", len(v.Data))
		}
	}
	return ""
}

// WriteText writes the report as an indented tree.
func (r *Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s (%d bytes, %d chunks)\n\n", r.File, r.Size, r.Chunks)
	for _, e := range r.Tree {
		writeEntry(&sb, e, 0)
	}
	if len(r.Unknown) > 0 {
		fmt.Fprintf(&sb, "\nUnknown chunk ids: %s\n", strings.Join(r.Unknown, ", "))
	}
	if len(r.Anomalies) > 0 {
		fmt.Fprintf(&sb, "\nAnomalies (%d):\n", len(r.Anomalies))
		for _, a := range r.Anomalies {
			fmt.Fprintf(&sb, "  %s", a.Kind)
			if a.ID != "" {
				fmt.Fprintf(&sb, " %s declares %d", a.ID, a.Declared)
			}
			fmt.Fprintf(&sb, " at %d (limit %d)", a.Offset, a.Limit)
			if len(a.Path) > 0 {
				fmt.Fprintf(&sb, " in %s", strings.Join(a.Path, "/"))
			}
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeEntry(sb *strings.Builder, e Entry, indent int) {
	fmt.Fprintf(sb, "%s%s %s @%d len=%d", strings.Repeat("  ", indent), e.ID, e.Name, e.Offset, e.Length)
	if e.Detail != "" {
		fmt.Fprintf(sb, " %s", e.Detail)
	}
	sb.WriteByte('\n')
	for _, c := range e.Children {
		writeEntry(sb, c, indent+1)
	}
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func hexID(id uint16) string {
	return fmt.Sprintf("0x%04X", id)
}
