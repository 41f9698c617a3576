package convert

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/i3d-tools/pkg/chunk"
	"github.com/Faultbox/i3d-tools/pkg/encoding"
	"github.com/Faultbox/i3d-tools/pkg/formats"
)

// Info summarizes a chunk file. Names are converted to UTF-8 with charset.
func Info(data []byte, charset encoding.Charset) (*formats.Document, chunk.Anomalies, error) {
	tree, anomalies := chunk.Read(data, chunk.Default())
	doc, err := formats.Summarize(tree)
	if err != nil {
		return nil, anomalies, err
	}
	for i := range doc.Materials {
		m := &doc.Materials[i]
		m.Name = charset.Display(m.Name)
		for j, tex := range m.Textures {
			m.Textures[j] = charset.Display(tex)
		}
	}
	for i := range doc.Objects {
		o := &doc.Objects[i]
		o.Name = charset.Display(o.Name)
		for j, mat := range o.Materials {
			o.Materials[j] = charset.Display(mat)
		}
	}
	return doc, anomalies, nil
}

// WriteInfoText writes a human readable document summary.
func WriteInfoText(w io.Writer, file string, doc *formats.Document) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", file)
	fmt.Fprintf(&sb, "Version: %d  Mesh version: %d  Keyframer: %v\n", doc.Version, doc.MeshVersion, doc.Keyframer)
	fmt.Fprintf(&sb, "Totals: %d objects, %d vertices, %d faces\n", len(doc.Objects), doc.TotalVertices(), doc.TotalFaces())

	if len(doc.Materials) > 0 {
		fmt.Fprintf(&sb, "\nMaterials (%d):\n", len(doc.Materials))
		for _, m := range doc.Materials {
			fmt.Fprintf(&sb, "  %s", m.Name)
			if m.TwoSided {
				sb.WriteString(" [two-sided]")
			}
			if len(m.Textures) > 0 {
				fmt.Fprintf(&sb, " -> %s", strings.Join(m.Textures, ", "))
			}
			sb.WriteByte('\n')
		}
	}

	if len(doc.Objects) > 0 {
		fmt.Fprintf(&sb, "\nObjects (%d):\n", len(doc.Objects))
		for _, o := range doc.Objects {
			fmt.Fprintf(&sb, "  %s (%s)", o.Name, o.Kind)
			if o.Kind == "mesh" {
				fmt.Fprintf(&sb, ": %d vertices, %d faces", o.Vertices, o.Faces)
				if o.SharedUVs > 0 {
					fmt.Fprintf(&sb, ", %d shared uvs", o.SharedUVs)
				}
				for _, ch := range o.Channels {
					fmt.Fprintf(&sb, ", channel %d (%d uvs)", ch.ID, ch.UVs)
				}
				if o.Transform {
					sb.WriteString(", transform")
				}
			}
			sb.WriteByte('\n')
			if len(o.Materials) > 0 {
				fmt.Fprintf(&sb, "    materials: %s\n", strings.Join(o.Materials, ", "))
			}
			if len(o.Smoothing) > 0 {
				fmt.Fprintf(&sb, "    smoothing groups: %v\n", o.Smoothing)
			}
			if o.Min != nil && o.Max != nil {
				fmt.Fprintf(&sb, "    bounds: (%g, %g, %g) - (%g, %g, %g)\n",
					o.Min.X, o.Min.Y, o.Min.Z, o.Max.X, o.Max.Y, o.Max.Z)
			}
			if o.Error != "" {
				fmt.Fprintf(&sb, "    error: %s\n", o.Error)
			}
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteInfoYAML writes the document summary as YAML.
func WriteInfoYAML(w io.Writer, doc *formats.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
