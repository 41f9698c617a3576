package mesh

// DefaultMaterial names the group of faces without a material.
const DefaultMaterial = "default"

// MaterialGroup lists the faces using one material.
type MaterialGroup struct {
	Name    string
	Faces   []int
	Default bool // faces without a material; never written as a material chunk
}

// GroupMaterials partitions faces by material in order of first appearance.
// Faces with no material form a trailing default group.
func GroupMaterials(perFace []string) []MaterialGroup {
	var (
		groups   []MaterialGroup
		index    = make(map[string]int)
		defaults []int
	)
	for face, name := range perFace {
		if name == "" {
			defaults = append(defaults, face)
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, MaterialGroup{Name: name})
		}
		groups[i].Faces = append(groups[i].Faces, face)
	}
	if len(defaults) > 0 {
		groups = append(groups, MaterialGroup{Name: DefaultMaterial, Faces: defaults, Default: true})
	}
	return groups
}
