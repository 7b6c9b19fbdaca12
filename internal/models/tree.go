package models

// Node is a node in the assembled template hierarchy. It is a closed
// variant over *Dir and *Leaf; consumers switch on the concrete type and
// must handle both.
type Node interface {
	// NodeName returns the display name of the node.
	NodeName() string

	// sealed prevents variants outside this package.
	sealed()
}

// Dir is a directory node holding an ordered set of unique-named children.
type Dir struct {
	Name     string
	Children []Node
}

func (d *Dir) NodeName() string { return d.Name }
func (d *Dir) sealed()          {}

// Leaf is a terminal node owning one template's metadata.
type Leaf struct {
	Name     string
	Template TemplateMetadata
}

func (l *Leaf) NodeName() string { return l.Name }
func (l *Leaf) sealed()          {}

// CountLeaves returns the number of templates reachable under nodes.
func CountLeaves(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		switch node := n.(type) {
		case *Dir:
			total += CountLeaves(node.Children)
		case *Leaf:
			total++
		}
	}
	return total
}
