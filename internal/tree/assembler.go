// Package tree converts a flat template list into the nested directory
// hierarchy the catalogue presents.
package tree

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/quarry-dev/quarry/internal/models"
)

// Build assembles an ordered list of root-level nodes from a flat template
// list. The result is deterministic and independent of input order: at every
// level directories precede leaves, and each group is sorted
// lexicographically (case-sensitive) by name.
//
// A name collision between a directory and a leaf at the same level is
// upstream data corruption; the directory wins regardless of insertion
// order and the conflicting template is dropped with a warning.
func Build(templates []models.TemplateMetadata) []models.Node {
	root := &models.Dir{}

	for _, tmpl := range templates {
		insert(root, tmpl)
	}

	sortChildren(root)
	return root.Children
}

// insert walks/creates directory nodes for every path segment except the
// last, then attaches a leaf for the final segment. A leaf occupying a
// segment that must be a directory is evicted and replaced, so the
// directory wins no matter which path was inserted first.
func insert(root *models.Dir, tmpl models.TemplateMetadata) {
	segments := strings.Split(tmpl.Path, "/")
	dir := root

	for _, segment := range segments[:len(segments)-1] {
		child := findChild(dir, segment)
		switch node := child.(type) {
		case nil:
			created := &models.Dir{Name: segment}
			dir.Children = append(dir.Children, created)
			dir = created
		case *models.Dir:
			dir = node
		case *models.Leaf:
			warnCollision(node.Template.Path, segment)
			created := &models.Dir{Name: segment}
			replaceChild(dir, node, created)
			dir = created
		}
	}

	leafName := models.NameFromPath(tmpl.Path)
	if existing := findChild(dir, leafName); existing != nil {
		if _, isDir := existing.(*models.Dir); isDir {
			warnCollision(tmpl.Path, leafName)
		}
		// A duplicate leaf name means a duplicate path upstream; first
		// insertion wins either way.
		return
	}
	dir.Children = append(dir.Children, &models.Leaf{Name: leafName, Template: tmpl})
}

func findChild(dir *models.Dir, name string) models.Node {
	for _, child := range dir.Children {
		if child.NodeName() == name {
			return child
		}
	}
	return nil
}

func replaceChild(dir *models.Dir, old, replacement models.Node) {
	for i, child := range dir.Children {
		if child == old {
			dir.Children[i] = replacement
			return
		}
	}
}

func warnCollision(path, segment string) {
	fmt.Fprintf(os.Stderr, "Warning: skipping template %s: name %q collides with an existing node\n", path, segment)
}

// sortChildren orders every directory level: directories first, then
// leaves, each group lexicographically by name.
func sortChildren(dir *models.Dir) {
	sort.SliceStable(dir.Children, func(i, j int) bool {
		a, b := dir.Children[i], dir.Children[j]
		aDir := isDir(a)
		bDir := isDir(b)
		if aDir != bDir {
			return aDir
		}
		return a.NodeName() < b.NodeName()
	})

	for _, child := range dir.Children {
		if sub, ok := child.(*models.Dir); ok {
			sortChildren(sub)
		}
	}
}

func isDir(n models.Node) bool {
	_, ok := n.(*models.Dir)
	return ok
}
