package config

import "strings"

// Serialize renders the tree back to the device's text form:
// top-level commands at column zero, sub-commands at three spaces,
// sub-sub-commands at six, one command per line.
func (t *Tree) Serialize() string {
	var b strings.Builder
	for _, root := range t.Roots() {
		b.WriteString(root.Text)
		b.WriteByte('\n')
		for _, child := range root.Children() {
			b.WriteString(childIndent)
			b.WriteString(child.Text)
			b.WriteByte('\n')
			for _, grandchild := range child.Children() {
				b.WriteString(grandchildIndent)
				b.WriteString(grandchild.Text)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
