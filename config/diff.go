package config

import (
	"sort"
	"strings"
)

// Diff reports the structural changes that take the `from` tree to
// the `to` tree, as text. Neither tree is modified; equal trees
// produce the empty string.
//
// The report lists, in order: top-level commands only in `to`, each
// as `+ <command>` followed by its sub-commands as bare context
// lines; top-level commands only in `from`, likewise with `-`; then,
// for each top-level command in both trees, its sub-command changes
// (the command once as a bare header, then `+`/`-` blocks) and, for
// sub-commands in both, their sub-sub-command changes (the
// sub-command once as a header, then two-space-indented `+`/`-`
// lines). A header is only emitted when something under it changed;
// in particular a top-level command whose only changes are two levels
// down never reappears in the report.
//
// Comparison is exact string equality of command text at every level.
// Emission order within each group is lexicographic; readers should
// not ascribe meaning to it beyond reproducibility.
func Diff(from, to *Tree) string {
	var b strings.Builder

	added, removed, kept := splitKeys(from.cmds, to.cmds)
	writeBlocks(&b, "+", added, to.cmds)
	writeBlocks(&b, "-", removed, from.cmds)

	for _, root := range kept {
		mine, _ := from.Root(root)
		theirs, _ := to.Root(root)

		added, removed, kept := splitKeys(mine.cmds, theirs.cmds)
		if len(added) > 0 || len(removed) > 0 {
			b.WriteString(root)
			b.WriteByte('\n')
			writeBlocks(&b, "+", added, theirs.cmds)
			writeBlocks(&b, "-", removed, mine.cmds)
		}

		for _, sub := range kept {
			mine, _ := mine.Child(sub)
			theirs, _ := theirs.Child(sub)

			added, removed, _ := splitKeys(mine.cmds, theirs.cmds)
			if len(added) == 0 && len(removed) == 0 {
				continue
			}
			b.WriteString(sub)
			b.WriteByte('\n')
			for _, key := range added {
				b.WriteString("  + ")
				b.WriteString(key)
				b.WriteByte('\n')
			}
			for _, key := range removed {
				b.WriteString("  - ")
				b.WriteString(key)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// splitKeys partitions the union of two key sets into added (only in
// b), removed (only in a) and kept (in both), each sorted.
func splitKeys(a, b nodeSet) (added, removed, kept []string) {
	for _, key := range b.order {
		if _, ok := a.get(key); ok {
			kept = append(kept, key)
		} else {
			added = append(added, key)
		}
	}
	for _, key := range a.order {
		if _, ok := b.get(key); !ok {
			removed = append(removed, key)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(kept)
	return added, removed, kept
}

// writeBlocks emits `<marker> <key>` for each key, followed by that
// key's children as bare context lines in tree order. The keys come
// from the side being rendered, so every lookup succeeds; the other
// tree is never consulted.
func writeBlocks(b *strings.Builder, marker string, keys []string, side nodeSet) {
	for _, key := range keys {
		b.WriteString(marker)
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('\n')
		node, ok := side.get(key)
		if !ok {
			continue
		}
		for _, child := range node.Children() {
			b.WriteString(child.Text)
			b.WriteByte('\n')
		}
	}
}
