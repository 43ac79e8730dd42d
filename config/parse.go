package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Indentation is fixed-width and not configurable: it is the wire
// format the device uses when rendering `show running-config`, and
// must survive a round trip back to the device.
const (
	childIndent      = "   "
	grandchildIndent = "      "
)

// MalformedError is returned when a line's indentation refers to a
// parent command that hasn't appeared yet, e.g. a sub-command before
// any top-level command.
type MalformedError struct {
	Line int    // 1-based line number in the input
	Text string // the offending command text
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed config at line %d: %q has no parent command", e.Line, e.Text)
}

// Parse builds a Tree from the text rendering of a configuration.
// The name labels the tree ("running", "candidate") and has no effect
// on comparison.
func Parse(buf []byte, name string) (*Tree, error) {
	return ParseLines(strings.Split(string(buf), "\n"), name)
}

// Load reads a configuration from a file. I/O failures are reported
// as-is (wrapped); structural problems as *MalformedError.
func Load(path, name string) (*Tree, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config from %s", path)
	}
	return Parse(buf, name)
}

// ParseLines builds a Tree from an already-split sequence of lines,
// in a single forward pass.
//
// Classification is purely lexical: blank lines and lines whose first
// non-space character is `!` are skipped; six or more leading spaces
// make a sub-sub-command; otherwise three make a sub-command;
// anything else is a top-level command. The six-space test has to
// come first, since such a line also starts with three spaces.
func ParseLines(lines []string, name string) (*Tree, error) {
	tree := &Tree{Name: name}

	// The parsing cursor: the most recently seen command at each of
	// the two non-terminal depths. A new top-level command resets the
	// sub-command cursor.
	var currentRoot, currentChild *Node

	for i, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		text := strings.TrimSpace(line)
		switch {
		case text == "" || strings.HasPrefix(text, "!"):
			// comment or blank; not a node
		case strings.HasPrefix(line, grandchildIndent):
			if currentChild == nil {
				return nil, &MalformedError{Line: i + 1, Text: text}
			}
			currentChild.cmds.put(text)
		case strings.HasPrefix(line, childIndent):
			if currentRoot == nil {
				return nil, &MalformedError{Line: i + 1, Text: text}
			}
			currentChild = currentRoot.cmds.put(text)
		default:
			currentRoot = tree.cmds.put(text)
			currentChild = nil
		}
	}
	return tree, nil
}
