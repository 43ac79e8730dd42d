package config

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const initialConfig = `hostname pyeos-unittest
!
interface Ethernet2
   description bla
!
router bgp 65000
   vrf test
      neighbor 1.1.1.1 remote-as 1
      neighbor 1.1.1.1 maximum-routes 12000
   vrf test2
      neighbor 2.2.2.2 remote-as 2
      neighbor 2.2.2.2 maximum-routes 12000
`

const changedConfig = `hostname pyeos-unittest-changed
!
interface Ethernet2
   description ble
!
router bgp 65000
   vrf test
      neighbor 1.1.1.2 remote-as 1
      neighbor 1.1.1.2 maximum-routes 12000
   vrf test2
      neighbor 2.2.2.3 remote-as 2
      neighbor 2.2.2.3 maximum-routes 12000
`

func mustParse(t *testing.T, text, name string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(text), name)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestDiffIdentical(t *testing.T) {
	tree := mustParse(t, initialConfig, "running")
	same := mustParse(t, initialConfig, "candidate")
	assert.Equal(t, "", Diff(tree, same))
	assert.Equal(t, "", Diff(tree, tree))
}

func TestDiffRootAddition(t *testing.T) {
	from := mustParse(t, "interface Eth1\n", "running")
	to := mustParse(t, "interface Eth1\ninterface Eth2\n", "candidate")
	assert.Equal(t, "+ interface Eth2\n", Diff(from, to))
	assert.Equal(t, "- interface Eth2\n", Diff(to, from))
}

func TestDiffRootAdditionListsContext(t *testing.T) {
	from := mustParse(t, "hostname sw1\n", "running")
	to := mustParse(t, "hostname sw1\nrouter ospf 1\n   router-id 1.1.1.1\n   max-lsa 12000\n", "candidate")

	// A wholly new top-level command lists its sub-commands as bare
	// context lines, in tree order, unmarked.
	want := "+ router ospf 1\nrouter-id 1.1.1.1\nmax-lsa 12000\n"
	assert.Equal(t, want, Diff(from, to))
}

func TestDiffNestedChange(t *testing.T) {
	from := mustParse(t, "router bgp 65000\n   vrf test\n      neighbor 1.1.1.1 remote-as 1\n", "running")
	to := mustParse(t, "router bgp 65000\n   vrf test\n      neighbor 1.1.1.2 remote-as 1\n", "candidate")

	want := "vrf test\n  + neighbor 1.1.1.2 remote-as 1\n  - neighbor 1.1.1.1 remote-as 1\n"
	got := Diff(from, to)
	assert.Equal(t, want, got)

	// The top-level command is present and unchanged in both trees;
	// it must not reappear as added or removed.
	assert.NotContains(t, got, "router bgp 65000")
}

func TestDiffFixture(t *testing.T) {
	from := mustParse(t, initialConfig, "running")
	to := mustParse(t, changedConfig, "candidate")

	want := strings.Join([]string{
		"+ hostname pyeos-unittest-changed",
		"- hostname pyeos-unittest",
		"interface Ethernet2",
		"+ description ble",
		"- description bla",
		"vrf test",
		"  + neighbor 1.1.1.2 maximum-routes 12000",
		"  + neighbor 1.1.1.2 remote-as 1",
		"  - neighbor 1.1.1.1 maximum-routes 12000",
		"  - neighbor 1.1.1.1 remote-as 1",
		"vrf test2",
		"  + neighbor 2.2.2.3 maximum-routes 12000",
		"  + neighbor 2.2.2.3 remote-as 2",
		"  - neighbor 2.2.2.2 maximum-routes 12000",
		"  - neighbor 2.2.2.2 remote-as 2",
		"",
	}, "\n")
	assert.Equal(t, want, Diff(from, to))
}

func TestDiffStructuralSymmetry(t *testing.T) {
	from := mustParse(t, initialConfig, "running")
	to := mustParse(t, changedConfig, "candidate")

	forward := strings.Split(strings.TrimRight(Diff(from, to), "\n"), "\n")
	backward := strings.Split(strings.TrimRight(Diff(to, from), "\n"), "\n")

	// Reversing the comparison swaps + and - but affects the same
	// set of lines.
	swapped := make([]string, len(backward))
	for i, line := range backward {
		switch {
		case strings.HasPrefix(line, "+ "):
			swapped[i] = "- " + line[2:]
		case strings.HasPrefix(line, "- "):
			swapped[i] = "+ " + line[2:]
		case strings.HasPrefix(line, "  + "):
			swapped[i] = "  - " + line[4:]
		case strings.HasPrefix(line, "  - "):
			swapped[i] = "  + " + line[4:]
		default:
			swapped[i] = line
		}
	}
	sort.Strings(forward)
	sort.Strings(swapped)
	assert.Equal(t, forward, swapped)
}

func TestDiffDoesNotMutate(t *testing.T) {
	from := mustParse(t, initialConfig, "running")
	to := mustParse(t, changedConfig, "candidate")
	beforeFrom, beforeTo := from.Serialize(), to.Serialize()

	Diff(from, to)
	Diff(to, from)

	assert.Equal(t, beforeFrom, from.Serialize())
	assert.Equal(t, beforeTo, to.Serialize())
}
