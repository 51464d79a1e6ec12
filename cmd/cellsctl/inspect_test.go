package main

import (
	"testing"

	"github.com/m1gwings/treedrawer/tree"
	"github.com/stretchr/testify/require"

	"github.com/cellbind/cellbind/internal/snapshot"
)

func TestApproxSnapshotSizeGrowsWithNodes(t *testing.T) {
	small := snapshot.New([]snapshot.Node{{ID: 1, Label: "a"}})
	large := snapshot.New([]snapshot.Node{
		{ID: 1, Label: "a", DependsOn: []uint64{2, 3}},
		{ID: 2, Label: "bb"},
		{ID: 3, Label: "ccc"},
	})
	require.Less(t, approxSnapshotSize(small), approxSnapshotSize(large))
}

func TestAddChildrenBuildsFullSubtree(t *testing.T) {
	byID := map[uint64]snapshot.Node{
		1: {ID: 1, Label: "root", DependsOn: []uint64{2}},
		2: {ID: 2, Label: "mid", DependsOn: []uint64{3}},
		3: {ID: 3, Label: "leaf"},
	}
	root := byID[1]
	tr := tree.NewTree(tree.NodeString(root.Label))
	addChildren(tr, root, byID)
	require.Contains(t, tr.String(), "mid")
	require.Contains(t, tr.String(), "leaf")
}

func TestAddChildrenSkipsUnknownDependency(t *testing.T) {
	byID := map[uint64]snapshot.Node{
		1: {ID: 1, Label: "root", DependsOn: []uint64{99}},
	}
	root := byID[1]
	tr := tree.NewTree(tree.NodeString(root.Label))
	require.NotPanics(t, func() { addChildren(tr, root, byID) })
}
