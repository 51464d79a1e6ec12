package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/m1gwings/treedrawer/tree"
	"github.com/spf13/cobra"

	"github.com/cellbind/cellbind/internal/snapshot"
	"github.com/cellbind/cellbind/pkg/cell"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Build a small demo graph and print its dependency structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := cell.NewStored(1)
			b := cell.NewStored(2)
			c := cell.NewComputed(func() int { return a.Read() + b.Read() })
			d := cell.NewComputed(func() int { return c.Read() * 2 })
			d.Read() // force dependency discovery

			nodes := []snapshot.Node{
				{ID: 1, Kind: snapshot.KindStored, Label: "a", Bound: a.IsBound().Read()},
				{ID: 2, Kind: snapshot.KindStored, Label: "b", Bound: b.IsBound().Read()},
				{ID: 3, Kind: snapshot.KindComputed, Label: "c = a + b", Bound: c.IsBound().Read(), DependsOn: []uint64{1, 2}},
				{ID: 4, Kind: snapshot.KindComputed, Label: "d = c * 2", Bound: d.IsBound().Read(), DependsOn: []uint64{3}},
			}
			snap := snapshot.New(nodes)

			printTable(snap)
			printTree(snap)

			fmt.Printf("\nsnapshot %s, %s of debug metadata\n", snap.ID, humanize.Bytes(uint64(approxSnapshotSize(snap))))
			return nil
		},
	}
	return cmd
}

func printTable(snap snapshot.GraphSnapshot) {
	tbl := table.NewWriter()
	tbl.SetTitle("cell graph")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"id", "kind", "label", "bound", "depends on"})
	for _, n := range snap.Nodes {
		tbl.AppendRow(table.Row{n.ID, n.Kind, n.Label, n.Bound, n.DependsOn})
	}
	tbl.Render()
}

func printTree(snap snapshot.GraphSnapshot) {
	byID := map[uint64]snapshot.Node{}
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}

	// Roots are the nodes nothing else depends on (the outputs of the
	// graph, in the direction a Read() call flows).
	var roots []snapshot.Node
	dependedOn := map[uint64]bool{}
	for _, n := range snap.Nodes {
		for _, dep := range n.DependsOn {
			dependedOn[dep] = true
		}
	}
	for _, n := range snap.Nodes {
		if !dependedOn[n.ID] {
			roots = append(roots, n)
		}
	}

	for _, root := range roots {
		t := tree.NewTree(tree.NodeString(root.Label))
		addChildren(t, root, byID)
		fmt.Println(t)
	}
}

func addChildren(t *tree.Tree, n snapshot.Node, byID map[uint64]snapshot.Node) {
	for _, depID := range n.DependsOn {
		dep, ok := byID[depID]
		if !ok {
			continue
		}
		child := t.AddChild(tree.NodeString(dep.Label))
		addChildren(child, dep, byID)
	}
}

func approxSnapshotSize(snap snapshot.GraphSnapshot) int {
	n := 0
	for _, node := range snap.Nodes {
		n += len(node.Label) + 16 + 8*len(node.DependsOn)
	}
	return n
}
