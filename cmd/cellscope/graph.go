package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cellbind/cellbind/pkg/cell"
)

// redrawRequester is the host-integration seam the core exposes: the
// only thing a UI toolkit needs to implement to drive off a cellbind
// graph. Here it just forwards to a channel the Bubble Tea model reads
// from its listenForRedraw command.
type redrawRequester struct {
	redraws chan struct{}
}

func (r *redrawRequester) RequestRedraw() {
	select {
	case r.redraws <- struct{}{}:
	default: // a redraw is already pending; coalesce
	}
}

// demoGraph is a small live cell graph: two StoredCell counters, a
// ComputedCell deriving their sum, and an ArrayCell recording the last
// few sums. A background ticker writes to the counters so the TUI has
// something to watch change.
type demoGraph struct {
	a, b   *cell.StoredCell[int]
	sum    *cell.ComputedCell[int]
	recent *cell.ArrayCell[int]

	invoke func()
	lt     *cell.Lifetime
}

func newDemoGraph(requester *redrawRequester) *demoGraph {
	g := &demoGraph{
		a:      cell.NewStored(0),
		b:      cell.NewStored(0),
		recent: cell.NewArray([]int{}),
	}
	g.sum = cell.NewComputed(func() int { return g.a.Read() + g.b.Read() })

	g.invoke, g.lt = cell.NewTrigger(
		func() {
			v := g.sum.Read()
			g.recent.InsertAt(g.recent.Count(), v)
			if g.recent.Count() > 8 {
				g.recent.RemoveRange(0, g.recent.Count()-8)
			}
		},
		requester.RequestRedraw,
	)
	g.invoke()

	return g
}

func (g *demoGraph) tick(rng *rand.Rand) {
	g.a.Write(g.a.Peek() + rng.Intn(3))
	g.b.Write(g.b.Peek() + rng.Intn(2))
	g.invoke()
}

func (g *demoGraph) render() string {
	return fmt.Sprintf(
		"a = %-3d  b = %-3d  sum = %-3d\nrecent sums: %v",
		g.a.Read(), g.b.Read(), g.sum.Read(), g.recent.Read(),
	)
}

func (g *demoGraph) close() { g.lt.Done() }

func runTicker(stop <-chan struct{}, g *demoGraph) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(400 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			g.tick(rng)
		}
	}
}
