package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRedrawRequesterCoalescesPendingRequests(t *testing.T) {
	r := &redrawRequester{redraws: make(chan struct{}, 1)}
	r.RequestRedraw()
	r.RequestRedraw()
	r.RequestRedraw()

	select {
	case <-r.redraws:
	default:
		t.Fatal("expected a pending redraw")
	}
	select {
	case <-r.redraws:
		t.Fatal("expected at most one coalesced redraw")
	default:
	}
}

func TestNewDemoGraphDoesNotRequestRedrawOnConstruction(t *testing.T) {
	r := &redrawRequester{redraws: make(chan struct{}, 1)}
	g := newDemoGraph(r)
	defer g.close()

	// The trigger subscribes to what its action read only after the first
	// invoke returns, so nothing has invalidated it yet.
	select {
	case <-r.redraws:
		t.Fatal("expected no redraw request from the initial invoke")
	default:
	}
	require.Equal(t, 0, g.sum.Read())
}

func TestDemoGraphTickUpdatesSumAndRecent(t *testing.T) {
	r := &redrawRequester{redraws: make(chan struct{}, 1)}
	g := newDemoGraph(r)
	defer g.close()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 12; i++ {
		g.tick(rng)
	}

	require.Equal(t, g.a.Read()+g.b.Read(), g.sum.Read())
	require.LessOrEqual(t, g.recent.Count(), 8)
}

func TestDemoGraphRenderIncludesCurrentValues(t *testing.T) {
	r := &redrawRequester{redraws: make(chan struct{}, 1)}
	g := newDemoGraph(r)
	defer g.close()

	out := g.render()
	require.Contains(t, out, "sum")
}
