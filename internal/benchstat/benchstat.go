// Package benchstat runs latency microbenchmarks against a cellbind
// graph and renders a go-pretty table of the results: a tachymeter
// histogram per run, one table row per configuration.
package benchstat

import (
	"io"
	"time"

	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Result is one configuration's latency distribution.
type Result struct {
	Label string
	Calc  *tachymeter.Metrics
}

// Run times iters calls to step, returning the latency distribution.
// step is expected to perform one unit of graph work — a single write
// that triggers a propagation, or a single Trigger.PerformAction call —
// and nothing else, so the measured time reflects engine overhead, not
// caller setup.
func Run(label string, iters int, step func()) Result {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		step()
		tach.AddTime(time.Since(start))
	}
	return Result{Label: label, Calc: tach.Calc()}
}

// Render writes a table of results to w, one row per Result, with
// avg/min/p75/p99/max columns.
func Render(w io.Writer, title string, results []Result) {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, r := range results {
		tbl.AppendRow(table.Row{
			r.Label,
			r.Calc.Time.Avg,
			r.Calc.Time.Min,
			r.Calc.Time.P75,
			r.Calc.Time.P99,
			r.Calc.Time.Max,
		})
	}

	tbl.Render()
}
