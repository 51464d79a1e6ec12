package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cellbind/cellbind/internal/benchstat"
	"github.com/cellbind/cellbind/pkg/cell"
)

func benchCmd() *cobra.Command {
	var iterations int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark write propagation and trigger dispatch latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if iterations <= 0 {
				iterations = cfg.Bench.Iterations
			}

			results := []benchstat.Result{
				benchStoredWrite(iterations),
				benchComputedChain(iterations, 10),
				benchTriggerDispatch(iterations),
			}
			benchstat.Render(os.Stdout, "cellbind propagation latency", results)
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 0, "samples per benchmark (default from config, or 1000)")
	return cmd
}

func benchStoredWrite(iters int) benchstat.Result {
	s := cell.NewStored(0)
	s.WhenChanged(func() {}).Forever()
	v := 0
	return benchstat.Run("stored write", iters, func() {
		v++
		s.Write(v)
	})
}

func benchComputedChain(iters, depth int) benchstat.Result {
	src := cell.NewStored(0)
	var last cell.Cell[int] = src
	for i := 0; i < depth; i++ {
		prev := last
		last = cell.NewComputed(func() int { return prev.Read() + 1 })
	}
	last.(*cell.ComputedCell[int]).WhenChanged(func() {}).Forever()

	v := 0
	return benchstat.Run("computed chain x10", iters, func() {
		v++
		src.Write(v)
		last.Read()
	})
}

func benchTriggerDispatch(iters int) benchstat.Result {
	s := cell.NewStored(0)
	invoke, lt := cell.NewTrigger(func() { s.Read() }, func() {})
	defer lt.Done()
	invoke()

	v := 0
	return benchstat.Run("trigger dispatch", iters, func() {
		v++
		s.Write(v)
		invoke()
	})
}
