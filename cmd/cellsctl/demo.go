package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cellbind/cellbind/pkg/cell"
)

func demoCmd() *cobra.Command {
	var scenario string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the canonical cellbind scenarios and print their output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if scenario == "" {
				scenario = cfg.Demo.Scenario
			}

			scenarios := map[string]func(){
				"binding":  demoSimpleBinding,
				"computed": demoComputedDependencyChange,
				"observer": demoObserverSelfStabilisation,
				"trigger":  demoTriggerCoalescing,
				"array":    demoArrayRangeReplacement,
			}

			if scenario == "all" {
				for _, name := range []string{"binding", "computed", "observer", "trigger", "array"} {
					runScenario(name, scenarios[name])
				}
				return nil
			}

			fn, ok := scenarios[scenario]
			if !ok {
				return fmt.Errorf("unknown scenario %q", scenario)
			}
			runScenario(scenario, fn)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", "", "which scenario to run (binding, computed, observer, trigger, array, all)")
	return cmd
}

func runScenario(name string, fn func()) {
	color.New(color.Bold, color.FgCyan).Printf("== %s ==\n", name)
	fn()
	fmt.Println()
}

func demoSimpleBinding() {
	b := cell.NewStored(1)
	fmt.Printf("b = %d\n", b.Read())
	b.Write(2)
	fmt.Printf("b.Write(2) -> b = %d\n", b.Read())
}

func demoComputedDependencyChange() {
	a := cell.NewStored(1)
	b := cell.NewStored(2)
	c := cell.NewComputed(func() int {
		if a.Read() == 0 {
			return b.Read()
		}
		return a.Read()
	})
	fmt.Printf("c = %d (depends on a)\n", c.Read())
	a.Write(0)
	fmt.Printf("a.Write(0) -> c = %d (now depends on b)\n", c.Read())
	b.Write(99)
	fmt.Printf("b.Write(99) -> c = %d\n", c.Read())
}

func demoObserverSelfStabilisation() {
	b := cell.NewStored(1)
	lt := b.Observe(func(v int) {
		if v < 5 {
			b.Write(v + 1)
		}
	})
	defer lt.Done()
	fmt.Printf("b stabilised at %d\n", b.Read())
}

func demoTriggerCoalescing() {
	b := cell.NewStored(1)
	updates := 0
	invoke, lt := cell.NewTrigger(
		func() { b.Read() },
		func() { updates++ },
	)
	defer lt.Done()

	invoke()
	b.Write(2)
	b.Write(3)
	b.Write(4)
	fmt.Printf("three writes between invokes coalesced into %d update notification(s)\n", updates)
	invoke()
}

func demoArrayRangeReplacement() {
	arr := cell.NewArray([]int{1, 2, 3})
	arr.LastReplacement().Observe(func(r cell.Replacement[int]) {
		fmt.Printf("replacement: [%d,%d) replaced=%v new=%v\n", r.Start, r.End, r.Replaced, r.New)
	}).Forever()
	arr.InsertAt(0, 0)
	fmt.Printf("array = %v\n", arr.Read())
}
