// Command cellscope is a Bubble Tea TUI that watches a small live
// cellbind demo graph and repaints whenever it changes — a worked
// example of the host-integration seam the core exposes: a
// RedrawRequester is all the core needs from a UI toolkit, and a
// Trigger's onUpdate callback is exactly where that request gets made.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	p := tea.NewProgram(newModel())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cellscope: %v\n", err)
		os.Exit(1)
	}
}
