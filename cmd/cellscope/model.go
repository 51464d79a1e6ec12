package main

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"
)

type redrawMsg struct{}
type stoppedMsg struct{}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

type model struct {
	requester *redrawRequester
	graph     *demoGraph
	spinner   spinner.Model
	stop      chan struct{}
	quitting  bool
}

func newModel() *model {
	r := &redrawRequester{redraws: make(chan struct{}, 1)}
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = titleStyle
	return &model{
		requester: r,
		graph:     newDemoGraph(r),
		spinner:   s,
		stop:      make(chan struct{}),
	}
}

func (m *model) Init() tea.Cmd {
	go runTicker(m.stop, m.graph)
	return tea.Batch(m.spinner.Tick, m.listenForRedraw())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			close(m.stop)
			m.graph.close()
			return m, tea.Quit
		}
	case redrawMsg:
		return m, m.listenForRedraw()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	if m.quitting {
		return "bye\n"
	}
	return m.spinner.View() + " " + titleStyle.Render("cellscope") + "\n\n" +
		m.graph.render() + "\n\n" +
		helpStyle.Render("press q to quit")
}

func (m *model) listenForRedraw() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.requester.redraws:
			return redrawMsg{}
		case <-m.stop:
			return stoppedMsg{}
		}
	}
}
