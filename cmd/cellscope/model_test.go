package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestNewModelBuildsGraphAndChannels(t *testing.T) {
	m := newModel()
	defer m.graph.close()
	require.NotNil(t, m.graph)
	require.NotNil(t, m.requester)
	require.False(t, m.quitting)
}

func TestUpdateQuitsOnQ(t *testing.T) {
	m := newModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.True(t, m.quitting)
	require.NotNil(t, cmd)
}

func TestUpdateReturnsListenCommandOnRedraw(t *testing.T) {
	m := newModel()
	defer func() {
		close(m.stop)
		m.graph.close()
	}()

	_, cmd := m.Update(redrawMsg{})
	require.NotNil(t, cmd)
}

func TestViewShowsByeWhenQuitting(t *testing.T) {
	m := newModel()
	defer func() {
		close(m.stop)
		m.graph.close()
	}()
	m.quitting = true
	require.Equal(t, "bye\n", m.View())
}

func TestViewIncludesTitleWhenRunning(t *testing.T) {
	m := newModel()
	defer func() {
		close(m.stop)
		m.graph.close()
	}()
	require.Contains(t, m.View(), "cellscope")
}
