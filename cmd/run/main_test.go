package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/gamebind/hostsim"
	"github.com/wippyai/gamebind/inspect"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T) *interactiveModel {
	t.Helper()
	desc, closeDesc, err := openDescriptor("")
	require.NoError(t, err)
	t.Cleanup(closeDesc)

	mod := desc.(hostsim.Module)
	m := newInteractiveModel(mod, inspect.Read(desc), hostsim.DefaultConfig())
	m.Update(m.loadHost())
	require.NoError(t, m.err)
	require.NotNil(t, m.host)
	return m
}

func TestInteractive_Step(t *testing.T) {
	m := loadedModel(t)
	assert.Contains(t, m.View(), "not started")

	m.Update(key("n"))
	require.NotNil(t, m.last)
	assert.Equal(t, uint64(1), m.last.Frame)
	assert.Contains(t, m.View(), "frame 1: ran 8")

	m.Update(key("r"))
	assert.Equal(t, uint64(1+m.cfg.Frames), m.host.Frame())
}

func TestInteractive_Filter(t *testing.T) {
	m := loadedModel(t)
	require.Len(t, m.visible, 8)

	m.Update(key("/"))
	assert.Equal(t, stateFilter, m.state)
	for _, r := range "camera" {
		m.Update(key(string(r)))
	}
	assert.Equal(t, []int{7}, m.visible)

	m.Update(key("enter"))
	assert.Equal(t, stateSelectSystem, m.state)
	m.Update(key("enter"))
	assert.Equal(t, stateShowSystem, m.state)
	assert.Contains(t, m.View(), "CameraUpdate")

	m.Update(key("esc"))
	m.Update(key("/"))
	m.Update(key("esc"))
	assert.Len(t, m.visible, 8)
}

func TestInteractive_Navigation(t *testing.T) {
	m := loadedModel(t)
	for range 20 {
		m.Update(key("down"))
	}
	assert.Equal(t, 7, m.selected)
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, hostsim.DefaultConfig(), cfg)
}
