package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/gamebind/hostsim"
	"github.com/wippyai/gamebind/inspect"
)

var (
	titleStyle = inspect.TitleStyle

	funcStyle = inspect.NameStyle

	typeStyle = inspect.TypeStyle

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = inspect.ErrorStyle

	helpStyle = inspect.HelpStyle
)

type interactiveModel struct {
	err      error
	mod      hostsim.Module
	host     *hostsim.Host
	man      *inspect.Manifest
	cfg      hostsim.Config
	last     *hostsim.FrameReport
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateSelectSystem modelState = iota
	stateFilter
	stateShowSystem
)

func newInteractiveModel(mod hostsim.Module, man *inspect.Manifest, cfg hostsim.Config) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "system name"
	ti.Prompt = "filter: "
	ti.Width = 40

	m := &interactiveModel{
		mod:    mod,
		man:    man,
		cfg:    cfg,
		filter: ti,
		state:  stateSelectSystem,
	}
	m.applyFilter()
	return m
}

type loadedMsg struct {
	err  error
	host *hostsim.Host
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadHost
}

func (m *interactiveModel) loadHost() tea.Msg {
	h, err := hostsim.New(m.mod, m.cfg)
	return loadedMsg{host: h, err: err}
}

// step runs frames on the UI goroutine so View never races the host.
func (m *interactiveModel) step(frames int) {
	if frames == 1 {
		r := m.host.Step()
		m.last, m.err = &r, nil
		return
	}
	m.err = m.host.Run(context.Background(), frames)
	m.last = &hostsim.FrameReport{Frame: m.host.Frame()}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateFilter {
			switch msg.String() {
			case "enter":
				m.filter.Blur()
				m.state = stateSelectSystem
				return m, nil
			case "esc":
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				m.state = stateSelectSystem
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectSystem && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectSystem && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "/":
			if m.state == stateSelectSystem {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "n":
			if m.host != nil {
				m.step(1)
			}

		case "r":
			if m.host != nil {
				m.step(m.cfg.Frames)
			}

		case "enter":
			switch m.state {
			case stateSelectSystem:
				if len(m.visible) > 0 {
					m.state = stateShowSystem
				}
			case stateShowSystem:
				m.state = stateSelectSystem
			}

		case "esc":
			if m.state == stateShowSystem {
				m.state = stateSelectSystem
			}
		}

	case loadedMsg:
		m.err = msg.err
		m.host = msg.host
	}

	return m, nil
}

// applyFilter keeps the systems whose name contains the filter text.
func (m *interactiveModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, s := range m.man.Systems {
		if strings.Contains(strings.ToLower(s.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = min(m.selected, max(len(m.visible)-1, 0))
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.host == nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.host == nil {
		return "Loading module..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("gamebind host"))
	fmt.Fprintf(&b, " frame %d, %d entities, fingerprint %s\n\n",
		m.host.Frame(), len(m.host.Entities()), m.man.Fingerprint)

	failures := m.host.Failures()

	switch m.state {
	case stateSelectSystem, stateFilter:
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
		for i, idx := range m.visible {
			s := m.man.Systems[idx]
			line := s.Render()
			if n := failures[s.Name]; n > 0 {
				line += " " + errorStyle.Render(fmt.Sprintf("failed %d", n))
			}
			if i == m.selected && m.state == stateSelectSystem {
				b.WriteString(selectedStyle.Render(">") + line)
			} else {
				b.WriteString(" " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.reportLine())
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter keep filter • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • n step • r run • q quit"))
		}

	case stateShowSystem:
		s := m.man.Systems[m.visible[m.selected]]
		fmt.Fprintf(&b, "%s %s\n\n", funcStyle.Render(s.Name), typeStyle.Render(s.Order))
		for i, a := range s.Args {
			fmt.Fprintf(&b, "  arg %d: %s\n", i, typeStyle.Render(a.String()))
		}
		b.WriteString("\n")
		if n := failures[s.Name]; n > 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf("failed in %d frames", n)))
		} else {
			b.WriteString(resultStyle.Render("no failures"))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter back • n step • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) reportLine() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	r := m.last
	if r == nil {
		return helpStyle.Render("not started")
	}
	if r.Ran == 0 {
		return resultStyle.Render(fmt.Sprintf("at frame %d", r.Frame))
	}
	line := fmt.Sprintf("frame %d: ran %d, spawned %d, despawned %d", r.Frame, r.Ran, r.Spawned, r.Despawned)
	if len(r.Failed) > 0 {
		return errorStyle.Render(fmt.Sprintf("%s, failed %s", line, strings.Join(r.Failed, ", ")))
	}
	return resultStyle.Render(line)
}

func runInteractive(mod hostsim.Module, man *inspect.Manifest, cfg hostsim.Config) error {
	p := tea.NewProgram(newInteractiveModel(mod, man, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
