package inspect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	NameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	TypeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	OnceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Render formats the manifest for a terminal.
func (m *Manifest) Render() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("gamebind module"))
	fmt.Fprintf(&b, " protocol %s, fingerprint %s\n", m.Protocol, m.Fingerprint)
	if !m.Compatible() {
		b.WriteString(ErrorStyle.Render("protocol is not compatible with this build"))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(SectionStyle.Render(fmt.Sprintf("Types (%d)", len(m.Types))))
	b.WriteString("\n")
	rows := make([][]string, len(m.Types))
	for i, t := range m.Types {
		rows[i] = []string{
			NameStyle.Render(short(t.Name)),
			TypeStyle.Render(t.Kind),
			fmt.Sprintf("size %d", t.Size),
			fmt.Sprintf("align %d", t.Align),
		}
	}
	b.WriteString(columns(rows))

	b.WriteString("\n")
	b.WriteString(SectionStyle.Render(fmt.Sprintf("Systems (%d)", len(m.Systems))))
	b.WriteString("\n")
	for _, s := range m.Systems {
		b.WriteString(s.Render())
		b.WriteString("\n")
	}
	return b.String()
}

// Render formats one system line.
func (s System) Render() string {
	order := HelpStyle.Render(s.Order)
	if s.Order == "once" {
		order = OnceStyle.Render(s.Order)
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = TypeStyle.Render(a.String())
	}
	return fmt.Sprintf("  %2d %s %s(%s)", s.Index, order, NameStyle.Render(short(s.Name)), strings.Join(args, ", "))
}

// columns lays out rows with every column padded to its widest cell.
func columns(rows [][]string) string {
	var widths []int
	for _, r := range rows {
		for i, c := range r {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	var b strings.Builder
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = lipgloss.NewStyle().Width(widths[i]).Render(c)
		}
		b.WriteString("  ")
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}
	return b.String()
}
