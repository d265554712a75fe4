package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gatesketch/pkg/circuit"
)

// Explorer styles
var (
	inputStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	promptStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ExploreModel - Interactive expression editing
// =============================================================================

// BuildFunc lays out the circuit for an expression.
type BuildFunc func(expression string) (*circuit.Circuit, error)

// builtMsg delivers the result of an asynchronous build.
type builtMsg struct {
	input   string
	circuit *circuit.Circuit
	err     error
}

// ExploreModel is the bubbletea model for the interactive explorer. Every
// edit re-validates the input and shows its postfix form; enter lays out
// the circuit and lists its gates.
type ExploreModel struct {
	Input    []rune
	Postfix  []string
	Err      error // validation error for the current input
	Circuit  *circuit.Circuit
	BuildErr error
	Building bool
	Selected int // highlighted gate row

	build BuildFunc
}

// NewExploreModel creates an explorer that builds circuits with build.
func NewExploreModel(build BuildFunc) ExploreModel {
	return ExploreModel{build: build}
}

// WithInput returns m with its input replaced by s.
func (m ExploreModel) WithInput(s string) ExploreModel {
	m.Input = []rune(s)
	return m.revalidate()
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.startBuild()
		case tea.KeyUp:
			if m.Selected > 0 {
				m.Selected--
			}
		case tea.KeyDown:
			if m.Circuit != nil && m.Selected < len(m.Circuit.Gates)-1 {
				m.Selected++
			}
		case tea.KeyBackspace:
			if len(m.Input) > 0 {
				m.Input = m.Input[:len(m.Input)-1]
				m = m.revalidate()
			}
		case tea.KeyCtrlU:
			m.Input = nil
			m = m.revalidate()
		case tea.KeySpace:
			m.Input = append(m.Input, ' ')
			m = m.revalidate()
		case tea.KeyRunes:
			m.Input = append(m.Input, msg.Runes...)
			m = m.revalidate()
		}
	case builtMsg:
		// Results for an input that has since been edited are dropped.
		if msg.input != string(m.Input) {
			return m, nil
		}
		m.Building = false
		m.Circuit, m.BuildErr = msg.circuit, msg.err
		m.Selected = 0
	}
	return m, nil
}

// revalidate parses the current input and discards any circuit built for
// an earlier input.
func (m ExploreModel) revalidate() ExploreModel {
	m.Circuit, m.BuildErr, m.Building = nil, nil, false
	m.Postfix, m.Err = nil, nil
	if strings.TrimSpace(string(m.Input)) == "" {
		return m
	}
	m.Postfix, m.Err = postfixOf(string(m.Input))
	return m
}

func (m ExploreModel) startBuild() (tea.Model, tea.Cmd) {
	if len(m.Postfix) == 0 || m.Err != nil || m.build == nil {
		return m, nil
	}
	input := string(m.Input)
	build := m.build
	m.Building = true
	return m, func() tea.Msg {
		c, err := build(input)
		return builtMsg{input: input, circuit: c, err: err}
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Expressions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to edit  ⏎ build  ↑/↓ select gate  ctrl+u clear  esc quit"))
	b.WriteString("\n\n")

	b.WriteString(promptStyle.Render("> "))
	b.WriteString(inputStyle.Render(string(m.Input)))
	b.WriteString(promptStyle.Render("█"))
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(errorStyle.Render(iconError + " " + describe(m.Err)))
	case len(m.Postfix) > 0:
		b.WriteString(StyleDim.Render("postfix: ") + StyleSuccess.Render(strings.Join(m.Postfix, " ")))
	}
	b.WriteString("\n\n")

	switch {
	case m.Building:
		b.WriteString(StyleDim.Render("building..."))
	case m.BuildErr != nil:
		b.WriteString(errorStyle.Render(iconError + " " + describe(m.BuildErr)))
	case m.Circuit != nil:
		b.WriteString(gateTable(m.Circuit, m.Selected))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %dx%d · %d gates · output %s",
			m.Circuit.Width, m.Circuit.Height, len(m.Circuit.Gates), m.Circuit.Output)))
	}
	b.WriteString("\n")

	return b.String()
}
