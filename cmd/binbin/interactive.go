package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type interactiveModel struct {
	err      error
	art      *artifact
	d        *dumper
	jump     textinput.Model
	view     viewport.Model
	selected int
	state    modelState
	ready    bool
}

type modelState int

const (
	stateBrowse modelState = iota
	stateJump
)

func newInteractiveModel(a *artifact) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "offset: 0x"
	ti.Placeholder = "hex"
	ti.CharLimit = 16
	ti.Width = 20

	return &interactiveModel{
		art:   a,
		d:     &dumper{regions: a.regions},
		jump:  ti,
		state: stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// header is the region legend; the viewport gets the remaining height.
func (m *interactiveModel) header() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("binbin"))
	b.WriteString(" ")
	b.WriteString(m.art.name)
	b.WriteString(fmt.Sprintf(", %d bytes\n\n", len(m.art.data)))
	b.WriteString(m.d.legend(m.selected))
	b.WriteString("\n")
	return b.String()
}

func (m *interactiveModel) footer() string {
	switch {
	case m.state == stateJump:
		return m.jump.View()
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return helpStyle.Render("↑/↓ region • pgup/pgdn scroll • g go to offset • q quit")
}

func (m *interactiveModel) refresh() {
	m.view.SetContent(m.d.dump(m.art.data, m.selected))
	if m.selected >= 0 && m.selected < len(m.art.regions) {
		m.view.SetYOffset(int(m.art.regions[m.selected].rng.Start / bytesPerLine))
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - lipgloss.Height(m.header()) - 1
		if !m.ready {
			m.view = newViewport(msg.Width, height)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateJump {
			switch msg.String() {
			case "enter":
				m.state = stateBrowse
				m.jumpTo(m.jump.Value())
				m.jump.Blur()
				m.jump.SetValue("")
				return m, nil
			case "esc":
				m.state = stateBrowse
				m.jump.Blur()
				m.jump.SetValue("")
				return m, nil
			}
			m.jump, cmd = m.jump.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.art.regions)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil

		case "g":
			m.err = nil
			m.state = stateJump
			return m, m.jump.Focus()
		}
	}

	if m.ready {
		m.view, cmd = m.view.Update(msg)
	}
	return m, cmd
}

// jumpTo scrolls to a hex offset and selects the region containing it.
func (m *interactiveModel) jumpTo(s string) {
	off, err := strconv.ParseInt(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil || off < 0 || off >= int64(len(m.art.data)) {
		m.err = fmt.Errorf("offset %q is outside the artifact", s)
		return
	}
	if idx := m.d.regionAt(off); idx >= 0 {
		m.selected = idx
	}
	m.view.SetContent(m.d.dump(m.art.data, m.selected))
	m.view.SetYOffset(int(off / bytesPerLine))
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.header() + m.view.View() + "\n" + m.footer()
}

func newViewport(width, height int) viewport.Model {
	return viewport.New(width, max(height, 1))
}

func runInteractive(a *artifact) error {
	p := tea.NewProgram(newInteractiveModel(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
