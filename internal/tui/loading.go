package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type loadedMsg struct {
	err error
}

// loadingModel shows a spinner until fetch returns.
type loadingModel struct {
	spinner  spinner.Model
	label    string
	fetch    func() error
	err      error
	done     bool
	canceled bool
}

func newLoadingModel(label string, fetch func() error) loadingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = highlightStyle

	return loadingModel{
		spinner: s,
		label:   label,
		fetch:   fetch,
	}
}

func (m loadingModel) Init() tea.Cmd {
	fetch := m.fetch
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return loadedMsg{err: fetch()}
	})
}

func (m loadingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}
	case loadedMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m loadingModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return m.spinner.View() + " " + m.label + "..."
}
