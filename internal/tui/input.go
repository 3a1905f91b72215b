package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// inputModel is a one-line free text prompt. When def is set, submitting
// an empty line yields def. Text is returned as typed unless trim is set.
type inputModel struct {
	title    string
	input    textinput.Model
	def      string
	trim     bool
	validate func(string) error
	err      error
	value    string
	done     bool
	canceled bool
}

func newInputModel(title, def string, validate func(string) error) inputModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Placeholder = def
	ti.Focus()

	return inputModel{
		title:    title,
		input:    ti,
		def:      def,
		validate: validate,
	}
}

func newIntInputModel(title string, def int) inputModel {
	m := newInputModel(title, strconv.Itoa(def), func(s string) error {
		_, err := strconv.Atoi(s)
		return err
	})
	m.trim = true
	return m
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			value := m.input.Value()
			if m.trim {
				value = strings.TrimSpace(value)
			}
			if value == "" {
				value = m.def
			}
			if m.validate != nil {
				if err := m.validate(value); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		default:
			m.err = nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	if m.done {
		return answered(m.title, m.value)
	}
	if m.canceled {
		return ""
	}

	view := titleStyle.Render(m.title) + "\n" + m.input.View()
	if m.err != nil {
		view += "\n" + errorStyle.Render("Invalid input: ") + m.err.Error()
	}
	return view + "\n" + helpStyle.Render("Enter: submit • Esc: cancel")
}

func (m inputModel) Value() string {
	return m.value
}
