package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	tea "github.com/charmbracelet/bubbletea"
)

// selectModel is a single-choice list. In paged mode only one page of
// labels is shown at a time.
type selectModel struct {
	title    string
	labels   []string
	cursor   int
	paged    bool
	pager    paginator.Model
	done     bool
	canceled bool
}

func newSelectModel(title string, labels []string, paged bool, pageSize int) selectModel {
	if pageSize <= 0 {
		pageSize = 10
	}

	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = pageSize
	p.ActiveDot = highlightStyle.Render("•")
	p.InactiveDot = dimStyle.Render("•")
	p.SetTotalPages(len(labels))

	return selectModel{
		title:  title,
		labels: labels,
		paged:  paged && len(labels) > pageSize,
		pager:  p,
	}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.canceled = true
		return m, tea.Quit
	case "enter":
		if len(m.labels) > 0 {
			m.done = true
			return m, tea.Quit
		}
	case "up", "k":
		m.moveTo(m.cursor - 1)
	case "down", "j":
		m.moveTo(m.cursor + 1)
	case "home", "g":
		m.moveTo(0)
	case "end", "G":
		m.moveTo(len(m.labels) - 1)
	case "pgup", "left", "h":
		if m.paged {
			m.moveTo(m.cursor - m.pager.PerPage)
		}
	case "pgdown", "right", "l":
		if m.paged {
			m.moveTo(m.cursor + m.pager.PerPage)
		}
	}
	return m, nil
}

// moveTo clamps i into [0, len(labels)) and keeps the page in sync.
func (m *selectModel) moveTo(i int) {
	if len(m.labels) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(i, len(m.labels)-1))
	m.pager.Page = m.cursor / m.pager.PerPage
}

func (m selectModel) View() string {
	if m.done {
		return answered(m.title, m.labels[m.cursor])
	}
	if m.canceled {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	start, end := 0, len(m.labels)
	if m.paged {
		start, end = m.pager.GetSliceBounds(len(m.labels))
	}

	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(highlightStyle.Render("> " + m.labels[i]))
		} else {
			b.WriteString("  " + m.labels[i])
		}
		b.WriteString("\n")
	}

	help := "↑/↓: move • Enter: select • Esc: cancel"
	if m.paged {
		b.WriteString("  " + m.pager.View() + "\n")
		help = fmt.Sprintf("Page %d/%d • ←/→: page • %s", m.pager.Page+1, m.pager.TotalPages, help)
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

// Selected is the chosen index, valid only once the prompt is done.
func (m selectModel) Selected() int {
	return m.cursor
}
