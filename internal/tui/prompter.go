package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrCanceled is returned when the user aborts a prompt.
var ErrCanceled = errors.New("canceled")

type Options struct {
	PageSize int
	Input    io.Reader
	Output   io.Writer
}

// Prompter runs each prompt as its own bubbletea program. Prompts are
// drawn on stderr by default so stdout only carries results.
type Prompter struct {
	pageSize int
	input    io.Reader
	output   io.Writer
	spinner  bool
}

func NewPrompter(opts Options) *Prompter {
	p := &Prompter{
		pageSize: opts.PageSize,
		input:    opts.Input,
		output:   opts.Output,
	}
	if p.input == nil {
		p.input = os.Stdin
	}
	if p.output == nil {
		p.output = os.Stderr
	}
	if f, ok := p.output.(*os.File); ok {
		p.spinner = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p *Prompter) run(model tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(model, tea.WithInput(p.input), tea.WithOutput(p.output))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	return final, nil
}

func (p *Prompter) Select(title string, labels []string, paged bool) (int, error) {
	final, err := p.run(newSelectModel(title, labels, paged, p.pageSize))
	if err != nil {
		return 0, err
	}
	m := final.(selectModel)
	if !m.done {
		return 0, ErrCanceled
	}
	return m.Selected(), nil
}

func (p *Prompter) Int(title string, def int) (int, error) {
	final, err := p.run(newIntInputModel(title, def))
	if err != nil {
		return 0, err
	}
	m := final.(inputModel)
	if !m.done {
		return 0, ErrCanceled
	}
	return strconv.Atoi(m.Value())
}

func (p *Prompter) Text(title string) (string, error) {
	final, err := p.run(newInputModel(title, "", nil))
	if err != nil {
		return "", err
	}
	m := final.(inputModel)
	if !m.done {
		return "", ErrCanceled
	}
	return m.Value(), nil
}

// Loading shows a spinner while fetch runs. Without a terminal fetch is
// simply called. The context given to fetch is canceled once Loading
// returns, so an aborted wait also aborts the request behind it.
func (p *Prompter) Loading(ctx context.Context, label string, fetch func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !p.spinner {
		return fetch(ctx)
	}

	final, err := p.run(newLoadingModel(label, func() error { return fetch(ctx) }))
	if err != nil {
		return err
	}
	m := final.(loadingModel)
	if m.canceled {
		return ErrCanceled
	}
	return m.err
}
