package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func pressSelect(m selectModel, keys ...string) selectModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(selectModel)
	}
	return m
}

func pressInput(m inputModel, keys ...string) inputModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(inputModel)
	}
	return m
}

func labels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "item " + string(rune('A'+i))
	}
	return out
}

func TestSelect_DefaultIsFirst(t *testing.T) {
	m := pressSelect(newSelectModel("Select customer", []string{"Acme", "Globex"}, false, 10), "enter")
	if !m.done || m.Selected() != 0 {
		t.Fatalf("done=%v selected=%d, want done at 0", m.done, m.Selected())
	}
	if !strings.Contains(m.View(), "Acme") {
		t.Errorf("final view = %q, want the chosen label", m.View())
	}
}

func TestSelect_CursorStaysInBounds(t *testing.T) {
	m := newSelectModel("Select customer", labels(3), false, 10)

	m = pressSelect(m, "up", "up")
	if m.Selected() != 0 {
		t.Errorf("after up at top: %d, want 0", m.Selected())
	}
	m = pressSelect(m, "down", "j", "down", "down", "down")
	if m.Selected() != 2 {
		t.Errorf("after moving past the end: %d, want 2", m.Selected())
	}
	m = pressSelect(m, "k", "enter")
	if !m.done || m.Selected() != 1 {
		t.Errorf("done=%v selected=%d, want done at 1", m.done, m.Selected())
	}
}

func TestSelect_Cancel(t *testing.T) {
	m := pressSelect(newSelectModel("Select project", labels(2), false, 10), "esc")
	if !m.canceled || m.done {
		t.Errorf("canceled=%v done=%v", m.canceled, m.done)
	}
}

func TestSelect_EmptyNeverCompletes(t *testing.T) {
	m := pressSelect(newSelectModel("Select project", nil, false, 10), "down", "enter")
	if m.done {
		t.Error("empty select completed")
	}
}

func TestSelect_Paged(t *testing.T) {
	m := newSelectModel("Select service", labels(25), true, 10)
	if !m.paged {
		t.Fatal("expected paged mode for 25 items with page size 10")
	}

	view := m.View()
	if !strings.Contains(view, "item A") || strings.Contains(view, "item K") {
		t.Errorf("first page view = %q", view)
	}
	if !strings.Contains(view, "Page 1/3") {
		t.Errorf("first page view lacks page indicator: %q", view)
	}

	m = pressSelect(m, "pgdown")
	if m.Selected() != 10 || m.pager.Page != 1 {
		t.Errorf("after pgdown: cursor=%d page=%d, want 10/1", m.Selected(), m.pager.Page)
	}
	if view := m.View(); !strings.Contains(view, "item K") || strings.Contains(view, "item A\n") {
		t.Errorf("second page view = %q", view)
	}

	m = pressSelect(m, "l", "l")
	if m.Selected() != 24 || m.pager.Page != 2 {
		t.Errorf("after paging past the end: cursor=%d page=%d, want 24/2", m.Selected(), m.pager.Page)
	}

	m = pressSelect(m, "pgup", "up")
	if m.Selected() != 13 || m.pager.Page != 1 {
		t.Errorf("cursor=%d page=%d, want 13/1", m.Selected(), m.pager.Page)
	}
}

func TestSelect_PagedShortListShowsAll(t *testing.T) {
	m := newSelectModel("Select service", labels(3), true, 10)
	if m.paged {
		t.Error("a list shorter than a page should not be paged")
	}
	m = pressSelect(m, "pgdown")
	if m.Selected() != 0 {
		t.Errorf("pgdown moved cursor to %d in unpaged list", m.Selected())
	}
}

func TestIntInput_Default(t *testing.T) {
	m := pressInput(newIntInputModel("Hours", 8), "enter")
	if !m.done || m.Value() != "8" {
		t.Fatalf("done=%v value=%q, want 8", m.done, m.Value())
	}
}

func TestIntInput_Typed(t *testing.T) {
	m := pressInput(newIntInputModel("Hours", 8), "1", "2", "enter")
	if !m.done || m.Value() != "12" {
		t.Fatalf("done=%v value=%q, want 12", m.done, m.Value())
	}
}

func TestIntInput_RejectsNonInteger(t *testing.T) {
	m := pressInput(newIntInputModel("Hours", 8), "x", "enter")
	if m.done {
		t.Fatal("accepted a non-integer")
	}
	if m.err == nil || !strings.Contains(m.View(), "Invalid input") {
		t.Errorf("view = %q, want an error line", m.View())
	}

	m = pressInput(m, "backspace")
	if m.err != nil {
		t.Error("error not cleared after editing")
	}
}

func TestIntInput_AllowsNegative(t *testing.T) {
	m := pressInput(newIntInputModel("Hours", 8), "-", "1", "enter")
	if !m.done || m.Value() != "-1" {
		t.Fatalf("done=%v value=%q, want -1", m.done, m.Value())
	}
}

func TestTextInput_EmptyAllowed(t *testing.T) {
	m := pressInput(newInputModel("Note", "", nil), "enter")
	if !m.done || m.Value() != "" {
		t.Fatalf("done=%v value=%q, want empty", m.done, m.Value())
	}
}

func TestTextInput_Verbatim(t *testing.T) {
	note := "  padded " + strings.Repeat("x", 600)
	m := pressInput(newInputModel("Note", "", nil), note, "enter")
	if !m.done {
		t.Fatal("note not submitted")
	}
	if m.Value() != note {
		t.Errorf("value has %d chars %q..., want the %d typed chars", len(m.Value()), m.Value()[:min(len(m.Value()), 12)], len(note))
	}
}

func TestTextInput_WhitespaceOnly(t *testing.T) {
	m := pressInput(newInputModel("Note", "", nil), "   ", "enter")
	if !m.done || m.Value() != "   " {
		t.Fatalf("done=%v value=%q, want three spaces", m.done, m.Value())
	}
}

func TestIntInput_TrimsSpaces(t *testing.T) {
	m := pressInput(newIntInputModel("Hours", 8), " 3 ", "enter")
	if !m.done || m.Value() != "3" {
		t.Fatalf("done=%v value=%q, want 3", m.done, m.Value())
	}
}

func TestTextInput_Cancel(t *testing.T) {
	m := pressInput(newInputModel("Note", "", nil), "h", "i", "esc")
	if !m.canceled || m.done {
		t.Errorf("canceled=%v done=%v", m.canceled, m.done)
	}
}

func TestLoading_ReportsFetchError(t *testing.T) {
	boom := errors.New("boom")
	m := newLoadingModel("Fetching customers", func() error { return boom })
	if !strings.Contains(m.View(), "Fetching customers") {
		t.Errorf("view = %q", m.View())
	}

	next, cmd := m.Update(loadedMsg{err: boom})
	m = next.(loadingModel)
	if !m.done || !errors.Is(m.err, boom) {
		t.Errorf("done=%v err=%v", m.done, m.err)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestPrompter_LoadingWithoutTerminal(t *testing.T) {
	p := NewPrompter(Options{Output: &strings.Builder{}})
	called := false
	err := p.Loading(context.Background(), "Fetching services", func(ctx context.Context) error {
		called = true
		return ctx.Err()
	})
	if err != nil || !called {
		t.Errorf("err=%v called=%v", err, called)
	}
}

func TestPrompter_LoadingCancelStopsFetch(t *testing.T) {
	p := NewPrompter(Options{Input: strings.NewReader("\x03"), Output: io.Discard})
	p.spinner = true

	stopped := make(chan error, 1)
	err := p.Loading(context.Background(), "Fetching customers", func(ctx context.Context) error {
		<-ctx.Done()
		stopped <- ctx.Err()
		return ctx.Err()
	})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("err = %v, want ErrCanceled", err)
	}

	select {
	case ctxErr := <-stopped:
		if !errors.Is(ctxErr, context.Canceled) {
			t.Errorf("fetch context err = %v, want context.Canceled", ctxErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch still running after the wait was canceled")
	}
}
