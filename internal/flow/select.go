package flow

import (
	"fmt"

	"github.com/christopherklint97/might/internal/mite"
)

// Labeled is anything that can be shown as a choice.
type Labeled interface {
	Label() string
}

// EmptySelectionError means there was nothing to choose from.
type EmptySelectionError struct {
	What  string
	Scope string
}

func (e *EmptySelectionError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("no %s for %s", e.What, e.Scope)
	}
	return fmt.Sprintf("no %s to choose from", e.What)
}

// Choose asks the user to pick one of items. An empty list returns
// ifEmpty without prompting.
func Choose[T Labeled](p Prompter, title string, items []T, paged bool, ifEmpty *EmptySelectionError) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ifEmpty
	}

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label()
	}

	idx, err := p.Select(title, labels, paged)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", title, err)
	}
	if idx < 0 || idx >= len(items) {
		return zero, fmt.Errorf("%s: selection %d out of range [0, %d)", title, idx, len(items))
	}
	return items[idx], nil
}

// FilterProjects keeps the projects owned by customerID, in order.
func FilterProjects(projects []mite.Project, customerID int) []mite.Project {
	var out []mite.Project
	for _, p := range projects {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}
