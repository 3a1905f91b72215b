// Package flow drives the customer → project → service → hours → note
// sequence and submits the resulting time entry.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/christopherklint97/might/internal/mite"
)

// API is the part of the mite client the flow needs.
type API interface {
	ListCustomers(ctx context.Context) ([]mite.Customer, error)
	ListProjects(ctx context.Context) ([]mite.Project, error)
	ListServices(ctx context.Context) ([]mite.Service, error)
	CreateTimeEntry(ctx context.Context, entry mite.TimeEntryRequest) (*mite.TimeEntry, error)
}

// Prompter asks the user for input. Every method blocks until the user
// answers or cancels.
type Prompter interface {
	// Select returns the index of the chosen label. The first label is
	// highlighted initially.
	Select(title string, labels []string, paged bool) (int, error)
	Int(title string, def int) (int, error)
	Text(title string) (string, error)
	// Loading runs fetch while showing label. The context passed to fetch
	// is canceled if the user aborts the wait.
	Loading(ctx context.Context, label string, fetch func(ctx context.Context) error) error
}

type Options struct {
	// DefaultHours is offered as-is by the hours prompt.
	DefaultHours int
	Logger       *slog.Logger
}

type Flow struct {
	api          API
	prompt       Prompter
	out          io.Writer
	defaultHours int
	logger       *slog.Logger
}

func New(api API, prompt Prompter, out io.Writer, opts Options) *Flow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Flow{
		api:          api,
		prompt:       prompt,
		out:          out,
		defaultHours: opts.DefaultHours,
		logger:       logger,
	}
}

// Run walks through all prompts and submits the entry. A rejected
// submission is reported on out and is not an error.
func (f *Flow) Run(ctx context.Context) error {
	customer, err := f.selectCustomer(ctx)
	if err != nil {
		return err
	}

	project, err := f.selectProject(ctx, customer)
	if err != nil {
		return err
	}

	service, err := f.selectService(ctx)
	if err != nil {
		return err
	}

	hours, err := f.prompt.Int("Hours", f.defaultHours)
	if err != nil {
		return fmt.Errorf("reading hours: %w", err)
	}

	note, err := f.prompt.Text("Note")
	if err != nil {
		return fmt.Errorf("reading note: %w", err)
	}

	return f.Submit(ctx, NewTimeEntry(hours, project, service, note))
}

// Submit posts entry and renders the outcome.
func (f *Flow) Submit(ctx context.Context, entry mite.TimeEntryRequest) error {
	f.logger.Debug("submitting time entry",
		"minutes", entry.Minutes,
		"project_id", entry.ProjectID,
		"service_id", entry.ServiceID,
	)

	created, err := f.api.CreateTimeEntry(ctx, entry)
	var rejected *mite.RejectedError
	if errors.As(err, &rejected) {
		fmt.Fprintf(f.out, "Something happened trying to create an entry: %s\n", rejected.Status())
		return nil
	}
	if err != nil {
		return err
	}

	RenderEntry(f.out, *created)
	return nil
}

func (f *Flow) selectCustomer(ctx context.Context) (mite.Customer, error) {
	var customers []mite.Customer
	err := f.prompt.Loading(ctx, "Fetching customers", func(ctx context.Context) error {
		var err error
		customers, err = f.api.ListCustomers(ctx)
		return err
	})
	if err != nil {
		return mite.Customer{}, err
	}

	return Choose(f.prompt, "Select customer", customers, false, &EmptySelectionError{What: "customers"})
}

func (f *Flow) selectProject(ctx context.Context, customer mite.Customer) (mite.Project, error) {
	var projects []mite.Project
	err := f.prompt.Loading(ctx, "Fetching projects", func(ctx context.Context) error {
		var err error
		projects, err = f.api.ListProjects(ctx)
		return err
	})
	if err != nil {
		return mite.Project{}, err
	}

	candidates := FilterProjects(projects, customer.ID)
	f.logger.Debug("filtered projects", "customer_id", customer.ID, "total", len(projects), "candidates", len(candidates))

	return Choose(f.prompt, "Select project", candidates, false,
		&EmptySelectionError{What: "projects", Scope: fmt.Sprintf("customer %q", customer.Name)})
}

func (f *Flow) selectService(ctx context.Context) (mite.Service, error) {
	var services []mite.Service
	err := f.prompt.Loading(ctx, "Fetching services", func(ctx context.Context) error {
		var err error
		services, err = f.api.ListServices(ctx)
		return err
	})
	if err != nil {
		return mite.Service{}, err
	}

	return Choose(f.prompt, "Select service", services, true, &EmptySelectionError{What: "services"})
}
