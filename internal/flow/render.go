package flow

import (
	"fmt"
	"io"

	"github.com/christopherklint97/might/internal/mite"
)

// NewTimeEntry builds the request for hours spent on project/service.
func NewTimeEntry(hours int, project mite.Project, service mite.Service, note string) mite.TimeEntryRequest {
	return mite.TimeEntryRequest{
		Minutes:   hours * 60,
		ProjectID: project.ID,
		ServiceID: service.ID,
		Note:      note,
	}
}

// RenderEntry prints the date on one line and
// "customer / project / service\t\tNh" on the next.
func RenderEntry(w io.Writer, e mite.TimeEntry) {
	fmt.Fprintf(w, "%s\n%s / %s / %s\t\t%dh\n",
		e.DateAt, e.CustomerName, e.ProjectName, e.ServiceName, e.Hours())
}

// RenderDay prints every entry followed by a total line.
func RenderDay(w io.Writer, entries []mite.TimeEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries logged today.")
		return
	}

	totalMinutes := 0
	for _, e := range entries {
		RenderEntry(w, e)
		totalMinutes += e.Minutes
	}

	fmt.Fprintf(w, "\nTotal: %dh %dmin (%d entries)\n", totalMinutes/60, totalMinutes%60, len(entries))
}

// RenderProjects prints "customer / project" for every project, with
// projects of unknown customers listed under "(no customer)".
func RenderProjects(w io.Writer, customers []mite.Customer, projects []mite.Project) {
	names := make(map[int]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	for _, p := range projects {
		customer, ok := names[p.CustomerID]
		if !ok {
			customer = "(no customer)"
		}
		fmt.Fprintf(w, "  %6d  %s / %s\n", p.ID, customer, p.Name)
	}
}
