package mite

import (
	"fmt"
	"strings"
)

type Customer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// Label is the text shown for the customer in a selection prompt.
func (c Customer) Label() string { return c.Name }

type Project struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Note       string `json:"note"`
	CustomerID int    `json:"customer_id"`
}

func (p Project) Label() string { return p.Name }

type Service struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
	Billable bool   `json:"billable"`
	Note     string `json:"note"`
}

func (s Service) Label() string { return s.Name }

// The API wraps every record in an object keyed by its resource name.
// Wire fields are pointers so that absent or null keys can be rejected.
type customerEnvelope struct {
	Customer *customerFields `json:"customer"`
}

type customerFields struct {
	ID       *int    `json:"id"`
	Name     *string `json:"name"`
	Archived *bool   `json:"archived"`
}

func (f *customerFields) customer() (Customer, error) {
	err := requireKeys("customer",
		key{"id", f.ID != nil},
		key{"name", f.Name != nil},
		key{"archived", f.Archived != nil},
	)
	if err != nil {
		return Customer{}, err
	}
	return Customer{ID: *f.ID, Name: *f.Name, Archived: *f.Archived}, nil
}

type projectEnvelope struct {
	Project *projectFields `json:"project"`
}

type projectFields struct {
	ID         *int    `json:"id"`
	Name       *string `json:"name"`
	Note       *string `json:"note"`
	CustomerID *int    `json:"customer_id"`
}

func (f *projectFields) project() (Project, error) {
	err := requireKeys("project",
		key{"id", f.ID != nil},
		key{"name", f.Name != nil},
		key{"note", f.Note != nil},
		key{"customer_id", f.CustomerID != nil},
	)
	if err != nil {
		return Project{}, err
	}
	return Project{ID: *f.ID, Name: *f.Name, Note: *f.Note, CustomerID: *f.CustomerID}, nil
}

type serviceEnvelope struct {
	Service *serviceFields `json:"service"`
}

type serviceFields struct {
	ID       *int    `json:"id"`
	Name     *string `json:"name"`
	Archived *bool   `json:"archived"`
	Billable *bool   `json:"billable"`
	Note     *string `json:"note"`
}

func (f *serviceFields) service() (Service, error) {
	err := requireKeys("service",
		key{"id", f.ID != nil},
		key{"name", f.Name != nil},
		key{"archived", f.Archived != nil},
		key{"billable", f.Billable != nil},
		key{"note", f.Note != nil},
	)
	if err != nil {
		return Service{}, err
	}
	return Service{ID: *f.ID, Name: *f.Name, Archived: *f.Archived, Billable: *f.Billable, Note: *f.Note}, nil
}

type key struct {
	name    string
	present bool
}

func requireKeys(resource string, keys ...key) error {
	var missing []string
	for _, k := range keys {
		if !k.present {
			missing = append(missing, k.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is missing %s", resource, strings.Join(missing, ", "))
	}
	return nil
}

type TimeEntryRequest struct {
	Minutes   int    `json:"minutes"`
	ProjectID int    `json:"project_id"`
	ServiceID int    `json:"service_id"`
	Note      string `json:"note"`
}

type timeEntryRequestEnvelope struct {
	TimeEntry TimeEntryRequest `json:"time_entry"`
}

// TimeEntry holds the subset of a server-side time entry that gets displayed.
type TimeEntry struct {
	DateAt       string
	CustomerName string
	ProjectName  string
	ServiceName  string
	Minutes      int
}

// Hours is the whole number of hours in the entry, truncated.
func (e TimeEntry) Hours() int { return e.Minutes / 60 }

// timeEntryFields uses pointers so absent keys can be told apart from
// empty values.
type timeEntryFields struct {
	DateAt       *string `json:"date_at"`
	CustomerName *string `json:"customer_name"`
	ProjectName  *string `json:"project_name"`
	ServiceName  *string `json:"service_name"`
	Minutes      *int    `json:"minutes"`
}

type timeEntryEnvelope struct {
	TimeEntry *timeEntryFields `json:"time_entry"`
}
