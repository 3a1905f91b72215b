package mite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the account the client talks to unless configured
// otherwise. Override at build time with
// -ldflags "-X github.com/christopherklint97/might/internal/mite.DefaultBaseURL=...".
var DefaultBaseURL = "https://simplabs.mite.yo.lk"

const userAgentPrefix = "mite.app/v1.1 (https://github.com/yolk)"

type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

type Options struct {
	BaseURL string
	Version string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewClient(apiKey string, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Client{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: fmt.Sprintf("%s; might/%s", userAgentPrefix, version),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) doRequest(ctx context.Context, op, method, path string, body interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: marshaling request body: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: creating request: %w", op, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-MiteApiKey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("mite API request", "method", method, "path", path)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("API request transport error", "method", method, "path", path, "error", err, "elapsed", time.Since(requestStart))
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug("mite API response", "method", method, "path", path, "status", resp.StatusCode, "bytes", len(respBody), "elapsed", time.Since(requestStart))

	return resp.StatusCode, respBody, nil
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	status, data, err := c.doRequest(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		c.logger.Error("API request failed", "op", op, "path", path, "status", status, "response", truncate(string(data), 200))
		return nil, &StatusError{Op: op, StatusCode: status, Body: truncate(string(data), 200)}
	}
	return data, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// ListCustomers returns every customer in server order.
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	const op = "listing customers"
	data, err := c.get(ctx, op, "/customers.json")
	if err != nil {
		return nil, err
	}

	var envelopes []customerEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	customers := make([]Customer, 0, len(envelopes))
	for i, e := range envelopes {
		if e.Customer == nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d has no \"customer\" object", i)}
		}
		customer, err := e.Customer.customer()
		if err != nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d: %w", i, err)}
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

// ListProjects returns every project regardless of customer.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	const op = "listing projects"
	data, err := c.get(ctx, op, "/projects.json")
	if err != nil {
		return nil, err
	}

	var envelopes []projectEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	projects := make([]Project, 0, len(envelopes))
	for i, e := range envelopes {
		if e.Project == nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d has no \"project\" object", i)}
		}
		project, err := e.Project.project()
		if err != nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d: %w", i, err)}
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	const op = "listing services"
	data, err := c.get(ctx, op, "/services.json")
	if err != nil {
		return nil, err
	}

	var envelopes []serviceEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	services := make([]Service, 0, len(envelopes))
	for i, e := range envelopes {
		if e.Service == nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d has no \"service\" object", i)}
		}
		service, err := e.Service.service()
		if err != nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d: %w", i, err)}
		}
		services = append(services, service)
	}
	return services, nil
}

// CreateTimeEntry posts the entry. Any status other than 201 comes back as
// a *RejectedError.
func (c *Client) CreateTimeEntry(ctx context.Context, entry TimeEntryRequest) (*TimeEntry, error) {
	const op = "creating time entry"
	status, data, err := c.doRequest(ctx, op, http.MethodPost, "/time_entries.json", timeEntryRequestEnvelope{TimeEntry: entry})
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		c.logger.Error("time entry rejected", "status", status, "response", truncate(string(data), 200))
		return nil, &RejectedError{StatusCode: status, Body: truncate(string(data), 200)}
	}

	var envelope timeEntryEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	if envelope.TimeEntry == nil {
		return nil, &DecodeError{Op: op, Err: errors.New("no \"time_entry\" object")}
	}

	created, err := envelope.TimeEntry.strict()
	if err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return &created, nil
}

// ListTimeEntries returns the current user's entries for the given "at"
// filter, e.g. "today" or "this_week".
func (c *Client) ListTimeEntries(ctx context.Context, at string) ([]TimeEntry, error) {
	const op = "listing time entries"
	path := "/time_entries.json"
	if at != "" {
		path += "?" + url.Values{"at": {at}}.Encode()
	}
	data, err := c.get(ctx, op, path)
	if err != nil {
		return nil, err
	}

	var envelopes []timeEntryEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	entries := make([]TimeEntry, 0, len(envelopes))
	for i, e := range envelopes {
		if e.TimeEntry == nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d has no \"time_entry\" object", i)}
		}
		entry, err := e.TimeEntry.lenient()
		if err != nil {
			return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d: %w", i, err)}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// strict requires every displayed field to be present.
func (f *timeEntryFields) strict() (TimeEntry, error) {
	err := requireKeys("time entry",
		key{"date_at", f.DateAt != nil},
		key{"customer_name", f.CustomerName != nil},
		key{"project_name", f.ProjectName != nil},
		key{"service_name", f.ServiceName != nil},
		key{"minutes", f.Minutes != nil},
	)
	if err != nil {
		return TimeEntry{}, err
	}
	return f.lenient()
}

// lenient only requires date and duration. Entries listed from the server
// may legitimately lack a project or service.
func (f *timeEntryFields) lenient() (TimeEntry, error) {
	if f.DateAt == nil || f.Minutes == nil {
		return TimeEntry{}, errors.New("time entry is missing date_at or minutes")
	}
	return TimeEntry{
		DateAt:       *f.DateAt,
		CustomerName: deref(f.CustomerName),
		ProjectName:  deref(f.ProjectName),
		ServiceName:  deref(f.ServiceName),
		Minutes:      *f.Minutes,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
