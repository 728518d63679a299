// Package client is a typed HTTP client for the tracker API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"task-tracker/internal/identity"
	"task-tracker/pkg/employee"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/task"
	"task-tracker/pkg/tracker"
)

// Status mirrors GET /api/status.
type Status struct {
	Backend   string `json:"backend"`
	Principal string `json:"principal"`
	Tasks     int    `json:"tasks"`
	Employees int    `json:"employees"`
	Events    int    `json:"events"`
}

// APIError is a non-2xx response.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string { return fmt.Sprintf("%d: %s", e.Code, e.Msg) }

// Client talks to the tracker's HTTP API as one principal.
type Client struct {
	base      string
	principal string
	token     string
	http      *http.Client
}

// New signs a bearer token when secret is set; otherwise it names the
// principal in the trusted header.
func New(base, principal, secret string) (*Client, error) {
	c := &Client{
		base:      strings.TrimRight(base, "/"),
		principal: principal,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
	if secret != "" {
		tok, err := identity.Issue([]byte(secret), principal, time.Now(), 24*time.Hour)
		if err != nil {
			return nil, err
		}
		c.token = tok
	}
	return c, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set(identity.Header, c.principal)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &APIError{Code: resp.StatusCode, Msg: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// list fetches a collection, treating 404 as empty.
func list[T any](c *Client, path string) ([]T, error) {
	var out []T
	err := c.do(http.MethodGet, path, nil, &out)
	if e, ok := err.(*APIError); ok && e.Code == http.StatusNotFound {
		return nil, nil
	}
	return out, err
}

func (c *Client) Status() (Status, error) {
	var s Status
	err := c.do(http.MethodGet, "/api/status", nil, &s)
	return s, err
}

// Analysis returns the report summary, or the server's message when there
// is nothing to report.
func (c *Client) Analysis() (string, error) {
	var r tracker.Report
	err := c.do(http.MethodGet, "/api/analysis", nil, &r)
	if e, ok := err.(*APIError); ok && e.Code == http.StatusNotFound {
		return e.Msg, nil
	}
	if err != nil {
		return "", err
	}
	return r.Summary, nil
}

// Tasks returns every task.
func (c *Client) Tasks() ([]task.Task, error) {
	return list[task.Task](c, "/api/tasks")
}

// PastDue returns incomplete tasks past their due time.
func (c *Client) PastDue() ([]task.Task, error) {
	return list[task.Task](c, "/api/tasks?past_due=true")
}

func (c *Client) CreateTask(in tracker.TaskInput) (task.Task, error) {
	var t task.Task
	err := c.do(http.MethodPost, "/api/tasks", in, &t)
	return t, err
}

func (c *Client) CompleteTask(id string) error {
	return c.do(http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/complete", nil, nil)
}

func (c *Client) Employees() ([]employee.Employee, error) {
	return list[employee.Employee](c, "/api/employees")
}

func (c *Client) CreateEmployee(name, email string) (employee.Employee, error) {
	var e employee.Employee
	err := c.do(http.MethodPost, "/api/employees", map[string]string{"name": name, "email": email}, &e)
	return e, err
}

// Events returns the newest journal events.
func (c *Client) Events(limit int) ([]eventgraph.Event, error) {
	return list[eventgraph.Event](c, fmt.Sprintf("/api/events?limit=%d", limit))
}
