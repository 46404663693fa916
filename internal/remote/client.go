package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/linskybing/taskflow/internal/board"
	"github.com/linskybing/taskflow/internal/domain/comment"
	"github.com/linskybing/taskflow/internal/domain/project"
	"github.com/linskybing/taskflow/internal/domain/ticket"
	"github.com/linskybing/taskflow/internal/domain/user"
	"github.com/linskybing/taskflow/pkg/response"
)

const (
	HeaderClientID = "X-Client-ID"
	UserAgent      = "taskflow-board"
)

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	ClientID string
}

// Client talks to the taskflow API. Every failure it returns wraps
// board.ErrRemoteUnavailable.
type Client struct {
	http     *resty.Client
	baseURL  string
	clientID string
}

var _ board.Store = (*Client)(nil)

func New(cfg Config) *Client {
	r := resty.New()
	r.SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)
	if cfg.ClientID != "" {
		r.SetHeader(HeaderClientID, cfg.ClientID)
	}
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}
	return &Client{
		http:     r,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		clientID: cfg.ClientID,
	}
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Status)
}

type requestFunc func(*resty.Request)

func withBody(body any) requestFunc {
	return func(r *resty.Request) { r.SetBody(body) }
}

func withResult(out any) requestFunc {
	return func(r *resty.Request) { r.SetResult(out) }
}

func withQuery(key, value string) requestFunc {
	return func(r *resty.Request) { r.SetQueryParam(key, value) }
}

func (c *Client) request(ctx context.Context, method, path string, rfs ...requestFunc) error {
	r := c.http.R().SetContext(ctx)
	for _, rf := range rfs {
		rf(r)
	}

	op := method + " " + path
	res, err := r.Execute(method, c.baseURL+path)
	if err != nil {
		return &board.RemoteError{Op: op, Err: err}
	}
	if res.IsError() {
		return &board.RemoteError{Op: op, Err: statusError(res)}
	}
	return nil
}

func statusError(res *resty.Response) *StatusError {
	e := &StatusError{Code: res.StatusCode(), Status: res.Status()}
	var body response.ErrorResponse
	if json.Unmarshal(res.Body(), &body) == nil {
		e.Message = body.Error
	}
	return e
}

func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var out []project.Project
	err := c.request(ctx, resty.MethodGet, "/api/projects/", withResult(&out))
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id uint) (*project.Project, error) {
	var out project.Project
	if err := c.request(ctx, resty.MethodGet, fmt.Sprintf("/api/projects/%d", id), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, input project.CreateProjectDTO) (*project.Project, error) {
	var out project.Project
	if err := c.request(ctx, resty.MethodPost, "/api/projects/", withBody(input), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTickets(ctx context.Context, projectID *uint) ([]ticket.Ticket, error) {
	var out []ticket.Ticket
	rfs := []requestFunc{withResult(&out)}
	if projectID != nil {
		rfs = append(rfs, withQuery("project_id", strconv.FormatUint(uint64(*projectID), 10)))
	}
	err := c.request(ctx, resty.MethodGet, "/api/tickets/", rfs...)
	return out, err
}

func (c *Client) GetTicket(ctx context.Context, id uint) (*ticket.Ticket, error) {
	var out ticket.Ticket
	if err := c.request(ctx, resty.MethodGet, fmt.Sprintf("/api/tickets/%d", id), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTicket(ctx context.Context, input ticket.CreateTicketDTO) (*ticket.Ticket, error) {
	var out ticket.Ticket
	if err := c.request(ctx, resty.MethodPost, "/api/tickets/", withBody(input), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id uint, input ticket.UpdateTicketDTO) (*ticket.Ticket, error) {
	var out ticket.Ticket
	if err := c.request(ctx, resty.MethodPut, fmt.Sprintf("/api/tickets/%d", id), withBody(input), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id uint) error {
	return c.request(ctx, resty.MethodDelete, fmt.Sprintf("/api/tickets/%d", id))
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var out []user.User
	err := c.request(ctx, resty.MethodGet, "/api/users/", withResult(&out))
	return out, err
}

func (c *Client) CreateUser(ctx context.Context, input user.CreateUserDTO) (*user.User, error) {
	var out user.User
	if err := c.request(ctx, resty.MethodPost, "/api/users/", withBody(input), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uint, input user.UpdateUserDTO) (*user.User, error) {
	var out user.User
	if err := c.request(ctx, resty.MethodPut, fmt.Sprintf("/api/users/%d", id), withBody(input), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListComments(ctx context.Context, ticketID uint) ([]comment.Comment, error) {
	var out []comment.Comment
	err := c.request(ctx, resty.MethodGet, fmt.Sprintf("/api/tickets/%d/comments", ticketID), withResult(&out))
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, input comment.CreateCommentDTO) (*comment.Comment, error) {
	var out comment.Comment
	if err := c.request(ctx, resty.MethodPost, "/api/comments/", withBody(input), withResult(&out)); err != nil {
		return nil, err
	}
	return &out, nil
}
