// Package blogapi is a typed client for the blog backend's REST API:
// registration, login, and blog create/read/update/trash.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mesh-intelligence/blogctl/internal/httpclient"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4096

// Client calls the blog backend. It carries no session state of its own;
// the bearer token comes from the TokenSource given to New.
type Client struct {
	base *httpclient.BaseClient
}

// TokenSource returns the current bearer token, or "" when logged out.
type TokenSource func() string

// New returns a Client for baseURL. httpClient may be nil.
func New(httpClient *http.Client, baseURL string, token TokenSource) *Client {
	base := httpclient.NewBaseClient(httpClient, baseURL)
	if token != nil {
		base.Token = token
	}
	return &Client{base: base}
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  types.UserProfile `json:"user"`
}

// Register creates an account. The form is validated before any call.
func (c *Client) Register(ctx context.Context, reg types.Registration) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	return c.call(ctx, "register", http.MethodPost, "/auth/register", reg, nil)
}

// Login exchanges credentials for a bearer token and the user's profile.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return LoginResult{}, err
	}
	var out LoginResult
	if err := c.call(ctx, "login", http.MethodPost, "/auth/login", creds, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// ListBlogs returns every blog visible to the caller.
func (c *Client) ListBlogs(ctx context.Context) ([]types.BlogRecord, error) {
	var out []types.BlogRecord
	if err := c.call(ctx, "list blogs", http.MethodGet, "/blogs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBlog fetches one blog by id.
func (c *Client) GetBlog(ctx context.Context, id string) (types.BlogRecord, error) {
	p, err := blogPath("/blogs/", id)
	if err != nil {
		return types.BlogRecord{}, err
	}
	var out types.BlogRecord
	if err := c.call(ctx, "get blog", http.MethodGet, p, nil, &out); err != nil {
		return types.BlogRecord{}, err
	}
	return out, nil
}

// CreateBlog creates a blog and returns the stored record.
func (c *Client) CreateBlog(ctx context.Context, in types.BlogInput) (types.BlogRecord, error) {
	if err := in.Validate(); err != nil {
		return types.BlogRecord{}, err
	}
	var out types.BlogRecord
	if err := c.call(ctx, "create blog", http.MethodPost, "/blogs", in, &out); err != nil {
		return types.BlogRecord{}, err
	}
	return out, nil
}

// UpdateBlog overwrites every editable field of blog id.
func (c *Client) UpdateBlog(ctx context.Context, id string, in types.BlogInput) (types.BlogRecord, error) {
	p, err := blogPath("/blogs/", id)
	if err != nil {
		return types.BlogRecord{}, err
	}
	if err := in.Validate(); err != nil {
		return types.BlogRecord{}, err
	}
	var out types.BlogRecord
	if err := c.call(ctx, "update blog", http.MethodPatch, p, in, &out); err != nil {
		return types.BlogRecord{}, err
	}
	return out, nil
}

// TrashBlog moves blog id to the trash. Nothing is physically deleted.
func (c *Client) TrashBlog(ctx context.Context, id string) error {
	p, err := blogPath("/blogs/trash/", id)
	if err != nil {
		return err
	}
	return c.call(ctx, "trash blog", http.MethodPatch, p, nil, nil)
}

// blogPath appends id to prefix as a single path segment. Ids that would
// change the resolved endpoint are refused before any request is built.
func blogPath(prefix, id string) (string, error) {
	switch {
	case id == "":
		return "", ErrMissingID
	case id == "." || id == "..", strings.ContainsAny(id, `/\?#`):
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return prefix + id, nil
}

// call sends in as JSON (when non-nil) and decodes the response into out
// (when non-nil). A {"data": ...}, {"blogs": ...} or {"blog": ...} envelope
// is unwrapped.
func (c *Client) call(ctx context.Context, op, method, relPath string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := c.base.NewRequest(ctx, method, relPath, nil, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Op: op, Status: resp.StatusCode, Message: messageFromBody(resp.StatusCode, b)}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if err := decode(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// envelopeKeys are the wrapper keys the backend has used around payloads.
var envelopeKeys = []string{"data", "blogs", "blog"}

// decode unmarshals data into out, unwrapping a single-key envelope.
func decode(data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	if bytes.HasPrefix(trimmed, []byte("{")) {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			for _, key := range envelopeKeys {
				if raw, ok := envelope[key]; ok && len(raw) > 0 && string(raw) != "null" {
					trimmed = raw
					break
				}
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}
