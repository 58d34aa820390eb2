package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sealbox/internal/domain"
)

// Client implements the directory, group, and message store contracts
// against a remote HTTP API.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a Client for the API at base. httpClient may be nil.
func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// ---------- DirectoryStore ----------

func (c *Client) SaveUser(ctx context.Context, rec domain.UserRecord) error {
	return c.put(ctx, "/users/"+url.PathEscape(rec.UserID), rec, nil)
}

func (c *Client) GetUser(ctx context.Context, userID string) (domain.UserRecord, error) {
	var out domain.UserRecord
	err := c.get(ctx, "/users/"+url.PathEscape(userID), &out)
	return out, err
}

// ---------- GroupStore ----------

func (c *Client) SaveGroup(ctx context.Context, rec domain.GroupRecord) error {
	return c.put(ctx, "/groups/"+url.PathEscape(rec.GroupID), rec, nil)
}

func (c *Client) GetGroup(ctx context.Context, groupID string) (domain.GroupRecord, error) {
	var out domain.GroupRecord
	err := c.get(ctx, "/groups/"+url.PathEscape(groupID), &out)
	return out, err
}

func (c *Client) SaveEnvelope(ctx context.Context, env domain.MemberEnvelope) error {
	path := "/groups/" + url.PathEscape(env.GroupID) + "/envelopes/" + url.PathEscape(env.MemberID)
	return c.put(ctx, path, env, nil)
}

func (c *Client) GetEnvelope(ctx context.Context, groupID, memberID string) (domain.MemberEnvelope, error) {
	var out domain.MemberEnvelope
	path := "/groups/" + url.PathEscape(groupID) + "/envelopes/" + url.PathEscape(memberID)
	err := c.get(ctx, path, &out)
	return out, err
}

func (c *Client) ListEnvelopes(ctx context.Context, groupID string) ([]domain.MemberEnvelope, error) {
	var out []domain.MemberEnvelope
	err := c.get(ctx, "/groups/"+url.PathEscape(groupID)+"/envelopes", &out)
	return out, err
}

// ---------- MessageStore ----------

func (c *Client) PutMessage(ctx context.Context, rec domain.MessageRecord) error {
	return c.put(ctx, "/messages/"+url.PathEscape(rec.MessageID), rec, nil)
}

func (c *Client) GetMessage(ctx context.Context, messageID string) (domain.MessageRecord, error) {
	var out domain.MessageRecord
	err := c.get(ctx, "/messages/"+url.PathEscape(messageID), &out)
	return out, err
}

func (c *Client) UpdateMessage(ctx context.Context, rec domain.MessageRecord) error {
	return c.put(ctx, "/messages/"+url.PathEscape(rec.MessageID), rec, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	return c.do(ctx, http.MethodDelete, "/messages/"+url.PathEscape(messageID), nil, nil)
}

// listPage mirrors the server's paginated listing response.
type listPage struct {
	Messages   []domain.MessageRecord `json:"messages"`
	NextCursor string                 `json:"next_cursor"`
}

func (c *Client) ListByGroup(ctx context.Context, groupID, cursor string, limit int) ([]domain.MessageRecord, string, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/groups/" + url.PathEscape(groupID) + "/messages"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}
	var page listPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, "", err
	}
	return page.Messages, page.NextCursor, nil
}

// ---------- plumbing ----------

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Buffer
	if in != nil {
		body = new(bytes.Buffer)
		if err := json.NewEncoder(body).Encode(in); err != nil {
			return err
		}
	} else {
		body = new(bytes.Buffer)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("backend %s %s: %w", method, path, domain.ErrNotFound)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("backend %s %s: %s", method, path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertions that Client implements the store contracts.
var (
	_ domain.DirectoryStore = (*Client)(nil)
	_ domain.GroupStore     = (*Client)(nil)
	_ domain.MessageStore   = (*Client)(nil)
)
