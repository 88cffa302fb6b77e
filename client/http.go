package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultFirestoreURL = "https://firestore.googleapis.com"
	DefaultAuthURL      = "https://identitytoolkit.googleapis.com"

	// pageSize bounds a single list call; pagination fetches the rest.
	pageSize = 300
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Client talks to the Firestore REST API and the Identity Toolkit REST API
// of one project.
type Client struct {
	BaseURL    string
	AuthURL    string
	ProjectID  string
	APIKey     string
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(projectID, apiKey string) *Client {
	return &Client{
		BaseURL:   DefaultFirestoreURL,
		AuthURL:   DefaultAuthURL,
		ProjectID: projectID,
		APIKey:    apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer token sent with document reads. Reads may run
// while a sign-in stores its token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, empty before sign-in.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SignInAnonymously creates an anonymous user and keeps its id token for
// later document reads. A project with anonymous sign-in disabled answers
// with ErrAdminRestricted.
func (c *Client) SignInAnonymously(ctx context.Context) (*SignUpResponse, error) {
	resp, err := c.postJSON(ctx, c.AuthURL, "/v1/accounts:signUp", SignUpRequest{ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	var result SignUpResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode sign in: %w", err)
	}
	c.SetToken(result.IDToken)
	return &result, nil
}

// ListDocuments returns every document of a collection in the order the
// service yields them, following page tokens until exhausted.
func (c *Client) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	var docs []Document
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("pageSize", fmt.Sprint(pageSize))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		body, err := c.getBody(ctx, c.documentsPath(collection), q)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		parsed := gjson.ParseBytes(body)
		for _, raw := range parsed.Get("documents").Array() {
			docs = append(docs, decodeDocument(raw))
		}
		pageToken = parsed.Get("nextPageToken").String()
		if pageToken == "" {
			break
		}
	}
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}

// GetDocument fetches one document by id, returning ErrNotFound if absent.
func (c *Client) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	body, err := c.getBody(ctx, c.documentsPath(collection)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	doc := decodeDocument(gjson.ParseBytes(body))
	return &doc, nil
}

func (c *Client) documentsPath(collection string) string {
	return fmt.Sprintf("/v1/projects/%s/databases/(default)/documents/%s",
		url.PathEscape(c.ProjectID), url.PathEscape(collection))
}

func (c *Client) getBody(ctx context.Context, path string, q url.Values) ([]byte, error) {
	resp, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(c.BaseURL, path, q), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	return c.HTTPClient.Do(req)
}

func (c *Client) postJSON(ctx context.Context, base, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(base, path, nil), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.HTTPClient.Do(req)
}

func (c *Client) endpoint(base, path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	if c.APIKey != "" {
		q.Set("key", c.APIKey)
	}
	if len(q) == 0 {
		return base + path
	}
	return base + path + "?" + q.Encode()
}

func (c *Client) setHeaders(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// parseError decodes the Google API error envelope
// {"error":{"code":..,"message":..,"status":..}}.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	env := gjson.GetBytes(body, "error")
	if !env.IsObject() {
		return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     env.Get("status").String(),
		Message:    env.Get("message").String(),
	}
}
