package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoki2k/terminal-blog/blog"
)

const docsPrefix = "/v1/projects/demo/databases/(default)/documents/posts"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New("demo", "k3y")
	c.BaseURL = srv.URL
	c.AuthURL = srv.URL
	c.HTTPClient = srv.Client()
	return c
}

func TestSignInAnonymously(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts:signUp", r.URL.Path)
		assert.Equal(t, "k3y", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"idToken":"tok","refreshToken":"ref","expiresIn":"3600","localId":"u1"}`)
	})

	resp, err := c.SignInAnonymously(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.LocalID)
	assert.Equal(t, "tok", c.Token())
}

func TestSignInAdminRestricted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"ADMIN_ONLY_OPERATION","errors":[{"message":"ADMIN_ONLY_OPERATION","domain":"global","reason":"invalid"}]}}`)
	})

	_, err := c.SignInAnonymously(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAdminRestricted)
	assert.Empty(t, c.Token())
}

func TestSignInOtherFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := c.SignInAnonymously(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAdminRestricted)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "INVALID_ARGUMENT", apiErr.Status)
	assert.EqualError(t, apiErr, "API 400 INVALID_ARGUMENT: API key not valid. Please pass a valid API key.")
}

func TestListDocumentsFollowsPages(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, docsPrefix, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Query().Get("pageToken") {
		case "":
			fmt.Fprint(w, `{"documents":[{"name":"projects/demo/databases/(default)/documents/posts/first","fields":{"title":{"stringValue":"First"}}}],"nextPageToken":"p2"}`)
		case "p2":
			fmt.Fprint(w, `{"documents":[{"name":"projects/demo/databases/(default)/documents/posts/second","fields":{}}]}`)
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})
	c.SetToken("tok")

	docs, err := c.ListDocuments(context.Background(), "posts")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].ID)
	assert.Equal(t, "First", docs[0].Fields["title"])
	assert.Equal(t, "second", docs[1].ID)
	assert.Equal(t, 2, calls)
}

func TestListDocumentsEmptyCollection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	docs, err := c.ListDocuments(context.Background(), "posts")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDecodeTypedValues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "projects/demo/databases/(default)/documents/posts/hello",
			"fields": {
				"title": {"stringValue": "Hello"},
				"views": {"integerValue": "12"},
				"score": {"doubleValue": 4.5},
				"draft": {"booleanValue": false},
				"gone": {"nullValue": null},
				"date": {"timestampValue": "2024-01-02T03:04:05Z"},
				"tags": {"arrayValue": {"values": [{"stringValue": "go"}, {"stringValue": "web"}]}},
				"none": {"arrayValue": {}},
				"meta": {"mapValue": {"fields": {"lang": {"stringValue": "en"}}}}
			}
		}`)
	})

	doc, err := c.GetDocument(context.Background(), "posts", "hello")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"title": "Hello",
		"views": int64(12),
		"score": 4.5,
		"draft": false,
		"gone":  nil,
		"date":  "2024-01-02T03:04:05Z",
		"tags":  []any{"go", "web"},
		"none":  []any{},
		"meta":  map[string]any{"lang": "en"},
	}, doc.Fields)
}

func TestGetDocumentEscapesID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, docsPrefix+"/a%2Fb", r.URL.EscapedPath())
		fmt.Fprint(w, `{"name":"x/a","fields":{}}`)
	})
	_, err := c.GetDocument(context.Background(), "posts", "a/b")
	require.NoError(t, err)
}

func TestPostStore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case docsPrefix:
			fmt.Fprint(w, `{"documents":[
				{"name":"x/posts/a","fields":{"title":{"stringValue":"Hello World"},"tags":{"arrayValue":{"values":[{"stringValue":"x"}]}}}},
				{"name":"x/posts/b","fields":{"title":{"stringValue":"Other"},"author":{"stringValue":"Jo"},"views":{"integerValue":"7"}}}
			]}`)
		case docsPrefix + "/b":
			fmt.Fprint(w, `{"name":"x/posts/b","fields":{"body":{"stringValue":"# Hi"}}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":404,"message":"Document not found.","status":"NOT_FOUND"}}`)
		}
	})
	store := NewPostStore(c, "")

	posts, err := store.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, blog.Post{Slug: "a", Title: "Hello World", Author: "N/A", Date: "N/A", Tags: []string{"x"}}, posts[0])
	assert.Equal(t, 7, posts[1].Views)

	post, err := store.GetPost(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "# Hi", post.Body)
	assert.Equal(t, "Untitled", post.Title)

	_, err = store.GetPost(context.Background(), "missing")
	assert.ErrorIs(t, err, blog.ErrNotFound)
}

func TestPostStoreServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"Missing or insufficient permissions.","status":"PERMISSION_DENIED"}}`)
	})
	_, err := NewPostStore(c, "posts").ListPosts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERMISSION_DENIED: Missing or insufficient permissions.")
}
