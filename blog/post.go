// Package blog defines the post record shared by every content store and the
// terminal interpreter. It has no upstream imports so stores and front-ends
// can depend on it freely.
package blog

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Display defaults for optional post fields.
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "N/A"
	DefaultDate   = "N/A"
)

// ErrNotFound is returned by Store.GetPost when no post has the slug.
var ErrNotFound = errors.New("post not found")

// Post is a read-only snapshot of one document in the content store.
// Optional fields already carry their display defaults.
type Post struct {
	Slug   string
	Title  string
	Author string
	Date   string
	Views  int
	Tags   []string
	Body   string
}

// Store is the content store consumed by the interpreter.
type Store interface {
	// ListPosts returns every post in the order the store yields them.
	ListPosts(ctx context.Context) ([]Post, error)
	// GetPost looks a post up by exact slug, returning ErrNotFound if absent.
	GetPost(ctx context.Context, slug string) (Post, error)
}

// FromFields builds a Post from a loosely typed field map, applying the
// documented defaults. id becomes the slug.
func FromFields(id string, fields map[string]any) Post {
	p := Post{
		Slug:   id,
		Title:  stringField(fields, "title"),
		Author: stringField(fields, "author"),
		Date:   stringField(fields, "date"),
		Views:  intField(fields, "views"),
		Tags:   tagsField(fields, "tags"),
		Body:   stringField(fields, "body"),
	}
	return p.WithDefaults()
}

// WithDefaults fills empty optional fields with their display defaults.
func (p Post) WithDefaults() Post {
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if p.Date == "" {
		p.Date = DefaultDate
	}
	if p.Views < 0 {
		p.Views = 0
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// HashTags returns the tags as "#tag" tokens joined by single spaces.
func (p Post) HashTags() string {
	parts := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		parts[i] = "#" + t
	}
	return strings.Join(parts, " ")
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

func intField(fields map[string]any, name string) int {
	switch v := fields[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return int(n)
	}
	return 0
}

// tagsField accepts []string or a []any holding only strings. Anything else
// is malformed and yields no tags.
func tagsField(fields map[string]any, name string) []string {
	switch v := fields[name].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return []string{}
			}
			tags = append(tags, s)
		}
		return tags
	}
	return []string{}
}
