package client

import (
	"context"
	"errors"

	"github.com/dotoki2k/terminal-blog/blog"
)

// DefaultCollection holds the blog's posts.
const DefaultCollection = "posts"

// PostStore serves blog posts from a Firestore collection.
type PostStore struct {
	client     *Client
	collection string
}

// NewPostStore returns a blog.Store over collection, or DefaultCollection
// when empty.
func NewPostStore(c *Client, collection string) *PostStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &PostStore{client: c, collection: collection}
}

func (s *PostStore) ListPosts(ctx context.Context) ([]blog.Post, error) {
	docs, err := s.client.ListDocuments(ctx, s.collection)
	if err != nil {
		return nil, err
	}
	posts := make([]blog.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, blog.FromFields(d.ID, d.Fields))
	}
	return posts, nil
}

func (s *PostStore) GetPost(ctx context.Context, slug string) (blog.Post, error) {
	doc, err := s.client.GetDocument(ctx, s.collection, slug)
	if errors.Is(err, ErrNotFound) {
		return blog.Post{}, blog.ErrNotFound
	}
	if err != nil {
		return blog.Post{}, err
	}
	return blog.FromFields(doc.ID, doc.Fields), nil
}
