package terminal

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dotoki2k/terminal-blog/blog"
)

// FetchFunc loads every post from the content store.
type FetchFunc func(ctx context.Context) ([]blog.Post, error)

// Cache is the memoized snapshot of all posts. It is populated on demand and
// emptied only by Invalidate.
type Cache struct {
	mu      sync.Mutex
	posts   []blog.Post
	fetched bool
	group   singleflight.Group
}

// Fetched reports whether the cache holds a snapshot.
func (c *Cache) Fetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// Invalidate discards the snapshot so the next Posts call fetches again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.fetched = false
	c.mu.Unlock()
}

// Snapshot returns the cached posts without fetching. ok is false when the
// cache is empty.
func (c *Cache) Snapshot() (posts []blog.Post, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fetched {
		return nil, false
	}
	return clonePosts(c.posts), true
}

// Posts returns the snapshot, fetching it first when absent. fetchedNow is
// true when this call performed (or shared) the fetch. On error the cache
// stays unpopulated and an empty slice is returned.
func (c *Cache) Posts(ctx context.Context, fetch FetchFunc) (posts []blog.Post, fetchedNow bool, err error) {
	if posts, ok := c.Snapshot(); ok {
		return posts, false, nil
	}

	v, err, _ := c.group.Do("posts", func() (any, error) {
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			fetched = []blog.Post{}
		}
		c.mu.Lock()
		c.posts = fetched
		c.fetched = true
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return []blog.Post{}, false, err
	}
	return clonePosts(v.([]blog.Post)), true, nil
}

func clonePosts(posts []blog.Post) []blog.Post {
	out := make([]blog.Post, len(posts))
	copy(out, posts)
	return out
}
