// Package gitstore serves blog posts stored as front-matter markdown files in
// a git repository. Posts are read from the tree of the HEAD commit, so only
// committed content is published.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/blog"
)

// Options selects the repository. URL wins over Dir when both are set.
type Options struct {
	URL    string // remote repository, cloned into memory
	Dir    string // local working copy; parent directories are searched for .git
	Subdir string // directory inside the repository holding the posts
}

// Store implements blog.Store over a git repository.
type Store struct {
	repo   *git.Repository
	subdir string
	logger *zap.Logger
}

// Open clones or opens the repository described by opts.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Store, error) {
	var (
		repo *git.Repository
		err  error
	)
	switch {
	case opts.URL != "":
		repo, err = git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
			URL:          opts.URL,
			Depth:        1,
			SingleBranch: true,
		})
		if err != nil {
			return nil, fmt.Errorf("clone %s: %w", opts.URL, err)
		}
	case opts.Dir != "":
		repo, err = git.PlainOpenWithOptions(opts.Dir, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return nil, fmt.Errorf("open repo %s: %w", opts.Dir, err)
		}
	default:
		return nil, errors.New("gitstore: no repository URL or directory")
	}
	return New(repo, opts.Subdir, logger), nil
}

// New wraps an already opened repository.
func New(repo *git.Repository, subdir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, subdir: strings.Trim(path.Clean("/"+subdir), "/"), logger: logger}
}

// ListPosts returns the posts of the HEAD tree ordered by file name, which is
// the order git keeps tree entries in.
func (s *Store) ListPosts(ctx context.Context) ([]blog.Post, error) {
	tree, err := s.headTree()
	if err != nil {
		return nil, err
	}

	posts := []blog.Post{}
	seen := map[string]bool{}
	for _, entry := range tree.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Mode.IsFile() || !strings.EqualFold(path.Ext(entry.Name), ".md") {
			continue
		}
		p, err := s.readPost(tree, entry.Name)
		if err != nil {
			s.logger.Warn("skipping unreadable post", zap.String("file", entry.Name), zap.Error(err))
			continue
		}
		if seen[p.Slug] {
			s.logger.Warn("duplicate slug", zap.String("slug", p.Slug), zap.String("file", entry.Name))
			continue
		}
		seen[p.Slug] = true
		posts = append(posts, p)
	}
	return posts, nil
}

// GetPost resolves slug against the current HEAD. The file named after the
// slug is tried first; otherwise a front matter slug override may match.
func (s *Store) GetPost(ctx context.Context, slug string) (blog.Post, error) {
	tree, err := s.headTree()
	if err != nil {
		return blog.Post{}, err
	}
	if p, err := s.readPost(tree, slug+".md"); err == nil && p.Slug == slug {
		return p, nil
	}

	posts, err := s.ListPosts(ctx)
	if err != nil {
		return blog.Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return blog.Post{}, blog.ErrNotFound
}

func (s *Store) headTree() (*object.Tree, error) {
	head, err := s.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", head.Hash(), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	if s.subdir == "" {
		return tree, nil
	}
	sub, err := tree.Tree(s.subdir)
	if errors.Is(err, object.ErrDirectoryNotFound) {
		return &object.Tree{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.subdir, err)
	}
	return sub, nil
}

func (s *Store) readPost(tree *object.Tree, name string) (blog.Post, error) {
	f, err := tree.File(name)
	if err != nil {
		return blog.Post{}, err
	}
	r, err := f.Reader()
	if err != nil {
		return blog.Post{}, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return blog.Post{}, err
	}
	return blog.ParseMarkdown(name, data)
}
