// Package localstore keeps blog posts in a local SQLite database. It serves
// the same reads as the remote document store and is filled by importing
// front-matter markdown files.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dotoki2k/terminal-blog/blog"
)

// Store implements blog.Store over SQLite. Posts are listed in the order
// they were first inserted; re-importing a slug updates it in place.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	logger *zap.Logger
}

// Open creates or opens the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		date TEXT NOT NULL,
		views INTEGER NOT NULL DEFAULT 0,
		tags_json TEXT NOT NULL DEFAULT '[]',
		body TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if path := s.dbPath; path != ":memory:" {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			s.logger.Debug("WAL not enabled", zap.String("path", path), zap.Error(err))
		}
	}
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) ListPosts(ctx context.Context) ([]blog.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, title, author, date, views, tags_json, body FROM posts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, slug string) (blog.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT slug, title, author, date, views, tags_json, body FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return blog.Post{}, blog.ErrNotFound
	}
	if err != nil {
		return blog.Post{}, err
	}
	return p, nil
}

// Upsert inserts p or replaces the stored post with the same slug.
func (s *Store) Upsert(ctx context.Context, p blog.Post) error {
	if p.Slug == "" {
		return errors.New("upsert: empty slug")
	}
	p = p.WithDefaults()
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (slug, title, author, date, views, tags_json, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			date = excluded.date,
			views = excluded.views,
			tags_json = excluded.tags_json,
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP`,
		p.Slug, p.Title, p.Author, p.Date, p.Views, string(tags), p.Body)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", p.Slug, err)
	}
	return nil
}

// Delete removes the post with slug. Deleting a missing slug is not an error.
func (s *Store) Delete(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("delete %s: %w", slug, err)
	}
	return nil
}

// Imported pairs a markdown file with the slug it was stored under. The slug
// differs from the file name when front matter overrides it.
type Imported struct {
	File string
	Slug string
}

// ImportDir upserts every *.md file directly under dir, in file name order,
// and returns what it stored. A file that fails to parse is skipped and
// reported in the returned error; the others are still imported.
func (s *Store) ImportDir(ctx context.Context, dir string) ([]Imported, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var matches []string
	for _, e := range entries {
		if !e.IsDir() && IsMarkdown(e.Name()) {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(matches)

	var imported []Imported
	var errs []error
	for _, path := range matches {
		slug, err := s.ImportFile(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		imported = append(imported, Imported{File: path, Slug: slug})
	}
	return imported, errors.Join(errs...)
}

// ImportFile upserts one markdown file and returns its slug.
func (s *Store) ImportFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	p, err := blog.ParseMarkdown(filepath.Base(path), data)
	if err != nil {
		return "", err
	}
	if err := s.Upsert(ctx, p); err != nil {
		return "", err
	}
	s.logger.Debug("imported post", zap.String("slug", p.Slug), zap.String("file", path))
	return p.Slug, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (blog.Post, error) {
	var (
		p    blog.Post
		tags string
	)
	if err := row.Scan(&p.Slug, &p.Title, &p.Author, &p.Date, &p.Views, &tags, &p.Body); err != nil {
		return blog.Post{}, err
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil || p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

// IsMarkdown reports whether path names a file ImportDir would pick up.
func IsMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}
