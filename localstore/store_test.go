package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoki2k/terminal-blog/blog"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEmptyStore(t *testing.T) {
	s := openMemory(t)

	posts, err := s.ListPosts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	_, err = s.GetPost(context.Background(), "nope")
	assert.ErrorIs(t, err, blog.ErrNotFound)
}

func TestUpsertKeepsInsertionOrder(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, blog.Post{Slug: "zeta", Title: "Z", Tags: []string{"a", "b"}, Views: 3}))
	require.NoError(t, s.Upsert(ctx, blog.Post{Slug: "alpha", Title: "A"}))
	require.NoError(t, s.Upsert(ctx, blog.Post{Slug: "zeta", Title: "Z2"}))

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "zeta", posts[0].Slug)
	assert.Equal(t, "Z2", posts[0].Title)
	assert.Equal(t, "alpha", posts[1].Slug)

	got, err := s.GetPost(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, blog.Post{Slug: "alpha", Title: "A", Author: "N/A", Date: "N/A", Tags: []string{}}, got)
}

func TestGetPostIsCaseSensitive(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, blog.Post{Slug: "Hello"}))

	_, err := s.GetPost(ctx, "hello")
	assert.ErrorIs(t, err, blog.ErrNotFound)
}

func TestUpsertRejectsEmptySlug(t *testing.T) {
	s := openMemory(t)
	assert.Error(t, s.Upsert(context.Background(), blog.Post{Title: "x"}))
}

func TestDelete(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, blog.Post{Slug: "a"}))
	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))

	_, err := s.GetPost(ctx, "a")
	assert.ErrorIs(t, err, blog.ErrNotFound)
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("b-second.md", "---\ntitle: Second\nauthor: Jo\nviews: 5\ntags: [go, cli]\n---\n\n# Two\n")
	write("a-first.MD", "# Just a body\n")
	write("broken.md", "---\ntitle: [unclosed\n---\nbody\n")
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	s := openMemory(t)
	imported, err := s.ImportDir(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
	assert.Equal(t, []Imported{
		{File: filepath.Join(dir, "a-first.MD"), Slug: "a-first"},
		{File: filepath.Join(dir, "b-second.md"), Slug: "b-second"},
	}, imported)

	second, err := s.GetPost(context.Background(), "b-second")
	require.NoError(t, err)
	assert.Equal(t, "Second", second.Title)
	assert.Equal(t, "Jo", second.Author)
	assert.Equal(t, 5, second.Views)
	assert.Equal(t, []string{"go", "cli"}, second.Tags)
	assert.Equal(t, "# Two\n", second.Body)

	first, err := s.GetPost(context.Background(), "a-first")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", first.Title)
}

func TestImportDirReportsSlugOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.md"), []byte("---\nslug: hello-world\n---\nbody\n"), 0o644))

	s := openMemory(t)
	imported, err := s.ImportDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []Imported{{File: filepath.Join(dir, "draft.md"), Slug: "hello-world"}}, imported)
}

func TestOpenFileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "posts.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(context.Background(), blog.Post{Slug: "kept"}))
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	_, err = s.GetPost(context.Background(), "kept")
	assert.NoError(t, err)
}
