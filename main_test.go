package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/app"
	"github.com/dotoki2k/terminal-blog/config"
	"github.com/dotoki2k/terminal-blog/localstore"
	"github.com/dotoki2k/terminal-blog/terminal"
)

func TestAboutFromConfig(t *testing.T) {
	about := aboutFromConfig(config.Config{AboutName: "Notes", GitHubURL: "https://github.com/someone"})
	assert.Equal(t, "Notes", about.BlogName)
	assert.Equal(t, "https://github.com/someone", about.GitHubURL)
	assert.Equal(t, terminal.DefaultAbout.Bio, about.Bio)
	assert.Equal(t, terminal.DefaultAbout.GitHub, about.GitHub)
}

func TestOpenBackend(t *testing.T) {
	logger = zap.NewNop()
	t.Cleanup(func() { cfg = config.Config{} })

	cfg = config.Config{Store: config.StoreFirestore}
	b, err := openBackend(context.Background())
	require.NoError(t, err)
	assert.Nil(t, b.store, "no project id means no store")
	assert.Nil(t, b.signIn)

	cfg = config.Config{Store: config.StoreFirestore, ProjectID: "demo", Collection: "posts"}
	b, err = openBackend(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, b.store)
	assert.NotNil(t, b.signIn)

	cfg = config.Config{Store: config.StoreSQLite, DBPath: ":memory:"}
	b, err = openBackend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", b.name)
	require.NoError(t, b.Close())

	cfg = config.Config{Store: "mongo"}
	_, err = openBackend(context.Background())
	assert.ErrorContains(t, err, `unknown store "mongo"`)
}

func TestSlugFromFile(t *testing.T) {
	assert.Equal(t, "hello-world", slugFromFile("/posts/hello-world.md"))
	assert.Equal(t, "Notes", slugFromFile("Notes.MD"))
}

func TestImportThenExec(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"BLOGTERM_STORE", "BLOGTERM_DB", "BLOGTERM_PROJECT_ID"} {
		t.Setenv(k, "")
	}

	posts := filepath.Join(home, "posts")
	require.NoError(t, os.MkdirAll(posts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(posts, "hello-world.md"),
		[]byte("---\ntitle: Hello World\nauthor: dotoki\ntags: [go]\n---\nBody text.\n"), 0o644))
	db := filepath.Join(home, "posts.db")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	rootCmd.SetArgs([]string{"import", posts, "--db", db})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Imported 1 post(s)")

	out.Reset()
	rootCmd.SetArgs([]string{"exec", "--store", "sqlite", "--db", db, "--no-open", "ls"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "hello-world")
	assert.Contains(t, out.String(), "Hello World")
	assert.NotContains(t, out.String(), "$ ls", "exec output omits the echo line")

	out.Reset()
	rootCmd.SetArgs([]string{"exec", "--store", "sqlite", "--db", db, "--no-open", "open", "github"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Opening GitHub profile...")
	assert.Contains(t, out.String(), "https://github.com/dotoki2k")

	assert.FileExists(t, filepath.Join(home, ".blogterm", "logs", "blogterm.log"))
}

func TestShellAndExecReportSignInFailure(t *testing.T) {
	signUpError := "CONFIGURATION_NOT_FOUND"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/v1/accounts:signUp") {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":{"code":400,"message":%q,"status":"INVALID_ARGUMENT"}}`, signUpError)
			return
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("BLOGTERM_PROJECT_ID", "demo")
	t.Setenv("BLOGTERM_AUTH_URL", srv.URL)
	t.Setenv("BLOGTERM_FIRESTORE_URL", srv.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	rootCmd.SetIn(strings.NewReader("ls\n"))
	rootCmd.SetArgs([]string{"shell", "--store", "firestore"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), app.MsgSignInFailed)
	assert.Contains(t, out.String(), "No posts found.")

	out.Reset()
	rootCmd.SetArgs([]string{"exec", "--store", "firestore", "ls"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), app.MsgSignInFailed)

	signUpError = "ADMIN_ONLY_OPERATION"
	out.Reset()
	rootCmd.SetArgs([]string{"exec", "--store", "firestore", "ls"})
	require.NoError(t, rootCmd.Execute())
	assert.NotContains(t, out.String(), app.MsgSignInFailed)
	assert.Contains(t, out.String(), "No posts found.")
}

func TestThemeFor(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }

	assert.Equal(t, "dark", themeFor("", dark))
	assert.Equal(t, "light", themeFor("", light))
	assert.Equal(t, "catppuccin", themeFor("catppuccin", light))
	assert.Equal(t, "light", themeFor(config.Load(t.TempDir()).Theme, light),
		"a fresh profile follows the terminal background")
}

func TestConfigSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "--profile", "dev", "--store", "git", "--git-url", "https://example.com/blog.git", "--save"})
	require.NoError(t, rootCmd.Execute())

	dir := filepath.Join(home, ".blogterm", "profiles", "dev")
	assert.Contains(t, out.String(), "Saved "+config.Path(dir))
	saved := config.Load(dir)
	assert.Equal(t, config.StoreGit, saved.Store)
	assert.Equal(t, "https://example.com/blog.git", saved.GitURL)
}

func TestWatchFollowsFrontMatterSlugs(t *testing.T) {
	logger = zap.NewNop()
	ctx := context.Background()
	dir := t.TempDir()
	draft := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(draft, []byte("---\nslug: hello-world\n---\nbody\n"), 0o644))

	s, err := localstore.Open(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	imported, err := s.ImportDir(ctx, dir)
	require.NoError(t, err)

	var out bytes.Buffer
	files := newFileSlugs(imported)

	// Editing the front matter moves the post to its new slug.
	require.NoError(t, os.WriteFile(draft, []byte("---\nslug: greeting\n---\nbody\n"), 0o644))
	files.apply(ctx, s, fsnotify.Event{Name: draft, Op: fsnotify.Write}, &out)
	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "greeting", posts[0].Slug)

	files.apply(ctx, s, fsnotify.Event{Name: draft, Op: fsnotify.Remove}, &out)
	posts, err = s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Contains(t, out.String(), "removed greeting")
}

func TestWatchRemovesImportedSlug(t *testing.T) {
	logger = zap.NewNop()
	ctx := context.Background()
	dir := t.TempDir()
	draft := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(draft, []byte("---\nslug: hello-world\n---\nbody\n"), 0o644))

	s, err := localstore.Open(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	imported, err := s.ImportDir(ctx, dir)
	require.NoError(t, err)

	var out bytes.Buffer
	newFileSlugs(imported).apply(ctx, s, fsnotify.Event{Name: draft, Op: fsnotify.Remove}, &out)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Contains(t, out.String(), "removed hello-world")
}
