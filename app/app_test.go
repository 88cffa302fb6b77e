package app

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotoki2k/terminal-blog/blog"
	"github.com/dotoki2k/terminal-blog/client"
	"github.com/dotoki2k/terminal-blog/model"
	"github.com/dotoki2k/terminal-blog/msg"
	"github.com/dotoki2k/terminal-blog/terminal"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type sliceStore []blog.Post

func (s sliceStore) ListPosts(context.Context) ([]blog.Post, error) { return s, nil }

func (s sliceStore) GetPost(_ context.Context, slug string) (blog.Post, error) {
	for _, p := range s {
		if p.Slug == slug {
			return p, nil
		}
	}
	return blog.Post{}, blog.ErrNotFound
}

var posts = sliceStore{
	{Slug: "first", Title: "First", Author: "a", Date: "2024-01-01", Body: "one"},
	{Slug: "second", Title: "Second", Author: "b", Date: "2024-01-02", Body: "two"},
}

type recordingOpener struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (o *recordingOpener) Open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return o.err
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	in := terminal.New(posts, terminal.WithClock(func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	}))
	if opts.Opener == nil {
		opts.Opener = &recordingOpener{}
	}
	m := New(in, opts)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func step(t *testing.T, m Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(message)
	nm, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return nm, cmd
}

// drain runs cmd and any batched commands, returning the produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	m := cmd()
	if batch, ok := m.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{m}
}

func doneOf(t *testing.T, cmd tea.Cmd) msg.CommandDone {
	t.Helper()
	for _, m := range drain(cmd) {
		if d, ok := m.(msg.CommandDone); ok {
			return d
		}
	}
	t.Fatal("no CommandDone produced")
	return msg.CommandDone{}
}

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func screen(m Model) string { return ansi.Strip(m.View()) }

func TestNew_ShowsBanner(t *testing.T) {
	m := newModel(t, Options{Title: "Test Blog"})
	out := screen(m)
	assert.Contains(t, out, "Test Blog")
	assert.Contains(t, out, "Last login: Sat, 09 Mar 2024 14:05:00 GMT")
	assert.Contains(t, out, "guest@blog:~$")
	assert.Equal(t, StateIdle, m.State())
}

func TestSubmit_RunsCommandAndShowsResult(t *testing.T) {
	m := newModel(t, Options{})
	m, cmd := typeLine(t, m, "ls")
	assert.Equal(t, StateProcessing, m.State())

	m, _ = step(t, m, doneOf(t, cmd))
	assert.Equal(t, StateIdle, m.State())
	out := screen(m)
	assert.Contains(t, out, "guest@blog:~$ ls")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "2 post(s) cached")
}

func TestQueue_DispatchesInOrder(t *testing.T) {
	m := newModel(t, Options{})
	m, first := typeLine(t, m, "login alice")
	m, queued := step(t, m, msg.SubmitInput{Text: "about"})
	assert.Nil(t, queued, "second line must wait for the first")
	m, _ = step(t, m, msg.SubmitInput{Text: "logout"})
	assert.Equal(t, 2, m.Pending())

	d1 := doneOf(t, first)
	assert.Equal(t, "login", d1.Result.Command.Name)
	m, second := step(t, m, d1)
	assert.Equal(t, StateProcessing, m.State())
	assert.Equal(t, 1, m.Pending())
	assert.Contains(t, screen(m), "alice@blog:~$")

	d2 := doneOf(t, second)
	assert.Equal(t, "about", d2.Result.Command.Name)
	m, third := step(t, m, d2)

	d3 := doneOf(t, third)
	assert.Equal(t, "logout", d3.Result.Command.Name)
	m, _ = step(t, m, d3)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.Pending())
	assert.Contains(t, screen(m), "Goodbye, alice!")
}

func TestStaleResultIgnored(t *testing.T) {
	m := newModel(t, Options{})
	m, cmd := typeLine(t, m, "help")
	d := doneOf(t, cmd)
	d.Seq = 99
	m, _ = step(t, m, d)
	assert.Equal(t, StateProcessing, m.State())
}

func TestBlankSubmitDoesNothing(t *testing.T) {
	m := newModel(t, Options{})
	m, cmd := typeLine(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Equal(t, StateIdle, m.State())
}

func TestSignIn_FailureAppendsNotice(t *testing.T) {
	m := newModel(t, Options{
		SignIn: func(context.Context) (string, error) { return "", errors.New("dial tcp: refused") },
	})
	res := drain(m.signInCmd())
	require.Len(t, res, 1)

	m, cmd := step(t, m, res[0])
	require.NotNil(t, cmd)
	m, _ = step(t, m, doneOf(t, cmd))
	out := screen(m)
	assert.Contains(t, out, MsgSignInFailed)
	assert.Contains(t, out, "Welcome to", "notice is appended below the banner")
}

func TestSignIn_AdminRestrictedIsBenign(t *testing.T) {
	restricted := &client.APIError{StatusCode: 400, Message: "ADMIN_ONLY_OPERATION"}
	m := newModel(t, Options{
		SignIn: func(context.Context) (string, error) { return "", restricted },
	})
	res := drain(m.signInCmd())
	require.Len(t, res, 1)
	sr, ok := res[0].(msg.SignInResult)
	require.True(t, ok)
	assert.True(t, sr.Restricted)

	m, cmd := step(t, m, sr)
	assert.Nil(t, cmd)
	assert.NotContains(t, screen(m), MsgSignInFailed)
}

func TestNoSignInConfigured(t *testing.T) {
	m := newModel(t, Options{})
	assert.Nil(t, m.signInCmd())
}

func TestOpenGithub_UsesOpener(t *testing.T) {
	opener := &recordingOpener{}
	m := newModel(t, Options{Opener: opener})
	m, cmd := typeLine(t, m, "open github")
	m, after := step(t, m, doneOf(t, cmd))

	var opened *msg.OpenURLResult
	for _, r := range drain(after) {
		if o, ok := r.(msg.OpenURLResult); ok {
			opened = &o
		}
	}
	require.NotNil(t, opened)
	assert.Equal(t, "https://github.com/dotoki2k", opened.URL)
	assert.Equal(t, []string{"https://github.com/dotoki2k"}, opener.urls)

	m, _ = step(t, m, *opened)
	assert.Contains(t, screen(m), "Opened https://github.com/dotoki2k")
}

func TestOpenFailureShowsNotice(t *testing.T) {
	m := newModel(t, Options{})
	m, _ = step(t, m, msg.OpenURLResult{URL: "https://x.test", Err: errors.New("no browser")})
	assert.Contains(t, screen(m), "Could not open https://x.test")
}

func TestPicker_SubmitsCat(t *testing.T) {
	m := newModel(t, Options{})
	m, cmd := typeLine(t, m, "ls")
	m, _ = step(t, m, doneOf(t, cmd))

	m, open := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	res := drain(open)
	require.Len(t, res, 1)
	m, _ = step(t, m, res[0])
	assert.Contains(t, screen(m), "◈ Posts")

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, choose := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	res = drain(choose)
	require.Len(t, res, 1)
	assert.Equal(t, model.PickerChoice{Slug: "second"}, res[0])

	m, run := step(t, m, res[0])
	d := doneOf(t, run)
	assert.Equal(t, "cat second", d.Result.Command.Raw)
	m, _ = step(t, m, d)
	assert.Contains(t, screen(m), "Second")
}

func TestPalette_FillsInput(t *testing.T) {
	m := newModel(t, Options{})
	m, open := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	res := drain(open)
	require.Len(t, res, 1)
	m, _ = step(t, m, res[0])
	assert.Contains(t, screen(m), "Commands")

	m, _ = step(t, m, model.PaletteFillMsg{Prefix: "cat "})
	assert.Equal(t, "cat ", m.input.Value())
}

func TestSearchPrompt_SubmitsSearch(t *testing.T) {
	m := newModel(t, Options{})
	m, run := step(t, m, model.SearchSubmitMsg{Keyword: "first"})
	d := doneOf(t, run)
	assert.Equal(t, "search", d.Result.Command.Name)
	m, _ = step(t, m, d)
	assert.Contains(t, screen(m), "Found 1 post(s) for 'first':")
}

func TestCtrlC_ConfirmsBeforeQuit(t *testing.T) {
	m := newModel(t, Options{})
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.Contains(t, screen(m), "Press Ctrl+C again to quit")

	_, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlL_Clears(t *testing.T) {
	m := newModel(t, Options{})
	m, cmd := typeLine(t, m, "help")
	m, _ = step(t, m, doneOf(t, cmd))
	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	d := doneOf(t, cmd)
	assert.True(t, d.Result.Reset)
	m, _ = step(t, m, d)
	out := screen(m)
	assert.Contains(t, out, "Welcome to")
	assert.False(t, strings.Contains(out, "Available commands:"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "processing", StateProcessing.String())
	assert.Equal(t, "unknown", State(42).String())
}
