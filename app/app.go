// Package app is the root Bubble Tea model of the blog terminal. It owns the
// interpreter, runs one command at a time off the UI goroutine and queues
// anything submitted meanwhile.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/client"
	"github.com/dotoki2k/terminal-blog/model"
	"github.com/dotoki2k/terminal-blog/msg"
	"github.com/dotoki2k/terminal-blog/terminal"
)

// MsgSignInFailed is appended to the log when the startup sign-in fails for
// any reason other than anonymous sign-in being admin-only.
const MsgSignInFailed = "Error: unable to connect to the server. Please check the configuration."

// SignInFunc performs the startup sign-in and returns the user id.
type SignInFunc func(ctx context.Context) (string, error)

// Options configures New. Zero values are usable: no sign-in, the platform
// browser opener and a no-op logger.
type Options struct {
	Title     string
	StoreName string
	SignIn    SignInFunc
	Opener    Opener
	Logger    *zap.Logger
	Context   context.Context
}

// job is one unit of queued work: an input line or a log notice.
type job struct {
	label string
	run   func(ctx context.Context) terminal.Result
}

type Model struct {
	header   model.HeaderModel
	console  model.ConsoleModel
	input    model.InputModel
	activity model.ActivityModel
	status   model.StatusModel
	palette  model.PaletteModel
	picker   model.PickerModel
	search   model.SearchModel
	notices  model.NoticesModel

	interp *terminal.Interpreter
	signIn SignInFunc
	opener Opener
	logger *zap.Logger
	ctx    context.Context

	state       State
	queue       []job
	seq         int
	ticking     bool
	confirmQuit bool
	keys        KeyMap

	width    int
	height   int
	consoleH int
}

// New builds the root model around in.
func New(in *terminal.Interpreter, opts Options) Model {
	if opts.Opener == nil {
		opts.Opener = BrowserOpener{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Title == "" {
		opts.Title = "My Awesome Blog"
	}

	header := model.NewHeader(opts.Title)
	header.SetStore(opts.StoreName)

	input := model.NewInput()
	commands := make([]string, 0, len(terminal.Commands()))
	for _, c := range terminal.Commands() {
		commands = append(commands, strings.Fields(c.Usage)[0])
	}
	input.SetCommands(commands)
	input.Focus()

	m := Model{
		header:   header,
		console:  model.NewConsole(80, 20),
		input:    input,
		activity: model.NewActivity(),
		status:   model.NewStatus(),
		palette:  model.NewPalette(),
		picker:   model.NewPicker(),
		search:   model.NewSearch(),
		notices:  model.NewNotices(),
		interp:   in,
		signIn:   opts.SignIn,
		opener:   opts.Opener,
		logger:   opts.Logger,
		ctx:      opts.Context,
		state:    StateIdle,
		keys:     DefaultKeyMap(),
		width:    80,
		height:   24,
	}
	snap := in.Snapshot()
	m.console.Show(snap.Entries)
	m.input.SetPrompt(snap.Prompt)
	m.status.SetUser(snap.User)
	m.relayout()
	return m
}

// State reports whether a command is in flight.
func (m Model) State() State { return m.state }

// Pending returns the number of queued jobs behind the running one.
func (m Model) Pending() int { return len(m.queue) }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.signInCmd(), tea.WindowSize())
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(rawMsg)
	next.relayout()
	return next, cmd
}

func (m Model) update(rawMsg tea.Msg) (Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.header.SetWidth(v.Width)
		m.input.SetWidth(v.Width)
		m.picker.SetWidth(v.Width)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(v)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.console, cmd = m.console.Update(v)
		return m, cmd

	case msg.SignInResult:
		return m.handleSignIn(v)
	case msg.SubmitInput:
		return m.enqueue(m.lineJob(v.Text))
	case msg.CommandDone:
		return m.handleDone(v)
	case msg.OpenURLResult:
		if v.Err != nil {
			m.logger.Warn("open url failed", zap.String("url", v.URL), zap.Error(v.Err))
			m.notices.Push("Could not open "+v.URL, model.NoticeFailed)
		} else {
			m.notices.Push("Opened "+v.URL, model.NoticeOK)
		}
		cmd := m.ensureTick()
		return m, cmd
	case msg.TickMsg:
		m.ticking = false
		m.notices.Expire()
		cmd := m.ensureTick()
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(v)
		return m, cmd

	case msg.OpenPalette:
		m.input.Blur()
		cmd := m.palette.Open(model.PaletteItems(terminal.Commands()), m.width, m.height)
		return m, cmd
	case msg.OpenPicker:
		m.input.Blur()
		m.picker.SetItems(m.pickerItems())
		return m, nil
	case msg.OpenSearch:
		m.input.Blur()
		cmd := m.search.Open(m.width)
		return m, cmd

	case model.PaletteExecuteMsg:
		return m.submitFromOverlay(v.Command)
	case model.PaletteFillMsg:
		m.input.SetValue(v.Prefix)
		cmd := m.input.Focus()
		return m, cmd
	case model.PickerChoice:
		return m.submitFromOverlay(v.Command())
	case model.SearchSubmitMsg:
		return m.submitFromOverlay(v.Command())
	case model.PaletteDismissMsg, model.PickerCancel, model.SearchCancelMsg:
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.palette.IsActive() {
		return m.palette.View()
	}

	sections := []string{m.header.View(), m.console.View()}
	if m.picker.IsActive() {
		sections = append(sections, m.picker.View())
	}
	if m.search.IsActive() {
		sections = append(sections, m.search.View())
	}
	if m.notices.Len() > 0 {
		sections = append(sections, m.notices.View(m.width))
	}
	sections = append(sections, m.footer(), m.input.View())
	if m.confirmQuit {
		sections = append(sections, "  Press Ctrl+C again to quit, or any key to cancel.")
	}
	return strings.Join(sections, "\n")
}

func (m Model) footer() string {
	if m.state == StateProcessing {
		return m.activity.View() + m.status.View()
	}
	return m.status.View()
}

func (m Model) handleKey(k tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case m.palette.IsActive():
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(k)
		return m, cmd
	case m.picker.IsActive():
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(k)
		return m, cmd
	case m.search.IsActive():
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(k)
		return m, cmd
	}

	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			return m, tea.Quit
		}
	case key.Matches(k, m.keys.Escape):
		m.input.Reset()
		return m, nil
	case key.Matches(k, m.keys.Submit):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.input.Submit(text)
		return m.enqueue(m.lineJob(text))
	case key.Matches(k, m.keys.Clear):
		return m.enqueue(m.lineJob("clear"))
	case key.Matches(k, m.keys.Palette):
		return m, func() tea.Msg { return msg.OpenPalette{} }
	case key.Matches(k, m.keys.Posts):
		return m, func() tea.Msg { return msg.OpenPicker{} }
	case key.Matches(k, m.keys.Search):
		return m, func() tea.Msg { return msg.OpenSearch{} }
	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		var cmd tea.Cmd
		m.console, cmd = m.console.Update(k)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(k)
	return m, cmd
}

// submitFromOverlay queues line and hands focus back to the input.
func (m Model) submitFromOverlay(line string) (Model, tea.Cmd) {
	focus := m.input.Focus()
	next, cmd := m.enqueue(m.lineJob(line))
	return next, tea.Batch(focus, cmd)
}

// -- queue --

func (m Model) lineJob(line string) job {
	in := m.interp
	return job{
		label: strings.TrimSpace(line),
		run: func(ctx context.Context) terminal.Result {
			return in.Execute(ctx, line)
		},
	}
}

func (m Model) noticeJob(text string, isError bool) job {
	in := m.interp
	return job{
		label: "notice",
		run: func(context.Context) terminal.Result {
			return in.Notify(text, isError)
		},
	}
}

// enqueue adds j behind any running job and starts it if nothing is running.
func (m Model) enqueue(j job) (Model, tea.Cmd) {
	m.queue = append(m.queue, j)
	m.status.SetPending(len(m.queue))
	if m.state == StateProcessing {
		return m, nil
	}
	return m.dispatchNext()
}

// dispatchNext starts the oldest queued job.
func (m Model) dispatchNext() (Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.state = StateIdle
		m.status.SetActive(false)
		m.status.SetPending(0)
		return m, nil
	}
	j := m.queue[0]
	m.queue = m.queue[1:]
	m.seq++
	m.state = StateProcessing
	m.status.SetActive(true)
	m.status.SetPending(len(m.queue))

	seq, ctx := m.seq, m.ctx
	run := func() tea.Msg {
		return msg.CommandDone{Seq: seq, Result: j.run(ctx)}
	}
	spin := m.activity.Start(j.label)
	return m, tea.Batch(run, spin)
}

func (m Model) handleDone(d msg.CommandDone) (Model, tea.Cmd) {
	if d.Seq != m.seq || m.state != StateProcessing {
		m.logger.Debug("stale command result", zap.Int("seq", d.Seq), zap.Int("current", m.seq))
		return m, nil
	}
	elapsed := m.activity.Stop()
	r := d.Result
	m.showResult(r)
	if r.Command.Name != "" {
		m.status.SetLast(r.Command.Name, elapsed)
	}

	var cmds []tea.Cmd
	for _, intent := range r.Intents {
		if intent.Kind == terminal.IntentOpenURL {
			cmds = append(cmds, m.openURL(intent.URL))
		}
	}

	m.state = StateIdle
	next, cmd := m.dispatchNext()
	return next, tea.Batch(append(cmds, cmd)...)
}

// showResult pushes a result into every component that mirrors interpreter
// state.
func (m *Model) showResult(r terminal.Result) {
	m.console.SetResult(r)
	if r.Prompt != "" {
		m.input.SetPrompt(r.Prompt)
	}
	if r.User != "" {
		m.status.SetUser(r.User)
	}
	posts, ok := m.interp.CachedPosts()
	m.status.SetCache(len(posts), ok)
	slugs := make([]string, 0, len(posts))
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	m.input.SetSlugs(slugs)
}

func (m Model) pickerItems() []model.PickerItem {
	if posts, ok := m.interp.CachedPosts(); ok {
		return model.PickerItems(posts)
	}
	return model.SlugItems(m.console.Commands())
}

// -- side effects --

func (m Model) handleSignIn(r msg.SignInResult) (Model, tea.Cmd) {
	switch {
	case r.Err == nil:
		m.logger.Info("signed in anonymously", zap.String("user_id", r.UserID))
		return m, nil
	case r.Restricted:
		m.logger.Debug("anonymous sign-in is admin-only; continuing without a token")
		return m, nil
	default:
		m.logger.Warn("sign-in failed", zap.Error(r.Err))
		return m.enqueue(m.noticeJob(MsgSignInFailed, true))
	}
}

func (m Model) signInCmd() tea.Cmd {
	if m.signIn == nil {
		return nil
	}
	signIn, ctx := m.signIn, m.ctx
	return func() tea.Msg {
		id, err := signIn(ctx)
		return msg.SignInResult{
			UserID:     id,
			Restricted: errors.Is(err, client.ErrAdminRestricted),
			Err:        err,
		}
	}
}

func (m Model) openURL(url string) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		return msg.OpenURLResult{URL: url, Err: opener.Open(url)}
	}
}

func (m *Model) ensureTick() tea.Cmd {
	if m.ticking || m.notices.Len() == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}

// -- layout --

// relayout resizes the console to the space the other sections leave.
func (m *Model) relayout() {
	reserved := countLines(m.header.View()) + 2 // footer + input
	if m.picker.IsActive() {
		reserved += countLines(m.picker.View())
	}
	if m.search.IsActive() {
		reserved += countLines(m.search.View())
	}
	if m.notices.Len() > 0 {
		reserved += countLines(m.notices.View(m.width))
	}
	if m.confirmQuit {
		reserved++
	}
	h := m.height - reserved
	if h < 3 {
		h = 3
	}
	if h == m.consoleH && m.width == m.console.Width() {
		return
	}
	m.consoleH = h
	m.console.SetSize(m.width, h)
}

// countLines returns the number of lines in a rendered string.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// String summarizes the model for debug logging.
func (m Model) String() string {
	return fmt.Sprintf("app{state=%s seq=%d pending=%d}", m.state, m.seq, len(m.queue))
}
