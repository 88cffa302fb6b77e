// Package terminal implements the blog's command interpreter: it parses a
// typed line, runs the command against the session, the post cache and the
// content store, and renders the outcome into an HTML output log.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"html/template"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/blog"
	"github.com/dotoki2k/terminal-blog/markdown"
)

// IntentKind identifies a side effect the front-end must perform.
type IntentKind int

const (
	IntentOpenURL IntentKind = iota
)

// Intent asks the front-end to act outside the console.
type Intent struct {
	Kind IntentKind
	URL  string
}

// Result is the outcome of one input line.
type Result struct {
	Command     Command
	Entries     []Entry
	Prompt      string
	User        string
	Intents     []Intent
	ScrollToEnd bool
	Noop        bool // blank input: nothing ran, the log is untouched
	Reset       bool // the log was re-seeded with the banner
}

type options struct {
	logger  *zap.Logger
	now     func() time.Time
	toHTML  func(string) (template.HTML, error)
	about   About
	title   string
	timeout time.Duration
}

// Option configures an Interpreter.
type Option func(*options)

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the clock used for the welcome banner.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMarkdown overrides the markdown-to-HTML converter used for post bodies.
// The converter must return sanitized markup.
func WithMarkdown(toHTML func(string) (template.HTML, error)) Option {
	return func(o *options) {
		if toHTML != nil {
			o.toHTML = toHTML
		}
	}
}

// WithAbout sets the about page and the GitHub profile opened by "open github".
func WithAbout(about About) Option {
	return func(o *options) {
		o.about = about
	}
}

// WithBlogTitle sets the title shown in the welcome banner.
func WithBlogTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithCommandTimeout bounds every command's external reads. Zero disables it.
func WithCommandTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.timeout = d
		}
	}
}

// Interpreter owns the session, the post cache and the output log. Commands
// run one at a time: Execute holds a lock for the whole command, including
// external reads, so output of two commands never interleaves.
type Interpreter struct {
	mu      sync.Mutex
	store   blog.Store
	session *Session
	cache   *Cache
	log     *Log
	render  *Renderer
	about   About
	logger  *zap.Logger
	now     func() time.Time
	timeout time.Duration

	intents []Intent
}

// New builds an interpreter over store. A nil store is allowed: reads then
// report ErrNotConfigured.
func New(store blog.Store, opts ...Option) *Interpreter {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
		toHTML: markdown.ToHTML,
		about:  DefaultAbout,
		title:  "My Awesome Blog",
	}
	for _, opt := range opts {
		opt(&o)
	}
	in := &Interpreter{
		store:   store,
		session: NewSession(),
		cache:   &Cache{},
		log:     &Log{},
		render:  &Renderer{toHTML: o.toHTML, about: o.about, title: o.title},
		about:   o.about,
		logger:  o.logger,
		now:     o.now,
		timeout: o.timeout,
	}
	in.reset()
	return in
}

// Execute runs one input line to completion and returns the resulting log.
func (in *Interpreter) Execute(ctx context.Context, line string) Result {
	cmd, ok := Parse(line)

	in.mu.Lock()
	defer in.mu.Unlock()

	if !ok {
		return in.result(Command{}, true, false)
	}
	if cmd.Name == "clear" && len(cmd.Args) == 0 {
		in.reset()
		return in.result(cmd, false, true)
	}

	if in.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, in.timeout)
		defer cancel()
	}

	id := uuid.NewString()
	start := time.Now()

	in.intents = nil
	in.log.Clear()
	in.log.Append(in.render.Echo(in.session.Prompt(), cmd.Raw))

	var err error
	if h, found := handlers[cmd.Name]; found {
		err = h(ctx, in, cmd)
	} else {
		err = &UnknownCommandError{Input: cmd.Raw}
	}
	if err != nil {
		in.report(err)
	}
	in.log.Commit()

	in.logger.Debug("command executed",
		zap.String("command_id", id),
		zap.String("command", cmd.Name),
		zap.Int("args", len(cmd.Args)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return in.result(cmd, false, false)
}

// Notify appends a message to the current log without running a command.
// Front-ends use it for startup diagnostics such as a failed sign-in.
func (in *Interpreter) Notify(text string, isError bool) Result {
	in.mu.Lock()
	defer in.mu.Unlock()
	if isError {
		in.out(in.render.Error(text))
	} else {
		in.out(in.render.Text(text))
	}
	in.log.Commit()
	in.intents = nil
	return in.result(Command{}, false, false)
}

// Snapshot returns the current log without changing it.
func (in *Interpreter) Snapshot() Result {
	in.mu.Lock()
	defer in.mu.Unlock()
	r := in.result(Command{}, true, false)
	r.Intents = nil
	return r
}

// CachedPosts returns the cached post snapshot, if any. It never blocks on a
// running command.
func (in *Interpreter) CachedPosts() ([]blog.Post, bool) {
	return in.cache.Snapshot()
}

// Source yields input lines one at a time. Next returns io.EOF when the
// input is exhausted.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// Run executes lines from src until it is exhausted or ctx is cancelled,
// passing each result to sink before reading the next line.
func (in *Interpreter) Run(ctx context.Context, src Source, sink func(Result)) error {
	for {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		r := in.Execute(ctx, line)
		if sink != nil {
			sink(r)
		}
	}
}

func (in *Interpreter) reset() {
	in.log.Clear()
	in.log.Append(in.render.Banner(in.now())...)
	in.intents = nil
}

func (in *Interpreter) out(entries ...Entry) {
	in.log.Append(entries...)
}

// report renders err according to its kind.
func (in *Interpreter) report(err error) {
	var (
		usage    *UsageError
		notFound *NotFoundError
		fetch    *FetchError
		unknown  *UnknownCommandError
	)
	switch {
	case errors.As(err, &usage):
		in.out(in.render.Text(usage.Usage))
	case errors.Is(err, ErrNotConfigured):
		in.out(in.render.Error("Error: the database is not ready."))
	case errors.As(err, &notFound):
		in.out(in.render.Error(notFound.Error()))
	case errors.As(err, &fetch):
		in.logger.Warn("content store call failed", zap.String("op", fetch.Op), zap.Error(fetch.Err))
		in.out(in.render.Error(fetch.Error()))
	case errors.As(err, &unknown):
		in.out(in.render.Error(unknown.Error()))
	default:
		in.out(in.render.Error("Error: " + err.Error()))
	}
}

func (in *Interpreter) result(cmd Command, noop, reset bool) Result {
	snap := in.log.Snapshot()
	intents := make([]Intent, len(in.intents))
	copy(intents, in.intents)
	return Result{
		Command:     cmd,
		Entries:     snap.Entries,
		Prompt:      in.session.Prompt(),
		User:        in.session.User(),
		Intents:     intents,
		ScrollToEnd: snap.ScrollToEnd && !noop,
		Noop:        noop,
		Reset:       reset,
	}
}

// ChanSource adapts a channel of lines to a Source. Closing the channel ends
// the input.
type ChanSource <-chan string

// Next implements Source.
func (s ChanSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// LinesOf splits text into lines; a convenience for feeding scripts to Run.
func LinesOf(text string) ChanSource {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

// ReaderSource reads newline-terminated lines from an io.Reader. A blocked
// read is not interrupted by ctx; cancellation is observed between lines.
type ReaderSource struct {
	scanner *bufio.Scanner
}

// NewReaderSource wraps r.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{scanner: bufio.NewScanner(r)}
}

// Next implements Source.
func (s *ReaderSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}
