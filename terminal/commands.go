package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/dotoki2k/terminal-blog/blog"
)

// handler executes one command. Returned errors are rendered by the
// interpreter; handlers append their regular output themselves.
type handler func(ctx context.Context, in *Interpreter, cmd Command) error

var handlers = map[string]handler{
	"help":   handleHelp,
	"ls":     handleList,
	"cat":    handleCat,
	"search": handleSearch,
	"about":  handleAbout,
	"login":  handleLogin,
	"logout": handleLogout,
	"open":   handleOpen,
}

var helpItems = []HelpItem{
	{Usage: "help", Description: "Show this message."},
	{Usage: "ls", Description: "List all posts."},
	{Usage: "cat <slug>", Description: "Read a specific post."},
	{Usage: "search <keyword>", Description: "Search posts."},
	{Usage: "about", Description: "Show information about the author."},
	{Usage: "login <username>", Description: "Log in with a username."},
	{Usage: "logout", Description: "Log out."},
	{Usage: "open github", Description: "Open the author's GitHub profile."},
	{Usage: "clear", Description: "Restore the initial screen."},
}

// Commands returns the help listing in display order.
func Commands() []HelpItem {
	out := make([]HelpItem, len(helpItems))
	copy(out, helpItems)
	return out
}

const (
	usageCat    = "Usage: cat <slug>. Use 'ls' to see available post slugs."
	usageSearch = "Usage: search <keyword>"
	usageLogin  = "Usage: login <username>"

	msgNoPosts = "No posts found. Make sure the 'posts' collection exists and contains documents."
)

func handleHelp(_ context.Context, in *Interpreter, _ Command) error {
	in.out(in.render.Text("Available commands:"))
	in.out(in.render.Help(helpItems)...)
	return nil
}

func handleList(ctx context.Context, in *Interpreter, _ Command) error {
	in.cache.Invalidate()
	posts := in.fetchPosts(ctx)
	if len(posts) == 0 {
		return nil
	}
	in.out(in.render.Table(posts)...)
	return nil
}

func handleCat(ctx context.Context, in *Interpreter, cmd Command) error {
	slug := cmd.Arg(0)
	if slug == "" {
		return &UsageError{Usage: usageCat}
	}
	if in.store == nil {
		return ErrNotConfigured
	}
	post, err := in.store.GetPost(ctx, slug)
	switch {
	case errors.Is(err, blog.ErrNotFound):
		return &NotFoundError{Slug: slug}
	case err != nil:
		return &FetchError{Op: "Error reading post", Err: err}
	}
	entries, err := in.render.Post(post)
	if err != nil {
		return &FetchError{Op: "Error reading post", Err: err}
	}
	in.out(entries...)
	return nil
}

func handleSearch(ctx context.Context, in *Interpreter, cmd Command) error {
	keyword := cmd.Phrase()
	if keyword == "" {
		return &UsageError{Usage: usageSearch}
	}
	results := blog.Search(in.fetchPosts(ctx), keyword)
	in.out(in.render.Text(fmt.Sprintf("Found %d post(s) for '%s':", len(results), keyword)))
	if len(results) > 0 {
		in.out(in.render.Table(results)...)
	}
	return nil
}

func handleAbout(_ context.Context, in *Interpreter, _ Command) error {
	in.out(in.render.About())
	return nil
}

func handleLogin(_ context.Context, in *Interpreter, cmd Command) error {
	name := cmd.Arg(0)
	if name == "" {
		return &UsageError{Usage: usageLogin}
	}
	if err := in.session.Login(name); errors.Is(err, ErrAlreadyLoggedIn) {
		in.out(in.render.Text(fmt.Sprintf("Already logged in as %s. Please 'logout' first.", in.session.User())))
		return nil
	} else if err != nil {
		return &UsageError{Usage: usageLogin}
	}
	in.out(in.render.Text(fmt.Sprintf("Welcome, %s!", name)))
	return nil
}

func handleLogout(_ context.Context, in *Interpreter, _ Command) error {
	prev, err := in.session.Logout()
	if errors.Is(err, ErrNotLoggedIn) {
		in.out(in.render.Text("Not logged in."))
		return nil
	}
	in.out(in.render.Text(fmt.Sprintf("Goodbye, %s!", prev)))
	return nil
}

func handleOpen(_ context.Context, in *Interpreter, cmd Command) error {
	if len(cmd.Args) != 1 || cmd.Args[0] != "github" {
		return &UnknownCommandError{Input: cmd.Raw}
	}
	in.out(in.render.Text("Opening GitHub profile..."))
	in.intents = append(in.intents, Intent{Kind: IntentOpenURL, URL: in.about.GitHubURL})
	return nil
}

// fetchPosts reads the cache, fetching on demand. Failures and the empty
// store notice are rendered inline; the caller always gets a usable slice.
func (in *Interpreter) fetchPosts(ctx context.Context) []blog.Post {
	if in.store == nil {
		in.report(ErrNotConfigured)
		return []blog.Post{}
	}
	posts, fetchedNow, err := in.cache.Posts(ctx, in.store.ListPosts)
	if err != nil {
		in.report(&FetchError{Op: "Error loading posts", Err: err})
		return []blog.Post{}
	}
	if fetchedNow && len(posts) == 0 {
		in.out(in.render.Text(msgNoPosts))
	}
	return posts
}
