package terminal

import (
	"html/template"
	"strings"
	"time"

	"github.com/dotoki2k/terminal-blog/blog"
)

// lastLoginFormat matches the browser's Date.toUTCString output.
const lastLoginFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Every interpolated string is escaped by html/template. Only values typed
// template.HTML (sanitized markdown) pass through untouched.
var templates = template.Must(template.New("terminal").Parse(`
{{define "text"}}<div class="output-line">{{.}}</div>{{end}}
{{define "error"}}<div><span class="error">{{.}}</span></div>{{end}}
{{define "echo"}}<div class="command-echo"><span class="prompt">{{.Prompt}}</span><span class="command-text">{{.Input}}</span></div>{{end}}
{{define "help"}}<div class="help-line"><span class="help-command">  '{{.Usage}}'</span><span class="help-description">- {{.Description}}</span></div>{{end}}
{{define "ls-header"}}<div class="ls-line header"><span class="ls-slug">SLUG</span><span class="ls-title">TITLE</span><span class="ls-tags">TAGS</span><span class="ls-author">AUTHOR</span></div>{{end}}
{{define "ls-row"}}<div class="ls-line" data-command="cat {{.Slug}}" title="Click to read 'cat {{.Slug}}'"><span class="ls-slug">{{.Slug}}</span><span class="ls-title">{{.Title}}</span><span class="ls-tags">{{.HashTags}}</span><span class="ls-author">{{.Author}}</span></div>{{end}}
{{define "post"}}<div><h1>{{.Title}}</h1><div class="post-details">By: {{.Author}} | Date: {{.Date}} | Views: {{.Views}}</div><div class="post-tags">{{range .Tags}}<span class="tag">#{{.}}</span>{{end}}</div></div>{{end}}
{{define "post-body"}}<div class="post-body">{{.}}</div>{{end}}
{{define "about"}}<div><h1>About {{.BlogName}}</h1><div class="post-body"><p>{{.Bio}}</p><p>You can find me on GitHub <span class="link" data-command="open github">{{.GitHub}}</span>.</p></div></div>{{end}}
`))

// HelpItem is one line of the help listing.
type HelpItem struct {
	Usage       string
	Description string
}

// About configures the about page and the "open github" target.
type About struct {
	BlogName  string
	Bio       string
	GitHub    string
	GitHubURL string
}

// DefaultAbout is the about page shipped with the blog.
var DefaultAbout = About{
	BlogName:  "Dotoki's Blog",
	Bio:       "Hi there! I am a web developer passionate about creating unique and innovative experiences.",
	GitHub:    "Dotoki2k",
	GitHubURL: "https://github.com/dotoki2k",
}

// Renderer turns results into log entries.
type Renderer struct {
	toHTML func(string) (template.HTML, error)
	about  About
	title  string
}

func (r *Renderer) execute(name string, data any) template.HTML {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error())) //nolint:gosec // escaped
	}
	return template.HTML(sb.String()) //nolint:gosec // produced by html/template
}

// Text renders escaped plain text.
func (r *Renderer) Text(s string) Entry {
	return Entry{Kind: EntryText, HTML: r.execute("text", s)}
}

// Error renders an escaped, error-styled message.
func (r *Renderer) Error(s string) Entry {
	return Entry{Kind: EntryMarkup, HTML: r.execute("error", s)}
}

// Echo renders the command line as the user typed it.
func (r *Renderer) Echo(prompt, input string) Entry {
	return Entry{Kind: EntryEcho, HTML: r.execute("echo", struct{ Prompt, Input string }{prompt, input})}
}

// Help renders one entry per help item, in order.
func (r *Renderer) Help(items []HelpItem) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{Kind: EntryMarkup, HTML: r.execute("help", item)})
	}
	return entries
}

// Table renders a header row followed by one row per post.
func (r *Renderer) Table(posts []blog.Post) []Entry {
	entries := make([]Entry, 0, len(posts)+1)
	entries = append(entries, Entry{Kind: EntryMarkup, HTML: r.execute("ls-header", nil)})
	for _, p := range posts {
		entries = append(entries, Entry{Kind: EntryMarkup, HTML: r.execute("ls-row", p)})
	}
	return entries
}

// Post renders the post header and its sanitized body.
func (r *Renderer) Post(p blog.Post) ([]Entry, error) {
	body, err := r.toHTML(p.Body)
	if err != nil {
		return nil, err
	}
	return []Entry{
		{Kind: EntryMarkup, HTML: r.execute("post", p)},
		{Kind: EntryMarkdown, HTML: r.execute("post-body", body), Source: p.Body},
	}, nil
}

// About renders the about page.
func (r *Renderer) About() Entry {
	return Entry{Kind: EntryMarkup, HTML: r.execute("about", r.about)}
}

// Banner renders the welcome lines shown at startup and after clear.
func (r *Renderer) Banner(now time.Time) []Entry {
	lines := []string{
		"Last login: " + now.UTC().Format(lastLoginFormat),
		"Welcome to " + r.title + "!",
		"------------------------------------",
		"Type 'help' to see a list of available commands.",
	}
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = r.Text(line)
	}
	return entries
}
