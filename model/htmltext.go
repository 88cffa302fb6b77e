package model

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dotoki2k/terminal-blog/markdown"
	"github.com/dotoki2k/terminal-blog/style"
	"github.com/dotoki2k/terminal-blog/terminal"
)

// Listing column widths, in cells.
const (
	colSlug  = 22
	colTitle = 32
	colTags  = 22
	colHelp  = 22
	minWidth = 20
)

// RenderEntries lays out console entries as styled terminal text wrapped to
// width. Markup is interpreted by class; text from the log is stripped of
// escape sequences so stored content cannot drive the terminal.
func RenderEntries(entries []terminal.Entry, width int) string {
	if width < minWidth {
		width = minWidth
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, RenderEntry(e, width))
	}
	return strings.Join(parts, "\n")
}

// RenderEntry lays out a single entry.
func RenderEntry(e terminal.Entry, width int) string {
	if e.Kind == terminal.EntryMarkdown {
		return markdown.RenderWidth(ansi.Strip(e.Source), width)
	}
	return ansi.Wordwrap(htmlToText(string(e.HTML)), width, "")
}

var fragmentContext = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

func htmlToText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), fragmentContext)
	if err != nil {
		return ansi.Strip(fragment)
	}
	var w blockWriter
	for _, n := range nodes {
		w.walk(n, lipgloss.NewStyle(), false)
	}
	return w.String()
}

// blockWriter accumulates lines; block elements start new lines.
type blockWriter struct {
	lines []string
	cur   strings.Builder
}

func (w *blockWriter) write(s string) { w.cur.WriteString(s) }

func (w *blockWriter) newline() {
	if w.cur.Len() == 0 {
		return
	}
	w.lines = append(w.lines, w.cur.String())
	w.cur.Reset()
}

func (w *blockWriter) String() string {
	w.newline()
	return strings.Join(w.lines, "\n")
}

func (w *blockWriter) walk(n *html.Node, st lipgloss.Style, styled bool) {
	switch n.Type {
	case html.TextNode:
		text := ansi.Strip(n.Data)
		if strings.TrimSpace(text) == "" && strings.ContainsRune(text, '\n') {
			return
		}
		text = strings.ReplaceAll(text, "\n", " ")
		if styled {
			text = st.Render(text)
		}
		w.write(text)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c, st, styled)
		}
		return
	}

	switch {
	case hasClass(n, "ls-line"):
		w.newline()
		w.write(tableRow(n))
		w.newline()
		return
	case hasClass(n, "help-line"):
		w.newline()
		w.write(helpRow(n))
		w.newline()
		return
	}

	if s, ok := elementStyle(n); ok {
		st, styled = s, true
	}

	block := isBlock(n)
	if block {
		w.newline()
	}
	switch n.DataAtom {
	case atom.Br:
		w.newline()
		return
	case atom.Li:
		w.write("• ")
	case atom.Hr:
		w.write(style.Rule(minWidth))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, st, styled)
	}
	switch {
	case hasClass(n, "prompt"), hasClass(n, "tag"):
		w.write(" ")
	case n.DataAtom == atom.A:
		if href := attr(n, "href"); href != "" && href != textOf(n) {
			w.write(style.Faint.Render(" (" + ansi.Strip(href) + ")"))
		}
	}
	if block {
		w.newline()
	}
}

func elementStyle(n *html.Node) (lipgloss.Style, bool) {
	switch {
	case hasClass(n, "error"):
		return style.ErrorText, true
	case hasClass(n, "prompt"):
		return style.Prompt, true
	case hasClass(n, "command-text"):
		return style.CommandText, true
	case hasClass(n, "post-details"):
		return style.PostDetails, true
	case hasClass(n, "tag"):
		return style.TagText, true
	case hasClass(n, "link"):
		return style.LinkText, true
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return style.Heading, true
	case atom.Strong, atom.B:
		return style.Bold, true
	case atom.Em, atom.I:
		return lipgloss.NewStyle().Italic(true), true
	case atom.A:
		return style.LinkText, true
	case atom.Code:
		return style.CommandText, true
	}
	return lipgloss.Style{}, false
}

func isBlock(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Div, atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Pre, atom.Blockquote, atom.Table, atom.Tr, atom.Hr:
		return true
	}
	return false
}

func tableRow(n *html.Node) string {
	header := hasClass(n, "header")
	cell := func(class string) string {
		if c := findClass(n, class); c != nil {
			return textOf(c)
		}
		return ""
	}
	slug := pad(cell("ls-slug"), colSlug)
	title := pad(cell("ls-title"), colTitle)
	tags := pad(cell("ls-tags"), colTags)
	author := cell("ls-author")
	if header {
		return style.TableHeader.Render(slug + title + tags + author)
	}
	return style.CommandText.Render(slug) + title + style.TagText.Render(tags) + style.Faint.Render(author)
}

func helpRow(n *html.Node) string {
	cmd, desc := "", ""
	if c := findClass(n, "help-command"); c != nil {
		cmd = textOf(c)
	}
	if c := findClass(n, "help-description"); c != nil {
		desc = textOf(c)
	}
	return style.HelpCommand.Render(pad(cmd, colHelp)) + desc
}

// pad truncates or right-pads s to exactly n cells, leaving one cell of gap.
func pad(s string, n int) string {
	s = ansi.Truncate(s, n-1, "…")
	if w := ansi.StringWidth(s); w < n {
		s += strings.Repeat(" ", n-w)
	}
	return s
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return ansi.Strip(sb.String())
}

func findClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && hasClass(c, class) {
			return c
		}
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// DataCommands returns the data-command attributes in the entries, in order.
// Listing rows carry "cat <slug>" and the about page "open github".
func DataCommands(entries []terminal.Entry) []string {
	var out []string
	for _, e := range entries {
		nodes, err := html.ParseFragment(strings.NewReader(string(e.HTML)), fragmentContext)
		if err != nil {
			continue
		}
		var visit func(*html.Node)
		visit = func(n *html.Node) {
			if n.Type == html.ElementNode {
				if c := attr(n, "data-command"); c != "" {
					out = append(out, c)
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				visit(c)
			}
		}
		for _, n := range nodes {
			visit(n)
		}
	}
	return out
}
