package blog

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// ParseMarkdown reads a markdown document with optional YAML front matter:
//
//	---
//	title: Hello
//	tags: [go, terminal]
//	---
//	# Body
//
// The slug defaults to the file name without its extension; a "slug" key in
// the front matter overrides it.
func ParseMarkdown(name string, data []byte) (Post, error) {
	slug := strings.TrimSuffix(path.Base(name), path.Ext(name))
	fields := map[string]any{}

	body := data
	if head, rest, ok := splitFrontMatter(data); ok {
		if err := yaml.Unmarshal(head, &fields); err != nil {
			return Post{}, fmt.Errorf("parse front matter of %s: %w", name, err)
		}
		if fields == nil {
			fields = map[string]any{}
		}
		body = rest
	}
	if s, ok := fields["slug"].(string); ok && strings.TrimSpace(s) != "" {
		slug = strings.TrimSpace(s)
	}
	if slug == "" {
		return Post{}, fmt.Errorf("parse %s: empty slug", name)
	}
	fields["body"] = strings.TrimLeft(string(body), "\r\n")
	return FromFields(slug, fields), nil
}

// splitFrontMatter separates a leading "---" delimited block from the body.
func splitFrontMatter(data []byte) (head, body []byte, ok bool) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	first, rest, found := bytes.Cut(data, []byte("\n"))
	if !found || strings.TrimSpace(string(first)) != fence {
		return nil, data, false
	}
	var headLines [][]byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if strings.TrimSpace(string(line)) == fence {
			return bytes.Join(headLines, []byte("\n")), rest, true
		}
		headLines = append(headLines, line)
	}
	return nil, data, false
}
