package blog

import "strings"

// Matches reports whether the lowercased keyword is a substring of the
// post's title, body, author or any of its tags, compared case-insensitively.
// A title or author that only holds its display default counts as empty.
func (p Post) Matches(keyword string) bool {
	kw := strings.ToLower(keyword)
	contains := func(field, fallback string) bool {
		if field == fallback {
			return false
		}
		return strings.Contains(strings.ToLower(field), kw)
	}
	if contains(p.Title, DefaultTitle) || contains(p.Body, "") || contains(p.Author, DefaultAuthor) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), kw) {
			return true
		}
	}
	return false
}

// Search filters posts by keyword, preserving their order.
func Search(posts []Post, keyword string) []Post {
	results := []Post{}
	for _, p := range posts {
		if p.Matches(keyword) {
			results = append(results, p)
		}
	}
	return results
}
