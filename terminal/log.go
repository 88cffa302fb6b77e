package terminal

import "html/template"

// EntryKind classifies an Output Log entry.
type EntryKind int

const (
	EntryText     EntryKind = iota // escaped plain text
	EntryMarkup                    // trusted markup built from templates
	EntryEcho                      // the echoed command line
	EntryMarkdown                  // sanitized post body; Source keeps the markdown
)

func (k EntryKind) String() string {
	switch k {
	case EntryText:
		return "text"
	case EntryMarkup:
		return "markup"
	case EntryEcho:
		return "echo"
	case EntryMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Entry is one rendered element of the console. HTML is always safe to
// insert as-is: untrusted text has been escaped and markdown sanitized.
type Entry struct {
	Kind   EntryKind
	HTML   template.HTML
	Source string
}

// Snapshot is a point-in-time copy of the log.
type Snapshot struct {
	Entries     []Entry
	ScrollToEnd bool
}

// Log is the append-only console output. It is not safe for concurrent use;
// the Interpreter serializes access.
type Log struct {
	entries []Entry
	atEnd   bool
}

// Append adds entries after the existing ones.
func (l *Log) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.entries = nil
	l.atEnd = false
}

// Commit closes a batch of appends. Views showing the log scroll to its end
// after a committed batch.
func (l *Log) Commit() {
	l.atEnd = true
}

// Snapshot copies the current entries.
func (l *Log) Snapshot() Snapshot {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return Snapshot{Entries: entries, ScrollToEnd: l.atEnd}
}
