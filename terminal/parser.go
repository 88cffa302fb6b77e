package terminal

import "strings"

// Command is a parsed input line.
type Command struct {
	Name string   // first token, lowercased
	Args []string // remaining tokens, verbatim
	Raw  string   // the trimmed input line
}

// Parse splits a raw line into a command and its arguments. ok is false for
// blank input, which the interpreter ignores entirely.
func Parse(line string) (cmd Command, ok bool) {
	raw := strings.TrimSpace(line)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{
		Name: strings.ToLower(fields[0]),
		Args: fields[1:],
		Raw:  raw,
	}, true
}

// Phrase rejoins the arguments with single spaces.
func (c Command) Phrase() string {
	return strings.Join(c.Args, " ")
}

// Arg returns the i-th argument or "" when absent.
func (c Command) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}
