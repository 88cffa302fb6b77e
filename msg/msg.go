// Package msg defines all tea.Msg types dispatched within the blog TUI.
// It imports only the interpreter types it carries, never app or model, to
// avoid import cycles.
package msg

import "github.com/dotoki2k/terminal-blog/terminal"

// -- Lifecycle --

// SignInResult from the startup anonymous sign-in. Restricted is set when
// the project only allows administrators to create anonymous users, which is
// not treated as a failure.
type SignInResult struct {
	UserID     string
	Restricted bool
	Err        error
}

// -- User input --

// SubmitInput queues a line as if the user had typed it, e.g. a command given
// on the command line at startup.
type SubmitInput struct {
	Text string
}

// -- Interpreter --

// CommandDone carries the result of one executed line. Seq matches the
// submission order so stale results can be recognized.
type CommandDone struct {
	Seq    int
	Result terminal.Result
}

// OpenURLResult after handing a URL to the platform opener.
type OpenURLResult struct {
	URL string
	Err error
}

// -- UI events --

// TickMsg for periodic timer updates.
type TickMsg struct{}

// OpenPalette for Ctrl+P.
type OpenPalette struct{}

// OpenPicker for Ctrl+O.
type OpenPicker struct{}

// OpenSearch for Ctrl+F.
type OpenSearch struct{}
