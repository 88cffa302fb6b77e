package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/app"
	"github.com/dotoki2k/terminal-blog/model"
	"github.com/dotoki2k/terminal-blog/terminal"
)

var (
	width  int
	noOpen bool
)

// shellCmd reads commands line by line from stdin.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run the blog terminal line by line over stdin",
	Long: `Reads one command per line from standard input and prints each result.
Useful for pipes and scripts:

  printf 'ls\ncat hello-world\n' | blogterm shell`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// execCmd runs a single command and exits.
var execCmd = &cobra.Command{
	Use:   "exec <command...>",
	Short: "Run one command and print its output as plain text",
	Long: `Runs one command, prints the output log without colors and exits.

Example:
  blogterm exec search go`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	for _, c := range []*cobra.Command{shellCmd, execCmd} {
		c.Flags().IntVar(&width, "width", 80, "Output width in columns")
		c.Flags().BoolVar(&noOpen, "no-open", false, "Print links instead of opening a browser")
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	in := newInterpreter(b.store)
	out := cmd.OutOrStdout()
	start := in.Snapshot()
	if b.signInFailed(ctx) {
		start = in.Notify(app.MsgSignInFailed, true)
	}
	printEntries(out, start.Entries)
	fmt.Fprint(out, start.Prompt+" ")

	err = in.Run(ctx, terminal.NewReaderSource(cmd.InOrStdin()), func(r terminal.Result) {
		if !r.Noop {
			printEntries(out, r.Entries)
			handleIntents(out, r.Intents)
		}
		fmt.Fprint(out, r.Prompt+" ")
	})
	fmt.Fprintln(out)
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	lipgloss.SetColorProfile(termenv.Ascii)
	out := cmd.OutOrStdout()
	if b.signInFailed(ctx) {
		fmt.Fprintln(out, app.MsgSignInFailed)
	}
	r := newInterpreter(b.store).Execute(ctx, strings.Join(args, " "))
	// The echo line is the command the user just typed.
	if len(r.Entries) > 0 && r.Entries[0].Kind == terminal.EntryEcho {
		r.Entries = r.Entries[1:]
	}
	fmt.Fprintln(out, ansi.Strip(model.RenderEntries(r.Entries, width)))
	handleIntents(out, r.Intents)
	return nil
}

func printEntries(w io.Writer, entries []terminal.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w, model.RenderEntries(entries, width))
}

func handleIntents(w io.Writer, intents []terminal.Intent) {
	for _, intent := range intents {
		if intent.Kind != terminal.IntentOpenURL {
			continue
		}
		if noOpen {
			fmt.Fprintln(w, intent.URL)
			continue
		}
		if err := (app.BrowserOpener{}).Open(intent.URL); err != nil {
			logger.Warn("open url failed", zap.String("url", intent.URL), zap.Error(err))
			fmt.Fprintln(os.Stderr, intent.URL)
		}
	}
}
