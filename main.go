package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotoki2k/terminal-blog/app"
	"github.com/dotoki2k/terminal-blog/config"
	"github.com/dotoki2k/terminal-blog/logging"
	"github.com/dotoki2k/terminal-blog/msg"
	"github.com/dotoki2k/terminal-blog/style"
)

var version = "dev"

var (
	// Global flags
	profileName string
	verbose     bool
	noColor     bool
	themeName   string
	storeKind   string
	dbPath      string
	gitURL      string
	gitDir      string

	profileDir string
	cfg        config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "blogterm [command...]",
	Short: "Read a blog from a shell-like terminal",
	Long: `blogterm opens a full-screen terminal for a blog. Type shell-like
commands such as 'ls', 'cat <slug>' and 'search <keyword>' to browse posts.

Posts come from a Firestore project, a local SQLite database or a git
repository of markdown files (see --store). Any arguments are run as the first
command once the terminal is up.`,
	Version:           version,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "Named profile for state isolation (~/.blogterm/profiles/<name>)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme ("+strings.Join(style.ThemeNames, ", ")+")")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Content store: firestore, sqlite or git")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&gitURL, "git-url", "", "Git repository URL to read posts from")
	rootCmd.PersistentFlags().StringVar(&gitDir, "git-dir", "", "Local git working copy to read posts from")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves the profile directory, loads configuration and builds the
// logger. Precedence: flags, then environment, then the config file.
func setup(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}
	profileDir = filepath.Join(home, ".blogterm")
	if profileName != "" {
		profileDir = filepath.Join(profileDir, "profiles", profileName)
	}

	cfg = config.Load(profileDir).WithEnv(os.Getenv)
	flags := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	override("theme", &cfg.Theme, themeName)
	override("store", &cfg.Store, storeKind)
	override("db", &cfg.DBPath, dbPath)
	override("git-url", &cfg.GitURL, gitURL)
	override("git-dir", &cfg.GitDir, gitDir)

	logger, err = logging.New(profileDir, verbose)
	if err != nil {
		return err
	}

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	style.SetTheme(themeFor(cfg.Theme, lipgloss.HasDarkBackground))

	logger.Debug("configuration loaded",
		zap.String("profile_dir", profileDir),
		zap.String("store", cfg.Store),
		zap.String("theme", style.CurrentThemeName),
	)
	return nil
}

// themeFor returns the configured theme, or the dark or light theme to match
// the terminal background when none is configured.
func themeFor(name string, darkBackground func() bool) string {
	switch {
	case name != "":
		return name
	case darkBackground():
		return "dark"
	default:
		return "light"
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	m := app.New(newInterpreter(b.store), app.Options{
		Title:     cfg.BlogTitle,
		StoreName: b.name,
		SignIn:    b.signIn,
		Logger:    logger,
		Context:   ctx,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if len(args) > 0 {
		first := strings.Join(args, " ")
		go p.Send(msg.SubmitInput{Text: first})
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("blogterm: %w", err)
	}
	return nil
}
