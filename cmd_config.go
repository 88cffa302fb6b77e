package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotoki2k/terminal-blog/config"
)

var saveConfig bool

// configCmd shows the effective configuration and can persist it.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Prints the configuration after the profile file, BLOGTERM_* environment
variables and flags are merged.

With --save, the merged configuration is written back to the profile file so
later runs pick it up without the flags:

  blogterm config --store sqlite --db ~/blog.db --save`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&saveConfig, "save", false, "Write the effective configuration to the profile file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if saveConfig {
		if err := config.Save(profileDir, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(out, "Saved %s\n", config.Path(profileDir))
		return nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}
