package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/showroom/pkg/settings"
)

var configOutput string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the showroom version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return err
	},
}

func cliVersionString() string {
	name := cfg.App.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, go %s)", name, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration",
		Long:  "Print the embedded default configuration merged with the user file (--config-file or $XDG_CONFIG_HOME/showroom/config.yaml).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := cfg.Marshal(configOutput)
			if err != nil {
				return usage(err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	configCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Available themes (default: %s):\n", defaultThemeName(cfg))
			for _, name := range cfg.ThemeNames() {
				fmt.Fprintf(w, " - %s\n", name)
			}
			return nil
		},
	}
	configCmd.AddCommand(themesCmd)
	return configCmd
}
