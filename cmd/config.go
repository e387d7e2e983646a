package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/cursorword/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with every default",
	Long: `Write a commented config file holding every default value. Without a
path it is written to ` + config.LocalConfigPath + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key in the config file",
	Long: `Set one dotted key in the config file in use, keeping its comments.

Examples:
  cursorword config set highlight.case_sensitive false
  cursorword config set search.window_radius 5000

Negative values must follow "--" so they are not read as flags:
  cursorword config set -- search.window_radius -1`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := loadedConfig(); err != nil {
			return err
		}
		out, err := yaml.Marshal(loader.Viper().AllSettings())
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every config key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, k := range config.Keys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd, configShowCmd, configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.LocalConfigPath
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = loader.Path()
	}
	if path == "" {
		path = config.LocalConfigPath
	}
	orig, readErr := os.ReadFile(path) //nolint:gosec // G304: the user's own config file
	if err := config.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	updated, err := config.NewLoader(path).Load()
	if err == nil {
		err = config.Validate(updated)
	}
	if err != nil {
		// Put the previous file back.
		if readErr == nil {
			_ = os.WriteFile(path, orig, 0600)
		} else {
			_ = os.Remove(path)
		}
		return fmt.Errorf("%s=%s would make the config invalid: %w", args[0], args[1], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
	return nil
}
