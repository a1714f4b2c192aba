package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ariel-frischer/convlog/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configUserFlag  bool
	configForceFlag bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage convlog configuration",
	Long: `Manage convlog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CONVLOG_*, nested keys joined by __)
  3. Project config (.convlog.yml, or .convlog.json)
  4. User config (~/.config/convlog/config.yml)
  5. Built-in defaults`,
	Example: `  # Show the effective configuration
  convlog config show

  # List every key with its default
  convlog config keys

  # Set a value in the project config
  convlog config set generator.preset conventionalcommits

  # Write a commented config file
  convlog config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List all configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bold := color.New(color.Bold).SprintFunc()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", bold("KEY"), bold("TYPE"), bold("DEFAULT"), bold("DESCRIPTION"))
		for _, key := range config.SortedKeys() {
			schema := config.KnownKeys[key]
			desc := schema.Description
			if len(schema.AllowedValues) > 0 {
				desc += " (" + strings.Join(schema.AllowedValues, "|") + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, schema.Type, formatDefault(schema.Default), desc)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", "generator.types", "list", "preset table", "Commit type table (YAML only)")
		return w.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the project (or user) config",
	Example: `  convlog config set infile HISTORY.md
  convlog config set generator.release_count 0
  convlog config set generator.args "-u,--verbose" --user`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, scope, err := configTarget()
		if err != nil {
			return err
		}
		if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s config (%s)\n", args[0], args[1], scope, path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, scope, err := configTarget()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configForceFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "%s config already exists at %s (use --force to overwrite)\n", scope, path)
			return nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s config at %s\n", scope, path)
		return nil
	},
}

func init() {
	configSetCmd.Flags().BoolVar(&configUserFlag, "user", false, "Write to the user config instead of the project config")
	configInitCmd.Flags().BoolVar(&configUserFlag, "user", false, "Write the user config instead of the project config")
	configInitCmd.Flags().BoolVar(&configForceFlag, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd, configKeysCmd, configSetCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// configTarget returns the YAML file set and init write to.
func configTarget() (path, scope string, err error) {
	if configUserFlag {
		path, err = config.UserConfigPath()
		if err != nil {
			return "", "", fmt.Errorf("locating user config: %w", err)
		}
		return path, "user", nil
	}
	if cfgFile != "" {
		if strings.EqualFold(filepath.Ext(cfgFile), ".json") {
			return "", "", fmt.Errorf("cannot write %s: only YAML config files can be edited", cfgFile)
		}
		return cfgFile, "project", nil
	}
	return config.ProjectConfigPath(), "project", nil
}

func formatDefault(v interface{}) string {
	switch d := v.(type) {
	case string:
		if d == "" {
			return `""`
		}
		return d
	case []string:
		return "[" + strings.Join(d, ",") + "]"
	default:
		return fmt.Sprint(d)
	}
}
