// Package cli implements the deepsplit command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/deepsplit/internal/config"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deepsplit",
	Short: "Project-splitting session manager",
	Long: `deepsplit manages the multi-step workflow that splits a large project
requirements document into independently-implementable sub-projects.

It keeps a per-project checkpoint, detects how far a previous session
got from the files on disk, and mirrors the workflow into an external
task store so the host assistant always sees an accurate task list.

Quick start:
  deepsplit setup --file requirements.md   Start or resume a session
  deepsplit status                         Show detected workflow state
  deepsplit dirs                           Create split directories from the manifest`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .deepsplit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	// Add subcommands
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newDirsCmd())
	rootCmd.AddCommand(newNameCmd())
	rootCmd.AddCommand(newHookCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(config.DeepDir)
		viper.AddConfigPath("$HOME/" + config.DeepDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("DEEPSPLIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// tasksRoot resolves the task store root: flag/env via viper, then the
// config file, then the built-in default.
func tasksRoot() string {
	if root := viper.GetString("tasks_root"); root != "" {
		return root
	}
	cfg, err := config.Load()
	if err != nil || cfg.TasksRoot == "" {
		return config.Default().TasksRoot
	}
	return cfg.TasksRoot
}
