package main

import (
	"os"

	"glance/internal/config"
	"glance/internal/log"
	"glance/internal/tui/styles"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config

	debugFlag bool
	jsonLogs  bool
	logFile   string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glance",
		Short: "A fast image viewer for folders of pictures",
		Long: `Glance opens an image or a folder of images and lets you flip through
them while the neighbors decode in the background.

Run 'glance view' for the desktop window or 'glance browse' inside a terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}
			applyLogFlags(cmd, cfg)
			configureLogging(cfg)
			styles.Apply(cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/glance/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug entries")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "log one JSON object per line")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write log lines to this file")

	rootCmd.AddCommand(NewViewCmd())
	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewDecodeCmd())

	return rootCmd
}

// applyLogFlags lets command line flags override the logging section.
func applyLogFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		c.Logging.Debug = debugFlag
	}
	if flags.Changed("log-json") {
		c.Logging.JSON = jsonLogs
	}
	if flags.Changed("log-file") {
		c.Logging.File = logFile
	}
}

// configureLogging points the package logger at stderr so command output on
// stdout stays clean.
func configureLogging(c *config.Config) {
	opts := []log.Option{log.WithOutput(os.Stderr)}
	if c.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}
	if c.Logging.File != "" {
		opts = append(opts, log.WithFile(c.Logging.File))
	}
	log.Configure(opts...)
	log.SetDebug(c.Logging.Debug)
}

// targetPath is the first argument or the working directory.
func targetPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return os.Getwd()
}
