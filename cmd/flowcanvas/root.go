package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/ingyamilmolinar/flowcanvas/internal/config"
	game_log "github.com/ingyamilmolinar/flowcanvas/internal/log"
	"github.com/spf13/cobra"
)

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// globals shared by every subcommand
type globals struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "flowcanvas [flow.json]",
		Short:         "flowcanvas edits node flows on a pannable canvas",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(g, args)
		},
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flowcanvas/config.yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "debug, info, warn, error or none")

	root.AddCommand(
		editCmd(g),
		exportCmd(g),
		inspectCmd(),
	)
	return root
}

// load reads the config and builds a stderr logger, honouring --log-level.
func (g *globals) load() (config.Config, *game_log.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFrom(g.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		bad.Fprintf(os.Stderr, "flowcanvas: %v\n", err)
		return cfg, nil, err
	}
	level := cfg.LogLevel()
	if g.logLevel != "" {
		level, err = game_log.ParseLevel(g.logLevel)
		if err != nil {
			bad.Fprintf(os.Stderr, "flowcanvas: %v\n", err)
			return cfg, nil, err
		}
	}
	return cfg, game_log.New(os.Stderr, level), nil
}
