package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/internal/ui"
	"github.com/ingyamilmolinar/flowcanvas/internal/watch"
	"github.com/spf13/cobra"
)

func editCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [flow.json]",
		Short: "Open the canvas editor",
		Long: "Open the canvas editor on a flow file. Without a file the flow.path\n" +
			"config key is used; with neither, the flow lives in memory only.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(g, args)
		},
	}
}

func runEdit(g *globals, args []string) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	path := cfg.Flow.Path
	if len(args) == 1 {
		path = args[0]
	}

	uiCfg := ui.Config{
		Seed:        cfg.Flow.Seed,
		GridSpacing: cfg.Canvas.GridSpacing,
		ShowGrid:    cfg.Canvas.ShowGrid,
	}
	if path != "" {
		uiCfg.Store = &document.FileStore{Path: path}
		if cfg.Flow.Watch {
			w, err := watch.New(path, watch.WithDebounce(cfg.Flow.Debounce), watch.WithLogger(logger))
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if err := w.Start(ctx); err != nil {
				// editing still works, only outside changes go unnoticed
				logger.Warnf("[WATCH] Not watching %s: %v", path, err)
			} else {
				defer w.Close()
				uiCfg.Changes = w.Changes()
				go func() {
					for err := range w.Errors() {
						logger.Warnf("[WATCH] %v", err)
					}
				}()
			}
		}
	}

	game := ui.New(logger, uiCfg)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		bad.Fprintf(os.Stderr, "flowcanvas: %v\n", err)
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
