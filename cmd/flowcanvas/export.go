package main

import (
	"fmt"

	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/internal/export"
	"github.com/spf13/cobra"
)

func exportCmd(g *globals) *cobra.Command {
	var (
		out        string
		background string
	)
	cmd := &cobra.Command{
		Use:   "export <flow.json>",
		Short: "Render a flow to SVG or PNG",
		Long:  "Render a flow to an image. The format follows the extension of --out.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			doc, _, err := document.FileStore{Path: args[0]}.Load()
			if err != nil {
				bad.Fprintf(cmd.ErrOrStderr(), "flowcanvas: %v\n", err)
				return err
			}

			opts := export.DefaultOptions()
			opts.Padding = cfg.Export.Padding
			opts.FontSize = cfg.Export.FontSize
			if background == "" {
				background = cfg.Export.Background
			}
			if opts.Background, err = export.ParseHexColor(background); err != nil {
				bad.Fprintf(cmd.ErrOrStderr(), "flowcanvas: %v\n", err)
				return err
			}

			if err := export.WriteFile(out, doc, opts); err != nil {
				bad.Fprintf(cmd.ErrOrStderr(), "flowcanvas: %v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", good.Sprint("wrote"), out,
				subtle.Sprintf("(%d nodes, %d connections)", len(doc.Nodes), len(doc.Connections)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, .svg or .png")
	cmd.Flags().StringVar(&background, "background", "", "backdrop colour as #rrggbb (overrides config)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
