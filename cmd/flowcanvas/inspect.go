package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ingyamilmolinar/flowcanvas/core/document"
	"github.com/ingyamilmolinar/flowcanvas/core/model"
	"github.com/ingyamilmolinar/flowcanvas/internal/utils"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <flow.json>",
		Short: "Summarise the nodes and connections of a flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := document.FileStore{Path: args[0]}.Load()
			if err != nil {
				bad.Fprintf(cmd.ErrOrStderr(), "flowcanvas: %v\n", err)
				return err
			}
			printSummary(cmd.OutOrStdout(), args[0], doc)
			return nil
		},
	}
}

// printSummary writes a node table followed by the connections, flagging
// any that point at a node the file does not contain.
func printSummary(w io.Writer, name string, doc document.Document) {
	fmt.Fprintf(w, "%s %s\n\n", brand.Sprint(name), subtle.Sprintf("(version %d, zoom %d%%)",
		doc.Version, utils.RoundPercent(viewScale(doc))))

	labels := make(map[model.NodeID]string, len(doc.Nodes))
	idW, kindW := len("ID"), len("TYPE")
	for _, n := range doc.Nodes {
		labels[n.ID] = n.Label
		idW = max(idW, len(n.ID))
		kindW = max(kindW, len(n.Kind))
	}

	fmt.Fprintf(w, "  %d node(s)\n", len(doc.Nodes))
	if len(doc.Nodes) > 0 {
		fmt.Fprintf(w, "  %-*s  %-*s  %-12s  %s\n", idW, "ID", kindW, "TYPE", "POSITION", "LABEL")
		fmt.Fprintf(w, "  %s\n", subtle.Sprint(strings.Repeat("-", idW+kindW+24)))
		for _, n := range doc.Nodes {
			pos := fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y)
			fmt.Fprintf(w, "  %-*s  %-*s  %-12s  %s\n", idW, n.ID, kindW, n.Kind, pos, n.Label)
		}
	}

	fmt.Fprintf(w, "\n  %d connection(s)\n", len(doc.Connections))
	for _, c := range doc.Connections {
		src, srcOK := labels[c.SourceID]
		dst, dstOK := labels[c.TargetID]
		if !srcOK || !dstOK {
			fmt.Fprintf(w, "  %s %s -> %s %s\n", bad.Sprint("!"), c.SourceID, c.TargetID, bad.Sprint("(dangling)"))
			continue
		}
		fmt.Fprintf(w, "  %s %s -> %s\n", good.Sprint("*"), src, dst)
	}
}

func viewScale(doc document.Document) float64 {
	if doc.Viewport.Scale == 0 {
		return 1
	}
	return doc.Viewport.Scale
}
