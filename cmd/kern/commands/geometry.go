package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newLoopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loop <edge>",
		Short: "Find the shortest closed loop of edges through an edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			loop, err := c.components.App.Loop(cmd.Context(), cwd, args[0])
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("loop of %d edges, length %g", len(loop.Arcs), loop.Length)
			p.path(append(loop.Nodes, loop.Nodes[0]))
			return nil
		},
	}
}

func (c *CLI) newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <face>",
		Short: "Print the outline of a face",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			out, err := c.components.App.Outline(cmd.Context(), cwd, args[0])
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.heading(out.Face)
			for i, key := range out.Vertices {
				pt := out.Points[i]
				p.item(fmt.Sprintf("%s (%g, %g, %g)", key, pt.X, pt.Y, pt.Z))
			}
			p.success("area %g, perimeter %g", out.Area, out.Perimeter)
			return nil
		},
	}
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <entity>",
		Short: "Remove an entity together with the edges, faces and associations that use it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			removed, err := c.components.App.Remove(cmd.Context(), cwd, args[0], c.options())
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("removed %d entities", len(removed))
			for _, key := range removed {
				p.item(key)
			}
			return nil
		},
	}
}
