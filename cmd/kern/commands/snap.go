package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kern/internal/app"
)

func (c *CLI) newSnapCmd() *cobra.Command {
	var (
		toEdge    bool
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "snap <vertex>",
		Short: "Attach a vertex to its nearest vertex or edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			created, err := c.components.App.Snap(cmd.Context(), cwd, args[0], app.SnapOptions{
				Options:   c.options(),
				ToEdge:    toEdge,
				Tolerance: tolerance,
			})
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("added %s", created.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&toEdge, "edge", "e", false, "Snap onto the nearest edge instead of the nearest vertex")
	cmd.Flags().Float64VarP(&tolerance, "tolerance", "t", -1, "Maximum snap distance (defaults to snap.tolerance)")
	return cmd
}
