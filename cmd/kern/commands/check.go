package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the model's dependencies can be ordered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			report, err := c.components.App.Check(cmd.Context(), cwd)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			p.success("%d nodes, %d associations, no cycles", report.Nodes, report.Associations)
			for _, id := range report.Invalid {
				p.warning("association %s references a missing entity", id)
			}
			return nil
		},
	}
}

func (c *CLI) newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the evaluation order of the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			report, err := c.components.App.Check(cmd.Context(), cwd)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			for i, key := range report.Order {
				p.item(fmt.Sprintf("%d. %s", i+1, key))
			}
			return nil
		},
	}
}

func (c *CLI) newRecomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute every association of the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			pass, err := c.components.App.Recompute(cmd.Context(), cwd, c.options())
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).pass("recomputed", pass)
			return nil
		},
	}
}
