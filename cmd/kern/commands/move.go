package commands

import (
	"strconv"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <vertex> <x> <y> [z]",
		Short: "Move a vertex and propagate the move to its dependents",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseVec(args[1:])
			if err != nil {
				return err
			}
			cwd, err := c.cwd()
			if err != nil {
				return err
			}
			pass, err := c.components.App.Move(cmd.Context(), cwd, args[0], to, c.options())
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).pass("moved "+args[0]+", recomputed", pass)
			return nil
		},
	}
}

func parseVec(args []string) (v3.Vec, error) {
	var xyz [3]float64
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return v3.Vec{}, zerr.With(zerr.Wrap(err, "invalid coordinate"), "value", arg)
		}
		xyz[i] = f
	}
	return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
