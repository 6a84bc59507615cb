/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/save"
)

func newBoxNameCmd() *cobra.Command {
	boxNameCmd := &cobra.Command{
		Use:   "box-name <file>",
		Short: "Read or rename a PC box",
		Long: `Print the name of a PC storage box, or rename it with --set. Names are
limited to eight characters; characters outside the save's character set
end the name.

Examples:
  cartsave box-name emerald.sav --box 0
  cartsave box-name emerald.sav --box 3 --set TRADES`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			box, _ := cmd.Flags().GetInt("box")
			out, _ := cmd.Flags().GetString("output")
			newName, _ := cmd.Flags().GetString("set")
			rename := cmd.Flags().Changed("set")

			s, original, err := openFile(cmd, args[0], true)
			if err != nil {
				return err
			}
			g3, ok := s.(*save.Gen3)
			if !ok {
				return errors.Errorf("%s saves do not store box names", s.Format().Name())
			}

			if !rename {
				name, err := g3.BoxName(box)
				if err != nil {
					return err
				}
				cmd.Println(name)
				return nil
			}

			if err := g3.SetBoxName(box, newName); err != nil {
				return err
			}
			stored, err := g3.BoxName(box)
			if err != nil {
				return err
			}
			if err := commitEdit(cmd, args[0], out, g3, original); err != nil {
				return err
			}
			cmd.Printf("Box %d renamed to %q\n", box, stored)
			return nil
		},
	}

	boxNameCmd.Flags().IntP("box", "b", 0, "Box number (0-13)")
	boxNameCmd.Flags().String("set", "", "New box name")
	boxNameCmd.Flags().StringP("output", "o", "", "Write the edited image here instead of in place")
	return boxNameCmd
}
