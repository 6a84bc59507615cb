/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRepairCmd() *cobra.Command {
	repairCmd := &cobra.Command{
		Use:   "repair <file>",
		Short: "Recompute the checksums of a save image",
		Long: `Rewrite a save image with every checksum of its active data recomputed.
The file is replaced in place unless --output is given; the original is
archived first when save.backup_on_write is enabled.

Examples:
  cartsave repair emerald.sav
  cartsave repair red.sav -o red-fixed.sav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")

			s, original, err := openFile(cmd, args[0], false)
			if err != nil {
				return err
			}

			failures := s.Validate()
			if len(failures) == 0 && out == "" {
				cmd.Printf("%s: nothing to repair\n", args[0])
				return nil
			}

			if err := commitEdit(cmd, args[0], out, s, original); err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{"file": args[0], "repaired": len(failures)}).Info("image repaired")
			cmd.Printf("Repaired %d checksums\n", len(failures))
			printFailures(cmd.OutOrStdout(), failures)
			return nil
		},
	}

	repairCmd.Flags().StringP("output", "o", "", "Write the repaired image here instead of in place")
	return repairCmd
}
