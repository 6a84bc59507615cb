/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrChecksumFailures is returned by validate when the image is corrupt.
var ErrChecksumFailures = errors.New("checksum failures found")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check every checksum of a save image",
		Long: `Recompute every checksum covering the active data of a save image and
compare it with the stored value. Exits non-zero when anything differs.

Example:
  cartsave validate emerald.sav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openFile(cmd, args[0], false)
			if err != nil {
				return err
			}

			failures := s.Validate()
			if len(failures) == 0 {
				cmd.Printf("%s: %s, all checksums ok\n", args[0], s.Format().Name())
				return nil
			}

			cmd.Printf("%s: %s, %d checksum failures\n", args[0], s.Format().Name(), len(failures))
			printFailures(cmd.OutOrStdout(), failures)
			return errors.Wrapf(ErrChecksumFailures, "%d in %s", len(failures), args[0])
		},
	}
}
