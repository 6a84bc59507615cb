/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/hex"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/save"
)

func newRecordCmd() *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record <file>",
		Short: "Dump one party record",
		Long: `Print a party record as a hex dump or write it to a file. With --decrypt,
third generation records are returned in canonical form: XOR removed and
blocks in A, B, C, D order.

Examples:
  cartsave record emerald.sav --index 0
  cartsave record emerald.sav --index 2 --decrypt -o mon.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _ := cmd.Flags().GetInt("index")
			decrypt, _ := cmd.Flags().GetBool("decrypt")
			out, _ := cmd.Flags().GetString("output")

			s, _, err := openFile(cmd, args[0], true)
			if err != nil {
				return err
			}

			var data []byte
			if g3, ok := s.(*save.Gen3); ok && decrypt {
				r, err := g3.DecryptedRecord(index)
				if err != nil {
					return err
				}
				if err := r.Validate(); err != nil {
					cmd.Printf("warning: record %d: %v\n", index, err)
				}
				data = r.Data
			} else {
				data, err = s.Record(index)
				if err != nil {
					return err
				}
			}

			if out != "" {
				return errors.Wrap(os.WriteFile(out, data, 0644), "write record")
			}
			cmd.Print(hex.Dump(data))
			return nil
		},
	}

	recordCmd.Flags().IntP("index", "i", 0, "Party slot")
	recordCmd.Flags().Bool("decrypt", false, "Return the canonical decrypted form (gen3)")
	recordCmd.Flags().StringP("output", "o", "", "Write the raw record to this file")
	return recordCmd
}
