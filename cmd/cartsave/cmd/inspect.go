/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/save"
)

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Describe a save image",
		Long: `Detect the format of a save image and print its slots, checksum
failures, party and box names.

Examples:
  cartsave inspect emerald.sav
  cartsave inspect --json red.sav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			s, _, err := openFile(cmd, args[0], true)
			if err != nil {
				return err
			}
			report := save.Inspect(s)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	inspectCmd.Flags().Bool("json", false, "Print the report as JSON")
	return inspectCmd
}

func printReport(w io.Writer, r save.Report) {
	fmt.Fprintf(w, "Format:      %s\n", r.Format)
	if r.Game != "" {
		fmt.Fprintf(w, "Game:        %s\n", r.Game)
	}
	fmt.Fprintf(w, "Region:      %s\n", r.Region)
	fmt.Fprintf(w, "Size:        %#x\n", r.Size)
	fmt.Fprintf(w, "Active slot: %d\n", r.ActiveSlot)
	for _, slot := range r.Slots {
		fmt.Fprintf(w, "  slot %d: counter %d, complete %t, sectors %#04x\n", slot.Index, slot.Counter, slot.Complete, slot.Mask)
	}

	if r.Valid {
		fmt.Fprintln(w, "Checksums:   ok")
	} else {
		fmt.Fprintf(w, "Checksums:   %d failures\n", len(r.Failures))
		printFailures(w, r.Failures)
	}

	fmt.Fprintf(w, "Party:       %d\n", r.PartyCount)
	printParty(w, r.Party)

	if len(r.BoxNames) > 0 {
		fmt.Fprintf(w, "Current box: %d\n", r.CurrentBox)
		fmt.Fprintf(w, "Boxes:       %s\n", strings.Join(r.BoxNames, ", "))
	}
}

func printFailures(w io.Writer, failures []save.Failure) {
	for _, f := range failures {
		if f.Sector < 0 {
			fmt.Fprintf(w, "  %s at %#x: stored %#x, computed %#x\n", f.Name, f.Offset, f.Stored, f.Computed)
			continue
		}
		fmt.Fprintf(w, "  sector %d (%s) at %#x: stored %#x, computed %#x\n", f.Sector, f.Name, f.Offset, f.Stored, f.Computed)
	}
}
