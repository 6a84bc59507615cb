/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/save"
)

func newPartyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "party <file>",
		Short: "List the party of a save image",
		Long: `Print every party slot of a save image: species or personality value,
nickname, original trainer and egg flag.

Example:
  cartsave party emerald.sav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openFile(cmd, args[0], true)
			if err != nil {
				return err
			}
			report := save.Inspect(s)
			cmd.Printf("%s: %d of %d slots used\n", report.Format, report.PartyCount, s.PartyCapacity())
			printParty(cmd.OutOrStdout(), report.Party)
			return nil
		},
	}
}

func printParty(w io.Writer, party []save.PartyEntry) {
	if len(party) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tSPECIES\tPID\tNICKNAME\tOT\tEGG\tRECORD")
	for _, e := range party {
		if !e.Present {
			fmt.Fprintf(tw, "  %d\t-\t\t\t\t\t\n", e.Index)
			continue
		}
		record := ""
		if e.RecordValid != nil {
			record = "ok"
			if !*e.RecordValid {
				record = "bad checksum"
			}
		}
		pid := ""
		if e.PID != 0 {
			pid = fmt.Sprintf("%08x", e.PID)
		}
		fmt.Fprintf(tw, "  %d\t%d\t%s\t%s\t%s\t%t\t%s\n", e.Index, e.Species, pid, e.Nickname, e.OTName, e.Egg, record)
	}
	tw.Flush()
}
