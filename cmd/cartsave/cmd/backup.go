/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/archive"
)

func newBackupCmd() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage archived save images",
		Long: `List, restore and delete the images archived before in-place edits and
API repairs.`,
	}
	backupCmd.AddCommand(newBackupListCmd(), newBackupGetCmd(), newBackupDeleteCmd())
	return backupCmd
}

func newBackupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openArchive(configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.List()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				cmd.Println("No backups")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tNAME\tFORMAT\tSIZE\tFAILURES\tSOURCE")
			for _, m := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					m.ID, m.CreatedAt.Local().Format(time.DateTime), m.Name, m.Format, m.Size, m.Failures, m.Source)
			}
			return tw.Flush()
		},
	}
}

func newBackupGetCmd() *cobra.Command {
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Restore a backup to a file",
		Long: `Write an archived image to a file. Without --output the backup's original
file name is used in the current directory.

Example:
  cartsave backup get 2mJQk4yWZ0f4cM3y7oQGm0m8jHk -o emerald.sav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")
			id, err := archive.ParseID(args[0])
			if err != nil {
				return err
			}

			a, err := openArchive(configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			meta, err := a.Meta(id)
			if err != nil {
				return err
			}
			data, err := a.Get(id)
			if err != nil {
				return err
			}

			if out == "" {
				out = meta.Name
			}
			if out == "" {
				out = meta.ID + ".sav"
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return errors.Wrap(err, "write backup")
			}
			cmd.Printf("Restored %s (%d bytes) to %s\n", meta.ID, len(data), out)
			return nil
		},
	}
	getCmd.Flags().StringP("output", "o", "", "Destination file")
	return getCmd
}

func newBackupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := archive.ParseID(args[0])
			if err != nil {
				return err
			}

			a, err := openArchive(configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Delete(id); err != nil {
				return err
			}
			cmd.Printf("Deleted %s\n", id)
			return nil
		},
	}
}
