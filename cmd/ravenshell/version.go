package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/ravenshell/internal/version"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Read()
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), info.String()); err != nil {
				return err
			}
			if !verbose {
				return nil
			}
			if info.Revision != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "revision: %s\n", info.Revision)
			}
			if !info.Time.IsZero() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", info.Time.Format("2006-01-02T15:04:05Z"))
			}
			if info.Modified {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "modified: true")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include vcs details")
	return cmd
}
