package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInterventionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "interventions",
		Short: "List the supported interventions",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := forecaster.Registry().Entries()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tCATEGORY\tUNIT\tRANGE\tRAMPED\tDESCRIPTION")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%g-%g\t%v\t%s\n", e.Kind, e.Category, e.Unit, e.Min, e.Max, e.Ramped, e.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the registry as JSON")
	return cmd
}
