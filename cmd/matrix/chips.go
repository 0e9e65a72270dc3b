package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pehlione.com/catalog/internal/modules/variants"
)

func newChipsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "chips <buffer>",
		Short: "Show how an option values buffer splits into chips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := variants.ParseChips(args[0])
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			fmt.Fprintf(out, "committed: %s\n", strings.Join(st.Committed, " | "))
			fmt.Fprintf(out, "typing:    %s\n", st.Typing)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
