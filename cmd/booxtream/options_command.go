package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/booxtream/options"
)

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "options",
		Short:       "List the delivery options understood by the service",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(options.Keys()))
			for _, key := range options.Keys() {
				output := "all"
				if key.MetadataOnly() {
					output = "xml"
				}
				rows = append(rows, []string{
					string(key),
					key.Kind().String(),
					yesNo(key.Required()),
					output,
					key.Description(),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Key", "Type", "Required", "Output", "Description"}, rows))

			codes := make([]string, len(options.LanguageCodes))
			for i, c := range options.LanguageCodes {
				codes[i] = strconv.Itoa(c)
			}
			fmt.Fprintf(out, "Language codes: %s\n", strings.Join(codes, ", "))
			fmt.Fprintln(out, "One of customername or customeremailaddress is required.")

			return nil
		},
	}
}
