package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"formprefill/internal/mapping"
	"formprefill/internal/siteconfig"
)

type mappingOptions struct {
	sitePath   string
	authorPath string
	formID     string
	explain    bool
}

type explainedEntry struct {
	Field string        `json:"field"`
	Layer mapping.Layer `json:"layer"`
}

func newMappingCmd() *cobra.Command {
	opts := mappingOptions{}
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Print the effective field mapping for a form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var site *siteconfig.Site
			if opts.sitePath != "" {
				s, err := siteconfig.LoadFile(opts.sitePath)
				if err != nil {
					return err
				}
				site = s
			}

			var authorText string
			if opts.authorPath != "" {
				data, err := readInput(opts.authorPath, cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read author mapping: %w", err)
				}
				authorText = string(data)
			}

			m := mapping.Build(authorText, opts.formID, site)
			if !opts.explain {
				return writeJSON(cmd.OutOrStdout(), m)
			}
			layers := mapping.Explain(authorText, opts.formID, site)
			out := make(map[string]explainedEntry, len(m))
			for key, field := range m {
				out[key] = explainedEntry{Field: field, Layer: layers[key]}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&opts.sitePath, "site", "", "site configuration YAML")
	cmd.Flags().StringVar(&opts.authorPath, "author", "", "author mapping text file, - for stdin")
	cmd.Flags().StringVar(&opts.formID, "form", "", "form identifier, e.g. contact-42")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "show which layer contributed each entry")
	return cmd
}
