package main

import (
	"github.com/spf13/cobra"

	"formprefill/internal/extconf"
	"formprefill/internal/gatekeeper"
	"formprefill/internal/siteconfig"
)

type allowListOutput struct {
	Source string   `json:"source"`
	Fields []string `json:"fields"`
	Error  string   `json:"extension_config_error,omitempty"`
}

func newAllowListCmd() *cobra.Command {
	var sitePath, extensionPath string
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Print the effective allow-list for a site",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var site *siteconfig.Site
			if sitePath != "" {
				s, err := siteconfig.LoadFile(sitePath)
				if err != nil {
					return err
				}
				site = s
			}

			var provider extconf.Provider
			if extensionPath != "" {
				provider = extconf.NewFileProvider(extensionPath)
			}
			defaults := extconf.Load(cmd.Context(), provider)

			res := gatekeeper.Resolve(site, defaults)
			out := allowListOutput{Source: string(res.Source), Fields: res.Fields}
			if defaults.Err != nil {
				out.Error = defaults.Err.Error()
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&sitePath, "site", "", "site configuration YAML")
	cmd.Flags().StringVar(&extensionPath, "extension-config", "", "extension configuration YAML")
	return cmd
}
