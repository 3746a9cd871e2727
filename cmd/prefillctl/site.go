package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"formprefill/internal/platform/config"
	"formprefill/internal/platform/redis"
	"formprefill/internal/siteconfig"
)

func newSiteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage site configuration in Redis",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "push FILE...",
		Short: "Validate site documents and store them in Redis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sites := make([]*siteconfig.Site, 0, len(args))
			for _, path := range args {
				site, err := siteconfig.LoadFile(path)
				if err != nil {
					return err
				}
				sites = append(sites, site)
			}

			client, err := redis.New(ctx, config.FromEnv().Redis)
			if err != nil {
				return err
			}
			if client == nil {
				return errors.New("REDIS_URL is not set")
			}
			defer client.Close()

			src := siteconfig.NewRedisSource(client.Client)
			for _, site := range sites {
				if err := src.Save(ctx, site); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", site.Identifier)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate site documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				site, err := siteconfig.LoadFile(path)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s)\n", path, site.Identifier)
			}
			return errors.Join(errs...)
		},
	})
	return cmd
}
