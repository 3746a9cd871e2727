package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jwttoken "formprefill/internal/jwt_token"
	"formprefill/internal/platform/config"
	id "formprefill/pkg/domain"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a session token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uid, err := id.ParseUserID(userID)
			if err != nil {
				return err
			}
			cfg := config.FromEnv()
			key, dev, err := cfg.SigningKey()
			if err != nil {
				return err
			}
			if dev {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: signing with the development key")
			}
			svc := jwttoken.NewJWTService(key, cfg.JWTIssuer, cfg.JWTAudience)
			token, err := svc.GenerateSessionToken(uid, uuid.New(), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "frontend user id")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
