package main

import (
	"fmt"
	"time"

	"tarantula-log/internal/adapters/auth/jwtauth"

	"github.com/spf13/cobra"
)

// tokenCommand firma un JWT con el secret configurado; útil en desarrollo y smoke tests.
func tokenCommand(a *app) *cobra.Command {
	var (
		userID string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := jwtauth.NewVerifier(a.cfg.Auth.JWTSecret, a.cfg.Auth.JWTIssuer)
			if err != nil {
				return err
			}
			tok, err := v.Issue(userID, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (sub claim)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
