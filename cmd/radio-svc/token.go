package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/jwt"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var userID, email string
	var expiry time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if expiry <= 0 {
				expiry = cfg.JWT.TokenExpiry
			}
			manager := jwt.NewManager(&jwt.Config{
				Secret:      cfg.JWT.Secret,
				Issuer:      cfg.JWT.Issuer,
				TokenExpiry: expiry,
			})
			token, err := manager.GenerateToken(userID, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "token for %s expires in %s\n", userID, manager.GetExpiryTime())
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id placed in the token")
	cmd.Flags().StringVar(&email, "email", "", "Optional email claim")
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "Token lifetime, defaults to jwt.token_expiry")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
