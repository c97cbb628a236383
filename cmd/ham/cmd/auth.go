package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	domain "github.com/nadermx/heroesandmore-client/pkg/types"
)

func loginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Example: `  ham login --username buyer --password password

  # Password from the environment
  HAM_PASSWORD=secret ham login --username buyer`,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if password == "" {
				password = viper.GetString("password")
			}
			err := a.client.Login(ctx, domain.LoginRequest{Username: username, Password: password})
			if err != nil {
				return failure("login failed", err)
			}
			fmt.Printf("Signed in as %s.\n", username)
			return nil
		}),
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&password, "password", "", "account password (or HAM_PASSWORD)")
	cobra.CheckErr(cmd.MarkFlagRequired("username"))

	return cmd
}

func registerCmd() *cobra.Command {
	var req domain.RegisterRequest

	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account and sign in",
		Example: `  ham register --username newbie --email newbie@example.com --password 'correct horse'`,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if req.Password == "" {
				req.Password = viper.GetString("password")
			}
			req.PasswordConfirm = req.Password
			if err := a.client.Register(ctx, req); err != nil {
				return failure("registration failed", err)
			}
			fmt.Printf("Registered and signed in as %s.\n", req.Username)
			return nil
		}),
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "account username")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (or HAM_PASSWORD)")
	cobra.CheckErr(cmd.MarkFlagRequired("username"))
	cobra.CheckErr(cmd.MarkFlagRequired("email"))

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			if err := a.client.Logout(ctx); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		}),
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			p, err := a.client.CurrentUser(ctx)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(p)
			}
			return printProfile(p)
		}),
	}
}
