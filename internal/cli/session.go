package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.Health(cmd.Context()); err != nil {
				return fmt.Errorf("API at %s is not reachable: %w", a.cfg.APIURL, err)
			}
			session, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			path, err := saveSession(a.v, session.Token, session.User.ID)
			if err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			a.printf("Signed in as %s (user %d). Token saved to %s.\n", session.User.Email, session.User.ID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignupCmd(a *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.api.Signup(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			path, err := saveSession(a.v, session.Token, session.User.ID)
			if err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			a.printf("Welcome %s (user %d). Token saved to %s.\n", session.User.Name, session.User.ID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password, at least 8 characters")
	for _, flag := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

func newCacheCmd(a *App) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local logbook cache",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete everything in the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.clearCache(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			a.printf("Cache cleared.\n")
			return nil
		},
	}

	cacheCmd.AddCommand(clearCmd)
	return cacheCmd
}
