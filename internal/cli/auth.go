// auth.go implements login, register and logout.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examcoach/examcoach/internal/api"
	"github.com/examcoach/examcoach/internal/storage"
)

func newLoginCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			tok, err := s.client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			name := api.DisplayName(email)
			if err := s.store.SaveCredentials(storage.Credentials{
				AccessToken: tok.AccessToken,
				StudentID:   tok.StudentID,
				StudentName: name,
			}); err != nil {
				return fmt.Errorf("saving credentials: %w", err)
			}

			fmt.Fprintf(out(cmd), "Logged in as %s (student %d)\n", name, tok.StudentID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(opts *options) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and remember the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			tok, err := s.client.Register(cmd.Context(), api.Registration{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}
			if err := s.store.SaveCredentials(storage.Credentials{
				AccessToken: tok.AccessToken,
				StudentID:   tok.StudentID,
				StudentName: name,
			}); err != nil {
				return fmt.Errorf("saving credentials: %w", err)
			}

			fmt.Fprintf(out(cmd), "Registered %s (student %d)\n", name, tok.StudentID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	for _, f := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.store.ClearCredentials(); err != nil {
				return fmt.Errorf("clearing credentials: %w", err)
			}
			fmt.Fprintln(out(cmd), "Logged out.")
			return nil
		},
	}
}
