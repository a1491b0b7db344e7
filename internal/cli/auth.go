package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/logger"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

func newRegisterCmd() *cobra.Command {
	var reg types.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the blog service",
		Example: `  blogctl register --first-name Ada --last-name Lovelace \
    --email ada@example.com --username ada \
    --password s3cret --confirm-password s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.api.Register(cmd.Context(), reg); err != nil {
				return formError(err)
			}
			return a.out.Success("Registration successful! Please login.")
		},
	}
	f := cmd.Flags()
	f.StringVar(&reg.FirstName, "first-name", "", "first name")
	f.StringVar(&reg.LastName, "last-name", "", "last name")
	f.StringVar(&reg.EmailAddress, "email", "", "email address")
	f.StringVar(&reg.Username, "username", "", "username")
	f.StringVar(&reg.Password, "password", "", "password")
	f.StringVar(&reg.ConfirmPassword, "confirm-password", "", "password, repeated")
	return cmd
}

var errNoToken = errors.New("login response carried no token")

func newLoginCmd() *cobra.Command {
	var creds types.Credentials
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Sign in and store the session locally",
		Example: "  blogctl login --identifier ada@example.com --password s3cret",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			res, err := a.api.Login(cmd.Context(), creds)
			if err != nil {
				return formError(err)
			}
			if res.Token == "" {
				return systemError(errNoToken)
			}
			s, err := a.session()
			if err != nil {
				return err
			}
			if err := s.Login(res.Token, res.User); err != nil {
				return systemError(err)
			}
			logger.InfoWithFields("logged in", logger.Fields{"user_id": res.User.ID})

			if a.out.JSONMode() {
				return a.out.JSON(res.User)
			}
			name := res.User.DisplayName()
			if name == "" {
				return a.out.Success("Login successful")
			}
			return a.out.Success("Login successful. Welcome, %s!", name)
		},
	}
	cmd.Flags().StringVar(&creds.Identifier, "identifier", "", "email address or username")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			if err := s.Clear(); err != nil {
				return systemError(err)
			}
			return a.out.Success("Logged out")
		},
	}
}
